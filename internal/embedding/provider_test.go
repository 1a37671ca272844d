// internal/embedding/provider_test.go
package embedding

import (
	"context"
	"errors"
	"testing"

	"brandscore-workers/internal/common/config"
	"brandscore-workers/internal/common/logger"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEmbeddingConfig() config.EmbeddingConfig {
	return config.EmbeddingConfig{
		Model:          "text-embedding-3-small",
		Dimension:      64,
		RequestTimeout: 1000,
	}
}

// fakeClient implements EmbeddingsClient for tests.
type fakeClient struct {
	resp openai.EmbeddingResponse
	err  error
}

func (f *fakeClient) CreateEmbeddings(_ context.Context, _ openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error) {
	return f.resp, f.err
}

func TestFallbackVector_Deterministic(t *testing.T) {
	a := FallbackVector("modern tech brand", 64)
	b := FallbackVector("modern tech brand", 64)
	c := FallbackVector("vintage coffee shop", 64)

	assert.Equal(t, a, b, "same text must yield the same fallback vector")
	assert.NotEqual(t, a, c, "different text should yield a different vector")
}

func TestFallbackVector_DimensionAndRange(t *testing.T) {
	for _, dim := range []int{1, 7, 64, 768} {
		v := FallbackVector("some text", dim)
		require.Len(t, v, dim)
		for _, x := range v {
			assert.GreaterOrEqual(t, x, -1.0)
			assert.LessOrEqual(t, x, 1.0)
		}
	}
}

func TestFallbackVector_NotAllZero(t *testing.T) {
	v := FallbackVector("", 32)
	nonZero := false
	for _, x := range v {
		if x != 0 {
			nonZero = true
			break
		}
	}
	assert.True(t, nonZero, "fallback vector must have non-zero magnitude")
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"identical vectors", []float64{1, 2, 3}, []float64{1, 2, 3}, 1.0},
		{"opposite vectors", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"orthogonal vectors", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0.0},
		{"zero left vector", []float64{0, 0}, []float64{1, 2}, 0.0},
		{"zero right vector", []float64{1, 2}, []float64{0, 0}, 0.0},
		{"both empty", []float64{}, []float64{}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosineSimilarity_SelfIsOne(t *testing.T) {
	v := FallbackVector("any non-empty text", 128)
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
}

func TestProvider_DisabledUsesFallback(t *testing.T) {
	p := NewProviderWithClient(nil, testEmbeddingConfig(), logger.NewNoOpLogger())

	v := p.EmbedDocument(context.Background(), "hello")
	assert.Equal(t, FallbackVector("hello", 64), v)
	assert.Len(t, v, p.Dimension())
}

func TestProvider_RemoteErrorUsesFallback(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	p := NewProviderWithClient(client, testEmbeddingConfig(), logger.NewTestLogger(t))

	v := p.EmbedQuery(context.Background(), "hello")
	assert.Equal(t, FallbackVector("hello", 64), v, "remote failure must fall back deterministically")
}

func TestProvider_EmptyResponseUsesFallback(t *testing.T) {
	client := &fakeClient{resp: openai.EmbeddingResponse{}}
	p := NewProviderWithClient(client, testEmbeddingConfig(), logger.NewTestLogger(t))

	v := p.EmbedDocument(context.Background(), "hello")
	assert.Equal(t, FallbackVector("hello", 64), v)
}

func TestProvider_RemoteSuccess(t *testing.T) {
	client := &fakeClient{
		resp: openai.EmbeddingResponse{
			Data: []openai.Embedding{
				{Embedding: []float32{0.5, -0.25, 0.125}},
			},
		},
	}
	p := NewProviderWithClient(client, testEmbeddingConfig(), logger.NewTestLogger(t))

	v := p.EmbedDocument(context.Background(), "hello")
	assert.Equal(t, []float64{0.5, -0.25, 0.125}, v)
}
