// internal/embedding/provider.go
package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"time"

	"brandscore-workers/internal/common/config"
	"brandscore-workers/internal/common/errors"
	"brandscore-workers/internal/common/logger"
	"brandscore-workers/internal/common/metrics"

	openai "github.com/sashabaranov/go-openai"
)

// EmbeddingsClient is the slice of the OpenAI client the provider depends on.
type EmbeddingsClient interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Provider turns text into fixed-length vectors. When the remote model is
// disabled or unreachable it substitutes a deterministic pseudo-embedding
// derived from the input text, so callers never see an error and downstream
// math cannot tell which path produced the vector.
type Provider struct {
	client    EmbeddingsClient
	model     openai.EmbeddingModel
	dimension int
	timeout   time.Duration
	logger    logger.Logger
}

// NewProvider builds a Provider from configuration. When cfg.Enabled is
// false no remote client is created and every request takes the fallback path.
func NewProvider(cfg config.EmbeddingConfig, log logger.Logger) *Provider {
	var client EmbeddingsClient
	if cfg.Enabled && cfg.APIKey != "" {
		client = openai.NewClient(cfg.APIKey)
	}
	return NewProviderWithClient(client, cfg, log)
}

// NewProviderWithClient builds a Provider around an explicit client.
// A nil client means the provider is disabled.
func NewProviderWithClient(client EmbeddingsClient, cfg config.EmbeddingConfig, log logger.Logger) *Provider {
	return &Provider{
		client:    client,
		model:     openai.EmbeddingModel(cfg.Model),
		dimension: cfg.Dimension,
		timeout:   time.Duration(cfg.RequestTimeout) * time.Millisecond,
		logger:    log.WithFields(map[string]interface{}{"component": "embedding-provider"}),
	}
}

// Dimension returns the configured vector length.
func (p *Provider) Dimension() int {
	return p.dimension
}

// EmbedDocument embeds a piece of stored content. Never returns an error.
func (p *Provider) EmbedDocument(ctx context.Context, text string) []float64 {
	return p.embed(ctx, text)
}

// EmbedQuery embeds a query or brand-description string. Never returns an error.
func (p *Provider) EmbedQuery(ctx context.Context, text string) []float64 {
	return p.embed(ctx, text)
}

func (p *Provider) embed(ctx context.Context, text string) []float64 {
	if p.client == nil {
		metrics.EmbeddingFallbacks.WithLabelValues("disabled").Inc()
		return FallbackVector(text, p.dimension)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      []string{text},
		Model:      p.model,
		Dimensions: p.dimension,
	})
	if err != nil {
		stdErr := errors.NewEmbeddingUnavailableError(err)
		p.logger.Warn("remote embedding failed, using fallback", map[string]interface{}{
			"code":  string(stdErr.Code),
			"error": stdErr.Details,
		})
		metrics.EmbeddingFallbacks.WithLabelValues("error").Inc()
		return FallbackVector(text, p.dimension)
	}

	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		p.logger.Warn("remote embedding returned empty response, using fallback", nil)
		metrics.EmbeddingFallbacks.WithLabelValues("empty").Inc()
		return FallbackVector(text, p.dimension)
	}

	raw := resp.Data[0].Embedding
	vector := make([]float64, len(raw))
	for i, v := range raw {
		vector[i] = float64(v)
	}
	return vector
}

// FallbackVector derives a repeatable pseudo-embedding from text by chaining
// SHA-256 blocks. The same text always yields the same vector, and the vector
// has exactly dim components in [-1,1].
func FallbackVector(text string, dim int) []float64 {
	vector := make([]float64, dim)
	seed := sha256.Sum256([]byte(text))

	block := seed
	idx := 0
	for idx < dim {
		for off := 0; off+4 <= len(block) && idx < dim; off += 4 {
			u := binary.BigEndian.Uint32(block[off : off+4])
			vector[idx] = float64(u)/float64(math.MaxUint32)*2 - 1
			idx++
		}
		block = sha256.Sum256(block[:])
	}
	return vector
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Vectors of different lengths or zero magnitude compare as 0; that is a
// defined edge case, not a fault.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
