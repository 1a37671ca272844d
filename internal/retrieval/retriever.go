// internal/retrieval/retriever.go
package retrieval

import (
	"context"
	"sort"

	"brandscore-workers/internal/common/logger"
	"brandscore-workers/internal/embedding"
	"brandscore-workers/internal/models"
)

// Embedder produces vectors for text. Satisfied by *embedding.Provider.
type Embedder interface {
	EmbedDocument(ctx context.Context, text string) []float64
	EmbedQuery(ctx context.Context, text string) []float64
}

// EmbeddingSource is the cached embedding store a retriever reads through.
type EmbeddingSource interface {
	GetByContentID(ctx context.Context, contentID string) ([]float64, error)
	Create(ctx context.Context, contentID string, vector []float64, sourceText string) error
}

// ScoredItem pairs a pool item with its similarity to the query.
type ScoredItem struct {
	Content    models.Content `json:"content"`
	Similarity float64        `json:"similarity"`
}

// Result of a retrieval pass. AvgSimilarity covers the whole pool, not just
// the returned top items; it serves as a novelty/alignment signal for the
// query as a whole.
type Result struct {
	AvgSimilarity float64      `json:"avgSimilarity"`
	Top           []ScoredItem `json:"top"`
	Descriptions  []string     `json:"descriptions"`
}

// Retriever ranks a pool of existing content by similarity to a query
// embedding. Search is a linear scan over the supplied pool; there is no
// durable index.
type Retriever struct {
	provider   Embedder
	embeddings EmbeddingSource
	logger     logger.Logger
}

func NewRetriever(provider Embedder, embeddings EmbeddingSource, log logger.Logger) *Retriever {
	return &Retriever{
		provider:   provider,
		embeddings: embeddings,
		logger:     log.WithFields(map[string]interface{}{"component": "retriever"}),
	}
}

// Retrieve scores every pool item against the query vector and returns the
// top k plus the mean similarity across the full pool.
func (r *Retriever) Retrieve(ctx context.Context, queryVector []float64, pool []models.Content, k int) Result {
	if len(pool) == 0 {
		return Result{Top: []ScoredItem{}, Descriptions: []string{}}
	}

	scored := make([]ScoredItem, 0, len(pool))
	total := 0.0
	for _, item := range pool {
		vector := r.resolveVector(ctx, item)
		sim := embedding.CosineSimilarity(queryVector, vector)
		total += sim
		scored = append(scored, ScoredItem{Content: item, Similarity: sim})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})

	if k > 0 && k < len(scored) {
		scored = scored[:k]
	}

	descriptions := make([]string, 0, len(scored))
	for _, item := range scored {
		descriptions = append(descriptions, item.Content.TextContent)
	}

	return Result{
		AvgSimilarity: total / float64(len(pool)),
		Top:           scored,
		Descriptions:  descriptions,
	}
}

// resolveVector returns the stored embedding for an item, generating and
// persisting one when absent. Store failures degrade to a fresh embedding
// rather than aborting the scan.
func (r *Retriever) resolveVector(ctx context.Context, item models.Content) []float64 {
	if r.embeddings != nil {
		vector, err := r.embeddings.GetByContentID(ctx, item.ID)
		if err != nil {
			r.logger.Warn("embedding lookup failed, regenerating", map[string]interface{}{
				"contentId": item.ID,
				"error":     err,
			})
		} else if vector != nil {
			return vector
		}
	}

	vector := r.provider.EmbedDocument(ctx, item.TextContent)
	if r.embeddings != nil {
		if err := r.embeddings.Create(ctx, item.ID, vector, item.TextContent); err != nil {
			r.logger.Warn("embedding store failed", map[string]interface{}{
				"contentId": item.ID,
				"error":     err,
			})
		}
	}
	return vector
}
