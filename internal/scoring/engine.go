// internal/scoring/engine.go
package scoring

import (
	"context"
	"math"
	"strings"

	"brandscore-workers/internal/analysis"
	"brandscore-workers/internal/common/logger"
	"brandscore-workers/internal/common/metrics"
	"brandscore-workers/internal/embedding"
	"brandscore-workers/internal/models"
)

// Fixed weighting policy for combining the two signals.
const (
	BrandWeight   = 0.6
	QualityWeight = 0.4
	PassThreshold = 70
)

// Embedder produces vectors for text. Satisfied by *embedding.Provider.
type Embedder interface {
	EmbedDocument(ctx context.Context, text string) []float64
	EmbedQuery(ctx context.Context, text string) []float64
}

// EmbeddingSource is the cached embedding store the engine reads through.
type EmbeddingSource interface {
	GetByContentID(ctx context.Context, contentID string) ([]float64, error)
	Create(ctx context.Context, contentID string, vector []float64, sourceText string) error
}

// Scores carries the three signals for one content item, each in [0,100].
type Scores struct {
	BrandConsistency int `json:"brandConsistency"`
	Quality          int `json:"quality"`
	Overall          int `json:"overall"`
}

// Engine is the scoring primitive shared by the validate and rank workers.
type Engine struct {
	provider   Embedder
	embeddings EmbeddingSource
	logger     logger.Logger
}

func NewEngine(provider Embedder, embeddings EmbeddingSource, log logger.Logger) *Engine {
	return &Engine{
		provider:   provider,
		embeddings: embeddings,
		logger:     log.WithFields(map[string]interface{}{"component": "scoring-engine"}),
	}
}

// EmbedBrand embeds a brand-description string. Computed once per request
// and reused across a batch.
func (e *Engine) EmbedBrand(ctx context.Context, brandText string) []float64 {
	return e.provider.EmbedQuery(ctx, brandText)
}

// ScoreContent scores one content item against a brand embedding. The only
// failure mode is caller cancellation: embedding failures degrade to the
// deterministic fallback and never surface here.
func (e *Engine) ScoreContent(ctx context.Context, content models.Content, brandVector []float64) (Scores, error) {
	if err := ctx.Err(); err != nil {
		return Scores{}, err
	}

	contentVector := e.resolveEmbedding(ctx, content)

	similarity := embedding.CosineSimilarity(contentVector, brandVector)
	brand := clamp(int(math.Round(similarity*100)), 0, 100)
	quality := analysis.ScoreText(content.TextContent)

	scores := Scores{
		BrandConsistency: brand,
		Quality:          quality,
		Overall:          Combine(brand, quality),
	}

	metrics.ContentItemsScored.WithLabelValues("scored").Inc()
	return scores, nil
}

// resolveEmbedding returns the stored embedding for a content item,
// generating and persisting one when absent. Persistence is fire-and-forget:
// a store failure is logged and the fresh vector used anyway.
func (e *Engine) resolveEmbedding(ctx context.Context, content models.Content) []float64 {
	if e.embeddings != nil {
		vector, err := e.embeddings.GetByContentID(ctx, content.ID)
		if err != nil {
			e.logger.Warn("embedding lookup failed, regenerating", map[string]interface{}{
				"contentId": content.ID,
				"error":     err,
			})
		} else if vector != nil {
			return vector
		}
	}

	vector := e.provider.EmbedDocument(ctx, content.TextContent)

	if e.embeddings != nil && content.ID != "" {
		if err := e.embeddings.Create(ctx, content.ID, vector, content.TextContent); err != nil {
			e.logger.Warn("embedding store failed", map[string]interface{}{
				"contentId": content.ID,
				"error":     err,
			})
		}
	}
	return vector
}

// Combine applies the fixed brand/quality weighting policy.
func Combine(brand, quality int) int {
	return clamp(int(math.Round(
		BrandWeight*float64(brand)+QualityWeight*float64(quality))), 0, 100)
}

// BrandDescription builds the text a project's content is compared against,
// from the project's framing and the theme's metadata. Empty fields are
// skipped so sparse projects still produce a usable description.
func BrandDescription(project models.Project, theme models.Theme) string {
	var parts []string

	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			parts = append(parts, label+": "+value)
		}
	}

	add("Project", project.Name)
	add("Description", project.Description)
	add("Goals", project.Goals)
	add("Target customer", project.CustomerType)
	add("Brand theme", theme.Name)
	if len(theme.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(theme.Tags, ", "))
	}
	if len(theme.Inspirations) > 0 {
		parts = append(parts, "Inspirations: "+strings.Join(theme.Inspirations, ", "))
	}

	return strings.Join(parts, ". ")
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
