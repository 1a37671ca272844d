// internal/models/embedding.go
package models

// Embedding associates a content item with its vector and source text.
// Embeddings are derived data: regenerated on demand, replaced rather than
// mutated, and duplicate writes for the same content are idempotent.
type Embedding struct {
	ID         string    `json:"id"`
	ContentID  string    `json:"contentId"`
	Vector     []float64 `json:"vector"`
	SourceText string    `json:"sourceText"`
	CreatedAt  string    `json:"createdAt"`
}
