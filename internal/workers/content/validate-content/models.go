// internal/workers/content/validate-content/models.go
package validatecontent

import "brandscore-workers/internal/models"

// Input accepts either a stored content reference or raw text plus the
// project it belongs to.
type Input struct {
	ContentID string `json:"contentId,omitempty"`
	Content   string `json:"content,omitempty"`
	ProjectID string `json:"projectId,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
}

type Output struct {
	models.ValidationResult
}
