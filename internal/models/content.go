// internal/models/content.go
package models

const (
	MediaTypeText  = "text"
	MediaTypeImage = "image"
)

// Content is a generated content item. For images TextContent may hold the
// generation prompt rather than a caption.
type Content struct {
	ID          string `json:"id"`
	ProjectID   string `json:"projectId"`
	MediaType   string `json:"mediaType"`
	TextContent string `json:"textContent"`
	CreatedAt   string `json:"createdAt"`
}
