// internal/models/project.go
package models

// Project owns content items and links to exactly one theme.
type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Goals        string `json:"goals"`
	CustomerType string `json:"customerType"`
	ThemeID      string `json:"themeId"`
}
