// internal/workers/content/analyze-theme/models.go
package analyzetheme

import "brandscore-workers/internal/models"

type Input struct {
	Theme models.Theme `json:"theme"`
}

type Output struct {
	ThemeAnalysis models.ThemeAnalysis `json:"themeAnalysis"`
}
