// internal/models/theme.go
package models

// Theme holds the brand metadata a client supplies for a project.
type Theme struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Tags         []string `json:"tags"`
	Inspirations []string `json:"inspirations"`
	Font         string   `json:"font,omitempty"`
}

// ColorPalette groups extracted colors by prominence.
type ColorPalette struct {
	Primary   []string `json:"primary"`
	Secondary []string `json:"secondary"`
	Accent    []string `json:"accent"`
	Mood      string   `json:"mood"`
}

// ThemeAnalysis is the derived brand profile for a theme. All numeric
// scores are clamped to [0,100]; DominantStyles never exceeds 3 entries.
type ThemeAnalysis struct {
	ColorPalette    ColorPalette `json:"colorPalette"`
	StyleScore      int          `json:"styleScore"`
	DominantStyles  []string     `json:"dominantStyles"`
	VisualMood      string       `json:"visualMood"`
	ComplexityScore int          `json:"complexityScore"`
	BrandStrength   int          `json:"brandStrength"`
}
