// internal/workers/content/rank-content/models.go
package rankcontent

import "brandscore-workers/internal/models"

// Input selects the batch to rank. Exactly one of ProjectID or a non-empty
// ContentIDs list must be supplied.
type Input struct {
	ProjectID  string   `json:"projectId,omitempty"`
	ContentIDs []string `json:"contentIds,omitempty"`
	Limit      int      `json:"limit,omitempty"`
}

type Output struct {
	RankedContent []models.RankedContentEntry `json:"rankedContent"`
	Summary       Summary                     `json:"summary"`
}

// Summary reflects the untruncated batch: TotalRanked counts every resolved
// item even when Limit trimmed the returned list.
type Summary struct {
	TotalRanked int    `json:"totalRanked"`
	ProjectID   string `json:"projectId,omitempty"`
	ThemeID     string `json:"themeId,omitempty"`
}
