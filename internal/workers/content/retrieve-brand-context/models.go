// internal/workers/content/retrieve-brand-context/models.go
package retrievebrandcontext

type Input struct {
	ProjectID string `json:"projectId"`
	QueryText string `json:"queryText"`
	TopK      int    `json:"topK,omitempty"`
}

type Output struct {
	AvgSimilarity float64     `json:"avgSimilarity"`
	References    []Reference `json:"references"`
	Descriptions  []string    `json:"descriptions"`
}

// Reference points at one prior content item relevant to the query.
type Reference struct {
	ContentID  string  `json:"contentId"`
	MediaType  string  `json:"mediaType"`
	Similarity float64 `json:"similarity"`
}
