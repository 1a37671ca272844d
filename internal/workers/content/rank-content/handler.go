// internal/workers/content/rank-content/handler.go
package rankcontent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"brandscore-workers/internal/common/errors"
	"brandscore-workers/internal/common/logger"
	"brandscore-workers/internal/common/metrics"
	"brandscore-workers/internal/common/validation"
	"brandscore-workers/internal/models"
	"brandscore-workers/internal/scoring"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "rank-content"

	unableToScore = "unable to score"
)

const inputSchema = `{
	"type": "object",
	"properties": {
		"projectId":  {"type": "string"},
		"contentIds": {"type": "array", "items": {"type": "string"}},
		"limit":      {"type": "integer", "minimum": 0}
	}
}`

// ContentSource resolves the content batch.
type ContentSource interface {
	ListByProject(ctx context.Context, projectID string) ([]models.Content, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Content, error)
}

// ProjectSource resolves a project together with its linked theme.
type ProjectSource interface {
	GetWithTheme(ctx context.Context, projectID string) (*models.Project, *models.Theme, error)
}

// Scorer is the shared scoring primitive. Satisfied by *scoring.Engine.
type Scorer interface {
	EmbedBrand(ctx context.Context, brandText string) []float64
	ScoreContent(ctx context.Context, content models.Content, brandVector []float64) (scoring.Scores, error)
}

type Handler struct {
	config       *Config
	contents     ContentSource
	projects     ProjectSource
	scorer       Scorer
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, contents ContentSource, projects ProjectSource, scorer Scorer, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		contents:     contents,
		projects:     projects,
		scorer:       scorer,
		errorHandler: errors.NewErrorHandler(log),
		logger:       log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	start := time.Now()
	defer func() {
		metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	}()

	if result := validation.ValidateJSON(job.Variables, inputSchema); !result.Valid {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.ErrCodeInvalidArgument)).Inc()
		h.errorHandler.HandleJobError(context.Background(), client, job,
			errors.NewInvalidArgumentError(result.ErrorString()))
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.ErrCodeInvalidArgument)).Inc()
		h.errorHandler.HandleJobError(context.Background(), client, job,
			errors.NewInvalidArgumentError(fmt.Sprintf("parse input: %v", err)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(errors.CodeOf(err))).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	h.completeJob(client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	start := time.Now()

	project, theme, pool, err := h.resolveBatch(ctx, input)
	if err != nil {
		return nil, err
	}

	brandText := scoring.BrandDescription(*project, *theme)
	brandVector := h.scorer.EmbedBrand(ctx, brandText)

	ranked := h.scoreBatch(ctx, pool, brandVector)
	if err := ctx.Err(); err != nil {
		return nil, errors.NewInternalError("rank content", err)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].OverallScore > ranked[j].OverallScore
	})

	summary := Summary{
		TotalRanked: len(ranked),
		ProjectID:   project.ID,
		ThemeID:     theme.ID,
	}

	if input.Limit > 0 && input.Limit < len(ranked) {
		ranked = ranked[:input.Limit]
	}

	h.logger.Info("ranking completed", map[string]interface{}{
		"projectId":   project.ID,
		"totalRanked": summary.TotalRanked,
		"returned":    len(ranked),
		"durationMs":  time.Since(start).Milliseconds(),
	})

	return &Output{RankedContent: ranked, Summary: summary}, nil
}

func validateInput(input *Input) error {
	hasProject := input.ProjectID != ""
	hasIDs := len(input.ContentIDs) > 0

	if hasProject == hasIDs {
		return errors.NewInvalidArgumentError("exactly one of projectId or a non-empty contentIds list is required")
	}
	return nil
}

// resolveBatch loads the project, theme, and content pool. Explicit ID lists
// that resolve to nothing are a NotFound; a project with no content is an
// empty batch, not an error.
func (h *Handler) resolveBatch(ctx context.Context, input *Input) (*models.Project, *models.Theme, []models.Content, error) {
	if input.ProjectID != "" {
		project, theme, err := h.projects.GetWithTheme(ctx, input.ProjectID)
		if err != nil {
			return nil, nil, nil, err
		}
		pool, err := h.contents.ListByProject(ctx, input.ProjectID)
		if err != nil {
			return nil, nil, nil, err
		}
		return project, theme, pool, nil
	}

	pool, err := h.contents.GetByIDs(ctx, input.ContentIDs)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(pool) == 0 {
		return nil, nil, nil, errors.NewNotFoundError("content", fmt.Sprintf("%v", input.ContentIDs))
	}

	project, theme, err := h.projects.GetWithTheme(ctx, pool[0].ProjectID)
	if err != nil {
		return nil, nil, nil, err
	}
	return project, theme, pool, nil
}

// scoreBatch scores every pool item against the brand vector with a bounded
// worker pool. A failing item degrades to a zeroed sentinel entry instead of
// aborting the batch; results keep the pool's original order so the later
// stable sort breaks ties deterministically.
func (h *Handler) scoreBatch(ctx context.Context, pool []models.Content, brandVector []float64) []models.RankedContentEntry {
	ranked := make([]models.RankedContentEntry, len(pool))

	concurrency := h.config.MaxConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	for i, item := range pool {
		wg.Add(1)
		go func(i int, item models.Content) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			ranked[i] = h.scoreItem(ctx, item, brandVector)
		}(i, item)
	}
	wg.Wait()

	return ranked
}

func (h *Handler) scoreItem(ctx context.Context, item models.Content, brandVector []float64) (entry models.RankedContentEntry) {
	entry = models.RankedContentEntry{
		ContentID:   item.ID,
		MediaType:   item.MediaType,
		TextContent: item.TextContent,
	}

	// A panicking scorer costs only its own entry, never the batch.
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("item scoring panicked", map[string]interface{}{
				"contentId": item.ID,
				"panic":     r,
			})
			entry.BrandConsistencyScore = 0
			entry.QualityScore = 0
			entry.OverallScore = 0
			entry.Recommendation = unableToScore
		}
	}()

	scores, err := h.scorer.ScoreContent(ctx, item, brandVector)
	if err != nil {
		h.logger.Warn("item scoring failed", map[string]interface{}{
			"contentId": item.ID,
			"error":     err,
		})
		entry.Recommendation = unableToScore
		return entry
	}

	entry.BrandConsistencyScore = scores.BrandConsistency
	entry.QualityScore = scores.Quality
	entry.OverallScore = scores.Overall
	entry.Recommendation = recommendFor(scores.Overall)
	return entry
}

func recommendFor(overall int) string {
	switch {
	case overall >= 85:
		return "excellent brand fit, ready to publish"
	case overall >= scoring.PassThreshold:
		return "good brand fit, minor polish recommended"
	case overall >= 50:
		return "review against brand guidelines before publishing"
	default:
		return "rework recommended, weak brand alignment"
	}
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
