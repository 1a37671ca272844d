// internal/workers/content/validate-content/handler.go
package validatecontent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"brandscore-workers/internal/analysis"
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
	TaskType = "validate-content"
)

const inputSchema = `{
	"type": "object",
	"properties": {
		"contentId": {"type": "string"},
		"content":   {"type": "string"},
		"projectId": {"type": "string"},
		"mediaType": {"type": "string", "enum": ["text", "image"]}
	}
}`

// ContentSource resolves stored content items.
type ContentSource interface {
	GetByID(ctx context.Context, id string) (*models.Content, error)
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
	content, err := h.resolveContent(ctx, input)
	if err != nil {
		return nil, err
	}

	project, theme, err := h.projects.GetWithTheme(ctx, content.ProjectID)
	if err != nil {
		return nil, err
	}

	brandText := scoring.BrandDescription(*project, *theme)
	brandVector := h.scorer.EmbedBrand(ctx, brandText)

	scores, err := h.scorer.ScoreContent(ctx, *content, brandVector)
	if err != nil {
		return nil, err
	}

	result := buildVerdict(scores, analysis.AnalyzeTheme(*theme))

	h.logger.Info("content validated", map[string]interface{}{
		"contentId": content.ID,
		"projectId": content.ProjectID,
		"overall":   result.OverallScore,
		"passes":    result.PassesValidation,
	})

	return &Output{ValidationResult: result}, nil
}

// resolveContent loads the referenced content item, or wraps raw text in a
// transient one when the caller supplied text directly.
func (h *Handler) resolveContent(ctx context.Context, input *Input) (*models.Content, error) {
	if input.ContentID != "" {
		return h.contents.GetByID(ctx, input.ContentID)
	}

	if strings.TrimSpace(input.Content) == "" || input.ProjectID == "" {
		return nil, errors.NewInvalidArgumentError("either contentId or content with projectId is required")
	}

	mediaType := input.MediaType
	if mediaType == "" {
		mediaType = models.MediaTypeText
	}

	return &models.Content{
		ProjectID:   input.ProjectID,
		MediaType:   mediaType,
		TextContent: input.Content,
	}, nil
}

// buildVerdict derives strengths, issues, and recommendations from the
// score bands. Scores below 60 produce major issues, 60 to 79 minor ones.
func buildVerdict(scores scoring.Scores, themeAnalysis models.ThemeAnalysis) models.ValidationResult {
	result := models.ValidationResult{
		BrandConsistencyScore: scores.BrandConsistency,
		QualityScore:          scores.Quality,
		OverallScore:          scores.Overall,
		PassesValidation:      scores.Overall >= scoring.PassThreshold,
		Strengths:             []string{},
		Issues:                []models.ValidationIssue{},
		Recommendations:       []string{},
	}

	switch {
	case scores.BrandConsistency >= 80:
		result.Strengths = append(result.Strengths, "strong alignment with the brand profile")
	case scores.BrandConsistency < 60:
		result.Issues = append(result.Issues, models.ValidationIssue{
			Severity:    models.IssueSeverityMajor,
			Category:    "brand-consistency",
			Description: "content diverges significantly from the brand profile",
			Suggestion:  brandSuggestion(themeAnalysis),
		})
	default:
		result.Issues = append(result.Issues, models.ValidationIssue{
			Severity:    models.IssueSeverityMinor,
			Category:    "brand-consistency",
			Description: "content is only loosely aligned with the brand profile",
			Suggestion:  brandSuggestion(themeAnalysis),
		})
	}

	switch {
	case scores.Quality >= 80:
		result.Strengths = append(result.Strengths, "well-structured, professional copy")
	case scores.Quality < 60:
		result.Issues = append(result.Issues, models.ValidationIssue{
			Severity:    models.IssueSeverityMajor,
			Category:    "quality",
			Description: "copy has structural quality problems",
			Suggestion:  "expand the text and moderate capitalization and punctuation",
		})
	default:
		result.Issues = append(result.Issues, models.ValidationIssue{
			Severity:    models.IssueSeverityMinor,
			Category:    "quality",
			Description: "copy quality is acceptable but could be tightened",
			Suggestion:  "review length and wording for a more professional tone",
		})
	}

	for _, issue := range result.Issues {
		result.Recommendations = append(result.Recommendations, issue.Suggestion)
	}
	if len(result.Issues) == 0 {
		result.Recommendations = append(result.Recommendations, "content is ready to publish")
	}

	if result.PassesValidation {
		result.Summary = fmt.Sprintf("Content passes validation with an overall score of %d.", result.OverallScore)
	} else {
		result.Summary = fmt.Sprintf("Content fails validation with an overall score of %d.", result.OverallScore)
	}

	return result
}

func brandSuggestion(themeAnalysis models.ThemeAnalysis) string {
	if len(themeAnalysis.DominantStyles) > 0 {
		return "align wording with the theme's dominant styles: " +
			strings.Join(themeAnalysis.DominantStyles, ", ")
	}
	return "reference the project goals and theme tags more directly"
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
