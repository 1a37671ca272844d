// internal/workers/content/retrieve-brand-context/handler.go
package retrievebrandcontext

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"brandscore-workers/internal/common/errors"
	"brandscore-workers/internal/common/logger"
	"brandscore-workers/internal/common/metrics"
	"brandscore-workers/internal/models"
	"brandscore-workers/internal/retrieval"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "retrieve-brand-context"
)

// ContentSource supplies the retrieval pool.
type ContentSource interface {
	ListByProject(ctx context.Context, projectID string) ([]models.Content, error)
}

// ProjectSource resolves a project together with its linked theme.
type ProjectSource interface {
	GetWithTheme(ctx context.Context, projectID string) (*models.Project, *models.Theme, error)
}

// QueryEmbedder turns the query text into a vector.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) []float64
}

// ContextRetriever ranks a pool by similarity. Satisfied by *retrieval.Retriever.
type ContextRetriever interface {
	Retrieve(ctx context.Context, queryVector []float64, pool []models.Content, k int) retrieval.Result
}

type Handler struct {
	config       *Config
	contents     ContentSource
	projects     ProjectSource
	embedder     QueryEmbedder
	retriever    ContextRetriever
	errorHandler *errors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, contents ContentSource, projects ProjectSource, embedder QueryEmbedder, retriever ContextRetriever, log logger.Logger) *Handler {
	return &Handler{
		config:       config,
		contents:     contents,
		projects:     projects,
		embedder:     embedder,
		retriever:    retriever,
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
	if input.ProjectID == "" {
		return nil, errors.NewInvalidArgumentError("projectId is required")
	}
	if strings.TrimSpace(input.QueryText) == "" {
		return nil, errors.NewInvalidArgumentError("queryText is required")
	}

	if _, _, err := h.projects.GetWithTheme(ctx, input.ProjectID); err != nil {
		return nil, err
	}

	pool, err := h.contents.ListByProject(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}

	topK := input.TopK
	if topK <= 0 {
		topK = h.config.DefaultTopK
	}

	queryVector := h.embedder.EmbedQuery(ctx, input.QueryText)
	result := h.retriever.Retrieve(ctx, queryVector, pool, topK)

	references := make([]Reference, 0, len(result.Top))
	for _, item := range result.Top {
		references = append(references, Reference{
			ContentID:  item.Content.ID,
			MediaType:  item.Content.MediaType,
			Similarity: item.Similarity,
		})
	}

	h.logger.Info("brand context retrieved", map[string]interface{}{
		"projectId":     input.ProjectID,
		"poolSize":      len(pool),
		"returned":      len(references),
		"avgSimilarity": result.AvgSimilarity,
	})

	return &Output{
		AvgSimilarity: result.AvgSimilarity,
		References:    references,
		Descriptions:  result.Descriptions,
	}, nil
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
