// internal/workers/content/retrieve-brand-context/handler_test.go
package retrievebrandcontext

import (
	"context"
	"fmt"
	"testing"

	"brandscore-workers/internal/common/config"
	"brandscore-workers/internal/common/errors"
	"brandscore-workers/internal/common/logger"
	"brandscore-workers/internal/embedding"
	"brandscore-workers/internal/models"
	"brandscore-workers/internal/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContents struct {
	byProject map[string][]models.Content
}

func (f *fakeContents) ListByProject(_ context.Context, projectID string) ([]models.Content, error) {
	return f.byProject[projectID], nil
}

type fakeProjects struct {
	project *models.Project
	theme   *models.Theme
}

func (f *fakeProjects) GetWithTheme(_ context.Context, projectID string) (*models.Project, *models.Theme, error) {
	if f.project == nil || f.project.ID != projectID {
		return nil, nil, errors.NewNotFoundError("project", projectID)
	}
	return f.project, f.theme, nil
}

func newTestHandler(contents ContentSource, projects ProjectSource) *Handler {
	cfg := config.EmbeddingConfig{Model: "text-embedding-3-small", Dimension: 64, RequestTimeout: 1000}
	provider := embedding.NewProviderWithClient(nil, cfg, logger.NewNoOpLogger())
	retriever := retrieval.NewRetriever(provider, nil, logger.NewNoOpLogger())
	return NewHandler(LoadConfig(), contents, projects, provider, retriever, logger.NewNoOpLogger())
}

func testPool(n int) []models.Content {
	pool := make([]models.Content, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, models.Content{
			ID:          fmt.Sprintf("content-%d", i),
			ProjectID:   "project-1",
			MediaType:   models.MediaTypeText,
			TextContent: fmt.Sprintf("Prior campaign copy number %d.", i),
		})
	}
	return pool
}

func TestExecute_ReturnsTopK(t *testing.T) {
	project := &models.Project{ID: "project-1", Name: "Summer Launch", ThemeID: "theme-1"}
	theme := &models.Theme{ID: "theme-1", Name: "Modern Tech"}
	handler := newTestHandler(
		&fakeContents{byProject: map[string][]models.Content{"project-1": testPool(10)}},
		&fakeProjects{project: project, theme: theme},
	)

	output, err := handler.Execute(context.Background(), &Input{
		ProjectID: "project-1",
		QueryText: "Prior campaign copy number 3.",
		TopK:      2,
	})

	require.NoError(t, err)
	require.Len(t, output.References, 2)
	assert.Len(t, output.Descriptions, 2)
	assert.Equal(t, "content-3", output.References[0].ContentID,
		"exact text match must rank first")
	assert.InDelta(t, 1.0, output.References[0].Similarity, 1e-9)
}

func TestExecute_DefaultTopK(t *testing.T) {
	project := &models.Project{ID: "project-1", ThemeID: "theme-1"}
	theme := &models.Theme{ID: "theme-1", Name: "Modern Tech"}
	handler := newTestHandler(
		&fakeContents{byProject: map[string][]models.Content{"project-1": testPool(10)}},
		&fakeProjects{project: project, theme: theme},
	)

	output, err := handler.Execute(context.Background(), &Input{
		ProjectID: "project-1",
		QueryText: "fresh idea",
	})

	require.NoError(t, err)
	assert.Len(t, output.References, LoadConfig().DefaultTopK)
}

func TestExecute_EmptyPool(t *testing.T) {
	project := &models.Project{ID: "project-1", ThemeID: "theme-1"}
	theme := &models.Theme{ID: "theme-1", Name: "Modern Tech"}
	handler := newTestHandler(
		&fakeContents{},
		&fakeProjects{project: project, theme: theme},
	)

	output, err := handler.Execute(context.Background(), &Input{
		ProjectID: "project-1",
		QueryText: "anything",
	})

	require.NoError(t, err)
	assert.Zero(t, output.AvgSimilarity)
	assert.Empty(t, output.References)
}

func TestExecute_InvalidInput(t *testing.T) {
	handler := newTestHandler(&fakeContents{}, &fakeProjects{})

	tests := []struct {
		name  string
		input Input
	}{
		{"missing project", Input{QueryText: "q"}},
		{"missing query", Input{ProjectID: "project-1"}},
		{"blank query", Input{ProjectID: "project-1", QueryText: "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Execute(context.Background(), &tt.input)
			assert.True(t, errors.IsInvalidArgument(err), "expected InvalidArgument, got %v", err)
		})
	}
}

func TestExecute_MissingProject(t *testing.T) {
	handler := newTestHandler(&fakeContents{}, &fakeProjects{})

	_, err := handler.Execute(context.Background(), &Input{
		ProjectID: "missing",
		QueryText: "q",
	})

	assert.True(t, errors.IsNotFound(err))
}
