// internal/workers/content/analyze-theme/handler_test.go
package analyzetheme

import (
	"context"
	"testing"

	"brandscore-workers/internal/common/errors"
	"brandscore-workers/internal/common/logger"
	"brandscore-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *Handler {
	return NewHandler(LoadConfig(), logger.NewNoOpLogger())
}

func TestExecute_ModernTechTheme(t *testing.T) {
	handler := newTestHandler()

	output, err := handler.Execute(context.Background(), &Input{
		Theme: models.Theme{
			Name:         "Modern Tech",
			Tags:         []string{"modern", "tech", "clean"},
			Inspirations: []string{"Apple"},
		},
	})

	require.NoError(t, err)
	assert.Contains(t, output.ThemeAnalysis.DominantStyles, "modern")
	assert.GreaterOrEqual(t, output.ThemeAnalysis.StyleScore, 20)
	assert.GreaterOrEqual(t, output.ThemeAnalysis.ComplexityScore, 50)
	assert.LessOrEqual(t, output.ThemeAnalysis.ComplexityScore, 100)
}

func TestExecute_EmptyNameIsInvalid(t *testing.T) {
	handler := newTestHandler()

	tests := []string{"", "   "}
	for _, name := range tests {
		_, err := handler.Execute(context.Background(), &Input{
			Theme: models.Theme{Name: name},
		})
		assert.True(t, errors.IsInvalidArgument(err))
	}
}

func TestExecute_SparseThemeStaysInRange(t *testing.T) {
	handler := newTestHandler()

	output, err := handler.Execute(context.Background(), &Input{
		Theme: models.Theme{Name: "X"},
	})

	require.NoError(t, err)
	analysisOut := output.ThemeAnalysis
	for name, score := range map[string]int{
		"styleScore":      analysisOut.StyleScore,
		"complexityScore": analysisOut.ComplexityScore,
		"brandStrength":   analysisOut.BrandStrength,
	} {
		assert.GreaterOrEqual(t, score, 0, name)
		assert.LessOrEqual(t, score, 100, name)
	}
	assert.NotEmpty(t, analysisOut.VisualMood)
	assert.LessOrEqual(t, len(analysisOut.DominantStyles), 3)
}
