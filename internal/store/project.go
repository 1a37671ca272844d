// internal/store/project.go
package store

import (
	"context"
	"database/sql"
	stderrors "errors"

	"brandscore-workers/internal/common/errors"
	"brandscore-workers/internal/common/logger"
	"brandscore-workers/internal/models"

	"github.com/lib/pq"
)

// ProjectStore resolves a project together with its linked theme. A project
// whose theme cannot be resolved is treated as not found, so callers always
// get both halves or neither.
type ProjectStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewProjectStore(db *sql.DB, log logger.Logger) *ProjectStore {
	return &ProjectStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "project"}),
	}
}

func (s *ProjectStore) GetWithTheme(ctx context.Context, projectID string) (*models.Project, *models.Theme, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, p.description, p.goals, p.customer_type, p.theme_id,
		       t.id, t.name, t.tags, t.inspirations, COALESCE(t.font, '')
		FROM projects p
		JOIN themes t ON t.id = p.theme_id
		WHERE p.id = $1`, projectID)

	var project models.Project
	var theme models.Theme
	err := row.Scan(
		&project.ID, &project.Name, &project.Description, &project.Goals,
		&project.CustomerType, &project.ThemeID,
		&theme.ID, &theme.Name, pq.Array(&theme.Tags), pq.Array(&theme.Inspirations),
		&theme.Font,
	)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil, errors.NewNotFoundError("project", projectID)
	}
	if err != nil {
		return nil, nil, errors.NewInternalError("project.GetWithTheme", err)
	}
	return &project, &theme, nil
}
