// internal/store/content.go
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

// ContentStore reads generated content records. Content is created by the
// generation side of the system; this engine only reads it.
type ContentStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewContentStore(db *sql.DB, log logger.Logger) *ContentStore {
	return &ContentStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "content"}),
	}
}

const contentColumns = `id, project_id, media_type, text_content, created_at`

func (s *ContentStore) GetByID(ctx context.Context, id string) (*models.Content, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+contentColumns+`
		FROM content WHERE id = $1`, id)

	var c models.Content
	err := row.Scan(&c.ID, &c.ProjectID, &c.MediaType, &c.TextContent, &c.CreatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFoundError("content", id)
	}
	if err != nil {
		return nil, errors.NewInternalError("content.GetByID", err)
	}
	return &c, nil
}

func (s *ContentStore) ListByProject(ctx context.Context, projectID string) ([]models.Content, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+contentColumns+`
		FROM content WHERE project_id = $1
		ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, errors.NewInternalError("content.ListByProject", err)
	}
	defer rows.Close()

	return scanContentRows(rows)
}

// GetByIDs resolves an explicit ID list. Unknown IDs are silently absent
// from the result; deciding whether that is an error is the caller's call.
func (s *ContentStore) GetByIDs(ctx context.Context, ids []string) ([]models.Content, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+contentColumns+`
		FROM content WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, errors.NewInternalError("content.GetByIDs", err)
	}
	defer rows.Close()

	items, err := scanContentRows(rows)
	if err != nil {
		return nil, err
	}

	// Preserve the caller-supplied order.
	byID := make(map[string]models.Content, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	ordered := make([]models.Content, 0, len(items))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			ordered = append(ordered, item)
		}
	}
	return ordered, nil
}

func scanContentRows(rows *sql.Rows) ([]models.Content, error) {
	var items []models.Content
	for rows.Next() {
		var c models.Content
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.MediaType, &c.TextContent, &c.CreatedAt); err != nil {
			return nil, errors.NewInternalError("content.scan", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("content.rows", err)
	}
	return items, nil
}
