// internal/store/project_test.go
package store

import (
	"context"
	"database/sql"
	"testing"

	"brandscore-workers/internal/common/errors"
	"brandscore-workers/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectStore_GetWithTheme(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "goals", "customer_type", "theme_id",
		"t_id", "t_name", "tags", "inspirations", "font",
	}).AddRow(
		"project-1", "Summer Launch", "Seasonal campaign", "Grow signups", "B2C", "theme-1",
		"theme-1", "Modern Tech", pq.Array([]string{"modern", "tech"}), pq.Array([]string{"Apple"}), "Inter",
	)

	mock.ExpectQuery("SELECT (.+) FROM projects p").
		WithArgs("project-1").
		WillReturnRows(rows)

	store := NewProjectStore(db, logger.NewNoOpLogger())
	project, theme, err := store.GetWithTheme(context.Background(), "project-1")

	require.NoError(t, err)
	assert.Equal(t, "Summer Launch", project.Name)
	assert.Equal(t, "theme-1", project.ThemeID)
	assert.Equal(t, "Modern Tech", theme.Name)
	assert.Equal(t, []string{"modern", "tech"}, theme.Tags)
	assert.Equal(t, []string{"Apple"}, theme.Inspirations)
}

func TestProjectStore_GetWithTheme_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// A project without a resolvable theme produces no row from the join,
	// which is the same not-found outcome as a missing project.
	mock.ExpectQuery("SELECT (.+) FROM projects p").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	store := NewProjectStore(db, logger.NewNoOpLogger())
	_, _, err = store.GetWithTheme(context.Background(), "missing")

	assert.True(t, errors.IsNotFound(err))
}
