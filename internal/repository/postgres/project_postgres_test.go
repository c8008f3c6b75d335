package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/model"
	"hermes/internal/repository"
)

var projectRowColumns = []string{
	"id", "title", "status", "description", "creator", "jira_issue_id", "products", "created_time", "modified_time",
}

func TestProjectPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewProjectPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM projects WHERE id = \\$1").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(projectRowColumns).
			AddRow(7, "Launch", "active", "", "ada@x.com", "", []byte(`["Vault"]`), int64(1), int64(2)))
	mock.ExpectQuery("SELECT (.+) FROM projects WHERE id = \\$1").
		WithArgs(8).
		WillReturnRows(sqlmock.NewRows(projectRowColumns))

	p, err := repo.FindByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Launch", p.Title)
	assert.Equal(t, []string{"Vault"}, p.Products)

	_, err = repo.FindByID(ctx, 8)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectPostgres_Search(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM projects WHERE status = \\$1").
		WithArgs("active").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM projects WHERE status = \\$1 ORDER BY modified_time DESC, id DESC LIMIT \\$2 OFFSET \\$3").
		WithArgs("active", 20, 0).
		WillReturnRows(sqlmock.NewRows(projectRowColumns).
			AddRow(7, "Launch", "active", "", "", "", nil, int64(1), int64(2)))

	res, err := NewProjectPostgres(db).Search(context.Background(), repository.ProjectQuery{
		Filters: []repository.Filter{{Key: "status", Value: "active"}},
		Page:    repository.PageQuery{Limit: 20},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, []model.Project{{ID: 7, Title: "Launch", Status: "active", CreatedTime: 1, ModifiedTime: 2}}, res.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectPostgres_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO projects (.+) ON CONFLICT \\(id\\) DO UPDATE").
		WithArgs(7, "Launch", "active", "", "ada@x.com", "", `["Vault"]`, int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewProjectPostgres(db).Upsert(context.Background(), &model.Project{
		ID: 7, Title: "Launch", Status: "active", Creator: "ada@x.com",
		Products: []string{"Vault"}, CreatedTime: 1, ModifiedTime: 2,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
