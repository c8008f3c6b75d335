//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"hermes/internal/database/migration"
	"hermes/internal/model"
	"hermes/internal/repository"
)

var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// openTestDB starts one PostgreSQL container for the whole run, migrates
// it, and returns a connection closed with the test.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	once.Do(func() {
		sharedDSN, initErr = startContainer()
	})
	if initErr != nil {
		t.Fatalf("start test database: %v", initErr)
	}

	db, err := sql.Open("pgx", sharedDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, migration.EnsureMigrated(ctx, db, zap.NewNop(), "testcontainers"))
	_, err = db.ExecContext(ctx, `TRUNCATE people, groups, documents, projects`)
	require.NoError(t, err)
	return db
}

func startContainer() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "hermes",
				"POSTGRES_PASSWORD": "hermes",
				"POSTGRES_DB":       "hermes",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}
	return fmt.Sprintf("postgres://hermes:hermes@%s:%s/hermes?sslmode=disable", host, port.Port()), nil
}

func TestIntegration_Directory(t *testing.T) {
	ctx := context.Background()
	repo := NewDirectoryPostgres(openTestDB(t))

	require.NoError(t, repo.UpsertPerson(ctx, repository.PersonRow{Email: "ada@x.com", GivenName: "Ada", DisplayName: "Ada"}))
	require.NoError(t, repo.UpsertPerson(ctx, repository.PersonRow{Email: "ada@x.com", GivenName: "Ada", DisplayName: "Ada Lovelace"}))
	require.NoError(t, repo.UpsertGroup(ctx, model.Group{Email: "team-a@x.com", Name: "Team A"}))
	require.NoError(t, repo.UpsertGroup(ctx, model.Group{Email: "ops@x.com", Name: "Team Ops"}))

	p, err := repo.FindPerson(ctx, "ADA@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", p.DisplayName)

	_, err = repo.FindPerson(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	groups, err := repo.SearchGroups(ctx, "TEAM", 20)
	require.NoError(t, err)
	assert.Equal(t, []model.Group{{Email: "ops@x.com", Name: "Team Ops"}, {Email: "team-a@x.com", Name: "Team A"}}, groups)
}

func TestIntegration_Documents(t *testing.T) {
	ctx := context.Background()
	repo := NewDocumentPostgres(openTestDB(t))

	docs := []model.Document{
		{ObjectID: "d1", Title: "Caching RFC", Status: "In-Review", Owners: []string{"ada@x.com"}, ModifiedTime: 100},
		{ObjectID: "d2", Title: "Search PRD", Status: "WIP", Owners: []string{"grace@x.com"}, ModifiedTime: 300},
		{ObjectID: "d3", Title: "Review RFC", Status: "In-Review", Owners: []string{"ada@x.com", "alan@x.com"}, ModifiedTime: 200},
		{ObjectID: "dr1", Title: "Draft RFC", IsDraft: true, Owners: []string{"ada@x.com"}, ModifiedTime: 400},
	}
	for i := range docs {
		require.NoError(t, repo.Upsert(ctx, &docs[i]))
	}

	got, err := repo.FindByID(ctx, "d3", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"ada@x.com", "alan@x.com"}, got.Owners)

	_, err = repo.FindByID(ctx, "dr1", false)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	res, err := repo.Search(ctx, repository.DocumentQuery{
		Filters: []repository.Filter{{Key: "status", Value: "In-Review"}, {Key: "owners", Value: "ada@x.com"}},
		Page:    repository.PageQuery{Limit: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "d3", res.Items[0].ObjectID, "newest first")

	res, err = repo.Search(ctx, repository.DocumentQuery{Text: "rfc", Ascending: true, Page: repository.PageQuery{Limit: 1, Offset: 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "d3", res.Items[0].ObjectID)

	res, err = repo.Search(ctx, repository.DocumentQuery{Drafts: true, Page: repository.PageQuery{Limit: 10}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
}

func TestIntegration_Projects(t *testing.T) {
	ctx := context.Background()
	repo := NewProjectPostgres(openTestDB(t))

	require.NoError(t, repo.Upsert(ctx, &model.Project{ID: 1, Title: "Launch", Status: "active", Products: []string{"Hermes"}, ModifiedTime: 10}))
	require.NoError(t, repo.Upsert(ctx, &model.Project{ID: 2, Title: "Cleanup", Status: "completed", ModifiedTime: 20}))

	p, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hermes"}, p.Products)

	res, err := repo.Search(ctx, repository.ProjectQuery{
		Filters: []repository.Filter{{Key: "products", Value: "Hermes"}},
		Page:    repository.PageQuery{Limit: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	_, err = repo.FindByID(ctx, 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
