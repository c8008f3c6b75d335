package seed

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"hermes/internal/logging"
	"hermes/internal/model"
	"hermes/internal/repository"
	"hermes/internal/repository/mocks"
	"hermes/internal/storage"
	"hermes/internal/viewindex"
)

const sample = `
people:
  - email: ada@x.com
    givenName: Ada
    displayName: Ada Lovelace
groups:
  - email: team@x.com
    name: Team
documents:
  - id: d1
    title: RFC
    status: In-Review
    owners: [ada@x.com]
    created: {at: 2024-01-01T00:00:00Z}
    modified: {ago: 2h}
projects:
  - id: 7
    title: Launch
    status: active
    modified: {ago: 24h}
views:
  ada@x.com:
    docs:
      - {id: d1, viewed: {ago: 3h}}
      - {id: d2, draft: true, viewed: {ago: 1h}}
    projects:
      - {id: 7, viewed: {ago: 5m}}
`

func TestLoad(t *testing.T) {
	f, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	require.Len(t, f.People, 1)
	assert.Equal(t, "Ada Lovelace", f.People[0].DisplayName)
	require.Len(t, f.Documents, 1)
	assert.Equal(t, 2*time.Hour, f.Documents[0].Modified.Ago)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), f.Documents[0].Created.At)
	assert.Len(t, f.Views["ada@x.com"].Docs, 2)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"unknown key", "peoples: []", "decode fixtures"},
		{"person without email", "people: [{givenName: Ada}]", "people[0]: email is required"},
		{"group without email", "groups: [{name: Team}]", "groups[0]: email is required"},
		{"document without id", "documents: [{title: RFC}]", "documents[0]: id is required"},
		{"project without id", "projects: [{title: Launch}]", "projects[0]: id must be positive"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.in))
			assert.ErrorContains(t, err, tc.want)
		})
	}
}

func TestLoad_Empty(t *testing.T) {
	f, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, f.People)
}

func TestLoadFile_RepositoryFixtures(t *testing.T) {
	f, err := LoadFile(filepath.Join("..", "..", "fixtures", "mockapi.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, f.People)
	assert.NotEmpty(t, f.Documents)
	assert.Contains(t, f.Views, "test@example.com")

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSeeder_Apply(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	f, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	dir := new(mocks.MockDirectoryRepository)
	docs := new(mocks.MockDocumentRepository)
	projects := new(mocks.MockProjectRepository)
	views := viewindex.New(storage.NewMemory())

	dir.On("UpsertPerson", ctx, repository.PersonRow{Email: "ada@x.com", GivenName: "Ada", DisplayName: "Ada Lovelace"}).Return(nil)
	dir.On("UpsertGroup", ctx, model.Group{Email: "team@x.com", Name: "Team"}).Return(nil)
	docs.On("Upsert", ctx, mock.MatchedBy(func(d *model.Document) bool {
		return d.ObjectID == "d1" &&
			d.CreatedTime == time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix() &&
			d.ModifiedTime == now.Add(-2*time.Hour).Unix()
	})).Return(nil)
	projects.On("Upsert", ctx, mock.MatchedBy(func(p *model.Project) bool {
		return p.ID == 7 && p.ModifiedTime == now.Add(-24*time.Hour).Unix()
	})).Return(nil)

	var buf bytes.Buffer
	s := &Seeder{
		Directory: dir,
		Documents: docs,
		Projects:  projects,
		Views:     views,
		Log:       logging.NewWithWriter(&buf, zapcore.InfoLevel, time.UTC),
		Now:       func() time.Time { return now },
	}
	require.NoError(t, s.Apply(ctx, f))

	dir.AssertExpectations(t)
	docs.AssertExpectations(t)
	projects.AssertExpectations(t)
	assert.Contains(t, buf.String(), `"msg":"fixtures_seeded"`)

	idx, err := views.Load(ctx, "ada@x.com")
	require.NoError(t, err)
	require.Len(t, idx.Docs, 2)
	assert.Equal(t, "d2", idx.Docs[0].ID, "newest view first")
	assert.True(t, idx.Docs[0].IsDraft)
	assert.Equal(t, now.Add(-3*time.Hour).Unix(), idx.Docs[1].ViewedTime)
	assert.Equal(t, []model.RecentlyViewedProjectRef{{ID: 7, ViewedTime: now.Add(-5 * time.Minute).Unix()}}, idx.Projects)
}

func TestSeeder_Apply_StopsOnError(t *testing.T) {
	ctx := context.Background()
	f := &Fixtures{
		People:    []repository.PersonRow{{Email: "ada@x.com"}},
		Documents: []Document{{ID: "d1"}},
	}
	dir := new(mocks.MockDirectoryRepository)
	docs := new(mocks.MockDocumentRepository)
	dir.On("UpsertPerson", ctx, mock.Anything).Return(errors.New("db down"))

	s := &Seeder{Directory: dir, Documents: docs}
	err := s.Apply(ctx, f)
	assert.ErrorContains(t, err, "seed person ada@x.com: db down")
	docs.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
