package mocks

import (
	"context"

	"hermes/internal/model"
	"hermes/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockDirectoryRepository struct {
	mock.Mock
}

func (m *MockDirectoryRepository) FindPerson(ctx context.Context, email string) (*repository.PersonRow, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PersonRow), args.Error(1)
}

func (m *MockDirectoryRepository) SearchGroups(ctx context.Context, query string, limit int) ([]model.Group, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Group), args.Error(1)
}

func (m *MockDirectoryRepository) UpsertPerson(ctx context.Context, p repository.PersonRow) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockDirectoryRepository) UpsertGroup(ctx context.Context, g model.Group) error {
	return m.Called(ctx, g).Error(0)
}

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id string, draft bool) (*model.Document, error) {
	args := m.Called(ctx, id, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) Search(ctx context.Context, q repository.DocumentQuery) (*repository.PageResult[model.Document], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Document]), args.Error(1)
}

func (m *MockDocumentRepository) Upsert(ctx context.Context, doc *model.Document) error {
	return m.Called(ctx, doc).Error(0)
}

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id int) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepository) Search(ctx context.Context, q repository.ProjectQuery) (*repository.PageResult[model.Project], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Project]), args.Error(1)
}

func (m *MockProjectRepository) Upsert(ctx context.Context, p *model.Project) error {
	return m.Called(ctx, p).Error(0)
}

var (
	_ repository.DirectoryRepository = (*MockDirectoryRepository)(nil)
	_ repository.DocumentRepository  = (*MockDocumentRepository)(nil)
	_ repository.ProjectRepository   = (*MockProjectRepository)(nil)
)
