package mocks

import (
	"context"

	"hermes/internal/model"
	"hermes/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockWorkspaceService struct {
	mock.Mock
}

func (m *MockWorkspaceService) People(ctx context.Context, email string) ([]model.Person, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Person), args.Error(1)
}

func (m *MockWorkspaceService) Groups(ctx context.Context, query string) ([]model.Group, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Group), args.Error(1)
}

func (m *MockWorkspaceService) Document(ctx context.Context, user, id string, draft, record bool) (*model.Document, error) {
	args := m.Called(ctx, user, id, draft, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockWorkspaceService) Project(ctx context.Context, user string, id int, record bool) (*model.Project, error) {
	args := m.Called(ctx, user, id, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockWorkspaceService) RecentlyViewedDocs(ctx context.Context, user string) ([]model.RecentlyViewedDocRef, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RecentlyViewedDocRef), args.Error(1)
}

func (m *MockWorkspaceService) RecentlyViewedProjects(ctx context.Context, user string) ([]model.RecentlyViewedProjectRef, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.RecentlyViewedProjectRef), args.Error(1)
}

func (m *MockWorkspaceService) SearchDocuments(ctx context.Context, idx service.SearchIndex, req model.SearchRequest) (*model.SearchResponse, error) {
	args := m.Called(ctx, idx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SearchResponse), args.Error(1)
}

func (m *MockWorkspaceService) SearchProjects(ctx context.Context, idx service.SearchIndex, req model.SearchRequest) (*model.ProjectSearchResponse, error) {
	args := m.Called(ctx, idx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectSearchResponse), args.Error(1)
}

var _ service.WorkspaceService = (*MockWorkspaceService)(nil)
