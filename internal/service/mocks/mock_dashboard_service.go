package mocks

import (
	"context"

	"hermes/internal/latest"
	"hermes/internal/model"
	"hermes/internal/people"
	"hermes/internal/recentlyviewed"

	"github.com/stretchr/testify/mock"
)

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) RecentlyViewed(ctx context.Context, token string) ([]recentlyviewed.Item, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]recentlyviewed.Item), args.Error(1)
}

func (m *MockDashboardService) Latest(ctx context.Context, token string, tab latest.Tab) ([]model.Document, error) {
	args := m.Called(ctx, token, tab)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDashboardService) ResolvePeople(ctx context.Context, token string, emails []string, docs []model.Document) ([]people.Record, error) {
	args := m.Called(ctx, token, emails, docs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]people.Record), args.Error(1)
}

func (m *MockDashboardService) Person(ctx context.Context, token, email string) (people.Record, error) {
	args := m.Called(ctx, token, email)
	return args.Get(0).(people.Record), args.Error(1)
}
