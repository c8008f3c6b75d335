package service

import (
	"context"
	"errors"
	"fmt"

	"hermes/internal/latest"
	"hermes/internal/model"
	"hermes/internal/people"
	"hermes/internal/recentlyviewed"
	"hermes/internal/session"
)

// MaxResolveBatch caps how many identities one ResolvePeople call accepts.
const MaxResolveBatch = 200

var (
	ErrRecentlyViewedUnavailable = errors.New("recently viewed unavailable")
	ErrPersonNotFound            = errors.New("person not found")
	ErrTooManyIdentities         = errors.New("too many identities")
)

// DashboardService defines the dashboard use cases for one signed-in user,
// identified by their access token.
type DashboardService interface {
	// RecentlyViewed reloads and returns the user's recently viewed index,
	// newest first. Any batch failure is reported as
	// ErrRecentlyViewedUnavailable.
	RecentlyViewed(ctx context.Context, token string) ([]recentlyviewed.Item, error)

	// Latest returns the latest documents for a dashboard tab.
	Latest(ctx context.Context, token string, tab latest.Tab) ([]model.Document, error)

	// ResolvePeople resolves bare emails and document owners into records.
	ResolvePeople(ctx context.Context, token string, emails []string, docs []model.Document) ([]people.Record, error)

	// Person resolves a single identity.
	Person(ctx context.Context, token, email string) (people.Record, error)
}

type dashboardService struct {
	sessions *session.Manager
}

// NewDashboardService constructs a DashboardService backed by per-user
// sessions.
func NewDashboardService(sessions *session.Manager) DashboardService {
	return &dashboardService{sessions: sessions}
}

func (s *dashboardService) RecentlyViewed(ctx context.Context, token string) ([]recentlyviewed.Item, error) {
	agg := s.sessions.Get(token).RecentlyViewed
	if err := agg.FetchAll(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecentlyViewedUnavailable, err)
	}
	items := agg.Index()
	if items == nil {
		// A newer run took over and has not stored its list yet.
		items = []recentlyviewed.Item{}
	}
	return items, nil
}

func (s *dashboardService) Latest(ctx context.Context, token string, tab latest.Tab) ([]model.Document, error) {
	return s.sessions.Get(token).Latest.Docs(ctx, tab)
}

func (s *dashboardService) ResolvePeople(ctx context.Context, token string, emails []string, docs []model.Document) ([]people.Record, error) {
	if len(emails)+len(docs) > MaxResolveBatch {
		return nil, ErrTooManyIdentities
	}
	items := append(people.Emails(emails...), people.Documents(docs)...)
	return s.sessions.Get(token).People.Resolve(ctx, items...), nil
}

func (s *dashboardService) Person(ctx context.Context, token, email string) (people.Record, error) {
	records := s.sessions.Get(token).People.Resolve(ctx, people.Email(email))
	if len(records) == 0 {
		return people.Record{}, ErrPersonNotFound
	}
	return records[0], nil
}
