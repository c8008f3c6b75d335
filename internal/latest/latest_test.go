package latest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hermes/internal/model"
	"hermes/internal/people"
)

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, index string, req model.SearchRequest) (*model.SearchResponse, error) {
	args := m.Called(ctx, index, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SearchResponse), args.Error(1)
}

type ownerRecorder struct {
	owners []string
}

func (r *ownerRecorder) MaybeFetch(_ context.Context, items ...people.Identifier) {
	for _, it := range items {
		r.owners = append(r.owners, it.Identity())
	}
}

func TestParseTab(t *testing.T) {
	tests := []struct {
		in      string
		want    Tab
		filters []string
		wantErr bool
	}{
		{in: "", want: TabNew},
		{in: "new", want: TabNew},
		{in: "in-review", want: TabInReview, filters: []string{"status:In-Review"}},
		{in: "reviewed", want: TabReviewed, filters: []string{"status:reviewed"}},
		{in: "approved", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTab(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTab)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.filters, got.FacetFilters())
		})
	}
}

func TestService_Docs(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	s := new(mockSearcher)
	s.On("Search", mock.Anything, "docs_modifiedTime_desc", model.SearchRequest{
		FacetFilters: []string{"status:In-Review"},
		HitsPerPage:  4,
	}).Return(&model.SearchResponse{Hits: []model.Document{
		{ObjectID: "d1", Owners: []string{"a@x.com"}, ModifiedTime: now.Add(-72 * time.Hour).Unix()},
		{ObjectID: "d2", Owners: []string{"b@x.com"}, ModifiedTime: now.Add(-90 * time.Minute).Unix()},
		{ObjectID: "d3"},
	}}, nil)

	rec := &ownerRecorder{}
	svc := New(s, rec, "docs", 0, nil)
	svc.now = func() time.Time { return now }

	docs, err := svc.Docs(context.Background(), TabInReview)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "Modified 3 days ago", docs[0].ModifiedAgo)
	assert.Equal(t, "Modified 1 hour ago", docs[1].ModifiedAgo)
	assert.Empty(t, docs[2].ModifiedAgo)
	assert.Equal(t, []string{"a@x.com", "b@x.com", ""}, rec.owners)
	s.AssertExpectations(t)
}

func TestService_Docs_InvalidTab(t *testing.T) {
	s := new(mockSearcher)
	svc := New(s, nil, "docs", 0, nil)

	_, err := svc.Docs(context.Background(), Tab("bogus"))
	assert.ErrorIs(t, err, ErrInvalidTab)
	s.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Docs_TimeoutIsEmpty(t *testing.T) {
	s := new(mockSearcher)
	s.On("Search", mock.Anything, "docs_modifiedTime_desc", mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded)

	svc := New(s, nil, "docs", 10*time.Millisecond, nil)
	docs, err := svc.Docs(context.Background(), TabNew)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestService_Docs_SearchError(t *testing.T) {
	s := new(mockSearcher)
	s.On("Search", mock.Anything, "docs_modifiedTime_desc", mock.Anything).
		Return(nil, errors.New("Bad response - 500: index down"))

	svc := New(s, nil, "docs", 0, nil)
	docs, err := svc.Docs(context.Background(), TabReviewed)
	assert.Nil(t, docs)
	assert.EqualError(t, err, "search docs_modifiedTime_desc: Bad response - 500: index down")
}

func TestService_Docs_NoHits(t *testing.T) {
	s := new(mockSearcher)
	s.On("Search", mock.Anything, "docs_modifiedTime_desc", mock.Anything).
		Return(&model.SearchResponse{}, nil)

	svc := New(s, nil, "docs", 0, nil)
	docs, err := svc.Docs(context.Background(), TabNew)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}
