// Package latest serves the dashboard's "latest updates" tabs.
package latest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"hermes/internal/model"
	"hermes/internal/people"
)

const (
	// Timeout bounds one search. A search that runs out of time yields an
	// empty tab rather than an error.
	Timeout = 30 * time.Second

	hitsPerPage = 4
	indexSuffix = "_modifiedTime_desc"
)

var ErrInvalidTab = errors.New("invalid tab")

type Tab string

const (
	TabNew      Tab = "new"
	TabInReview Tab = "in-review"
	TabReviewed Tab = "reviewed"
)

// ParseTab accepts the tab names the dashboard links to. An empty name
// selects TabNew.
func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case "", TabNew:
		return TabNew, nil
	case TabInReview, TabReviewed:
		return Tab(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTab, s)
}

// FacetFilters translates the tab into search filters.
func (t Tab) FacetFilters() []string {
	switch t {
	case TabInReview:
		return []string{"status:In-Review"}
	case TabReviewed:
		return []string{"status:reviewed"}
	}
	return nil
}

type Searcher interface {
	Search(ctx context.Context, index string, req model.SearchRequest) (*model.SearchResponse, error)
}

type Prefetcher interface {
	MaybeFetch(ctx context.Context, items ...people.Identifier)
}

type Service struct {
	search  Searcher
	people  Prefetcher
	index   string
	timeout time.Duration
	log     *zap.Logger
	now     func() time.Time
}

// New builds the service over docsIndex, the base name of the documents
// search index. prefetch and log may be nil.
func New(s Searcher, prefetch Prefetcher, docsIndex string, timeout time.Duration, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = Timeout
	}
	return &Service{
		search:  s,
		people:  prefetch,
		index:   docsIndex + indexSuffix,
		timeout: timeout,
		log:     log,
		now:     time.Now,
	}
}

// Docs returns the most recently modified documents for tab, each with
// ModifiedAgo filled in, after warming their owners' person records.
func (s *Service) Docs(ctx context.Context, tab Tab) ([]model.Document, error) {
	if _, err := ParseTab(string(tab)); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.search.Search(ctx, s.index, model.SearchRequest{
		FacetFilters: tab.FacetFilters(),
		HitsPerPage:  hitsPerPage,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.log.Warn("latest_docs_timeout", zap.String("tab", string(tab)))
			return []model.Document{}, nil
		}
		return nil, fmt.Errorf("search %s: %w", s.index, err)
	}

	docs := res.Hits
	if docs == nil {
		docs = []model.Document{}
	}
	now := s.now()
	for i := range docs {
		if docs[i].ModifiedTime == 0 {
			continue
		}
		docs[i].ModifiedAgo = "Modified " + humanize.RelTime(time.Unix(docs[i].ModifiedTime, 0), now, "ago", "from now")
	}

	if s.people != nil {
		s.people.MaybeFetch(ctx, people.Documents(docs)...)
	}
	return docs, nil
}
