// Package recentlyviewed builds the dashboard's "recently viewed" feed out of
// the user's recently viewed documents and projects.
package recentlyviewed

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hermes/internal/config"
	"hermes/internal/model"
	"hermes/internal/people"
)

const (
	// BulkTimeout bounds one FetchAll run.
	BulkTimeout = 30 * time.Second
	// IndexLimit is how many items Index exposes.
	IndexLimit = 10

	enrichConcurrency = 16
)

// Backend is the subset of the Hermes API the aggregator reads.
type Backend interface {
	RecentlyViewedDocs(ctx context.Context) ([]model.RecentlyViewedDocRef, error)
	RecentlyViewedProjects(ctx context.Context) ([]model.RecentlyViewedProjectRef, error)
	Document(ctx context.Context, id string) (*model.Document, error)
	Draft(ctx context.Context, id string) (*model.Document, error)
	Project(ctx context.Context, id int) (*model.Project, error)
}

// Prefetcher warms person records for document owners.
// *people.Coordinator satisfies it.
type Prefetcher interface {
	MaybeFetch(ctx context.Context, items ...people.Identifier)
}

type ItemKind string

const (
	KindDocument ItemKind = "document"
	KindProject  ItemKind = "project"
)

// Item is one entry of the feed: a document or a project, stamped with
// when the user last viewed it (Unix seconds).
type Item struct {
	Kind       ItemKind        `json:"kind"`
	Document   *model.Document `json:"document,omitempty"`
	Project    *model.Project  `json:"project,omitempty"`
	IsDraft    bool            `json:"isDraft,omitempty"`
	ViewedTime int64           `json:"viewedTime"`
}

// Identity is the document owner for documents and empty for projects.
func (i *Item) Identity() string {
	if i == nil || i.Kind != KindDocument {
		return ""
	}
	return i.Document.Identity()
}

// State is the lifecycle of the most recent run.
type State string

const (
	StateIdle      State = "idle"
	StateFetching  State = "fetching"
	StatePopulated State = "populated"
	StateErrored   State = "errored"
)

// Aggregator holds the latest recently-viewed list for one session.
type Aggregator struct {
	backend Backend
	people  Prefetcher
	timeout time.Duration
	limit   int
	log     *zap.Logger
	metrics *Metrics

	mu    sync.RWMutex
	all   []Item
	state State
	runs  uint64
}

// New creates an idle aggregator. people, log and m may be nil.
func New(backend Backend, prefetch Prefetcher, cfg config.DashboardConfig, log *zap.Logger, m *Metrics) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	a := &Aggregator{
		backend: backend,
		people:  prefetch,
		timeout: cfg.BulkTimeout,
		limit:   cfg.IndexLimit,
		log:     log,
		metrics: m,
		state:   StateIdle,
	}
	if a.timeout <= 0 {
		a.timeout = BulkTimeout
	}
	if a.limit <= 0 {
		a.limit = IndexLimit
	}
	return a
}

// FetchAll reloads the list from scratch. Documents that fail to load are
// dropped. A failure of either reference list, of any project, or of the
// run as a whole (including the bulk timeout) resets the list to nil and is
// returned. A run overtaken by a later FetchAll leaves the stored list to
// the later run.
func (a *Aggregator) FetchAll(ctx context.Context) error {
	a.mu.Lock()
	a.runs++
	run := a.runs
	a.state = StateFetching
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	items, err := a.collect(ctx)
	if err == nil && a.people != nil {
		ids := make([]people.Identifier, 0, len(items))
		for i := range items {
			ids = append(ids, &items[i])
		}
		a.people.MaybeFetch(ctx, ids...)
	}
	if err == nil {
		err = ctx.Err()
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if run != a.runs {
		a.metrics.observe(resultSuperseded)
		return err
	}
	if err != nil {
		a.all = nil
		a.state = StateErrored
		a.metrics.observe(resultErrored)
		a.log.Error("recently_viewed_failed", zap.Error(err))
		return err
	}
	a.all = items
	a.state = StatePopulated
	a.metrics.observe(resultPopulated)
	return nil
}

func (a *Aggregator) collect(ctx context.Context) ([]Item, error) {
	var (
		docRefs  []model.RecentlyViewedDocRef
		projRefs []model.RecentlyViewedProjectRef
	)
	lists, lctx := errgroup.WithContext(ctx)
	lists.Go(func() error {
		refs, err := a.backend.RecentlyViewedDocs(lctx)
		if err != nil {
			return fmt.Errorf("list recently viewed docs: %w", err)
		}
		docRefs = refs
		return nil
	})
	lists.Go(func() error {
		refs, err := a.backend.RecentlyViewedProjects(lctx)
		if err != nil {
			return fmt.Errorf("list recently viewed projects: %w", err)
		}
		projRefs = refs
		return nil
	})
	if err := lists.Wait(); err != nil {
		return nil, err
	}

	docs := make([]*Item, len(docRefs))
	projects := make([]*Item, len(projRefs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, ref := range docRefs {
		g.Go(func() error {
			fetch := a.backend.Document
			if ref.IsDraft {
				fetch = a.backend.Draft
			}
			doc, err := fetch(gctx, ref.ID)
			if err != nil {
				// Deleted or no longer shared; leave it out of the feed.
				a.log.Warn("recently_viewed_document_dropped",
					zap.String("id", ref.ID),
					zap.Bool("is_draft", ref.IsDraft),
					zap.Error(err),
				)
				return nil
			}
			docs[i] = &Item{Kind: KindDocument, Document: doc, IsDraft: ref.IsDraft, ViewedTime: ref.ViewedTime}
			return nil
		})
	}
	for i, ref := range projRefs {
		g.Go(func() error {
			p, err := a.backend.Project(gctx, ref.ID)
			if err != nil {
				return fmt.Errorf("fetch project %d: %w", ref.ID, err)
			}
			projects[i] = &Item{Kind: KindProject, Project: p, ViewedTime: ref.ViewedTime}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(docs)+len(projects))
	for _, it := range append(docs, projects...) {
		if it != nil {
			items = append(items, *it)
		}
	}
	return items, nil
}

// All returns the stored list: nil before the first successful run and
// after a failed one, otherwise non-nil.
func (a *Aggregator) All() []Item {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.all == nil {
		return nil
	}
	return append([]Item{}, a.all...)
}

// Index returns the most recently viewed items, newest first.
func (a *Aggregator) Index() []Item {
	all := a.All()
	if all == nil {
		return nil
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ViewedTime > all[j].ViewedTime
	})
	if len(all) > a.limit {
		all = all[:a.limit]
	}
	return all
}

func (a *Aggregator) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}
