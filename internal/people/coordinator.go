package people

import (
	"context"
	"reflect"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hermes/internal/config"
)

const (
	// LookupTimeout bounds a single person or group fetch.
	LookupTimeout = 15 * time.Second
	// MaxConcurrency bounds concurrent fetches for one batch.
	MaxConcurrency = 16
)

var lookupKinds = []Kind{KindPerson, KindGroup}

// Coordinator turns a batch of identifiers into cache fetches: it drops
// repeats, skips identities that are already cached, and fetches the rest
// with bounded parallelism. The per-lookup timeout belongs to the cache.
type Coordinator struct {
	cache *Cache
	limit int
	log   *zap.Logger
}

// NewCoordinator wires a coordinator to cache. A zero MaxConcurrency falls
// back to MaxConcurrency.
func NewCoordinator(cache *Cache, cfg config.PeopleConfig, log *zap.Logger) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Coordinator{
		cache: cache,
		limit: cfg.MaxConcurrency,
		log:   log,
	}
	if c.limit <= 0 {
		c.limit = MaxConcurrency
	}
	return c
}

// Cache returns the cache the coordinator fills.
func (c *Coordinator) Cache() *Cache { return c.cache }

// MaybeFetch ensures a record for every identity in items and returns once
// every lookup it started or joined has settled, or once ctx ends. Failures
// never escape: a failed or timed-out lookup leaves a placeholder behind.
// Ending ctx stops new lookups from starting but never cancels one already
// started.
func (c *Coordinator) MaybeFetch(ctx context.Context, items ...Identifier) {
	emails := c.pending(items)
	if len(emails) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(c.limit)
	for _, email := range emails {
		for _, kind := range lookupKinds {
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				if err := c.cache.Ensure(ctx, kind, email); err != nil {
					c.log.Debug("people_lookup_cancelled",
						zap.String("kind", string(kind)),
						zap.String("email", email),
						zap.Error(err),
					)
				}
				return nil
			})
		}
	}
	_ = g.Wait()
}

// Resolve runs MaybeFetch and returns the best record for each distinct
// identity, in input order. Identities with nothing cached are left out.
func (c *Coordinator) Resolve(ctx context.Context, items ...Identifier) []Record {
	c.MaybeFetch(ctx, items...)

	seen := make(map[string]struct{}, len(items))
	out := make([]Record, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		email := it.Identity()
		if email == "" {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		if r, ok := c.cache.Best(email); ok {
			out = append(out, r)
		}
	}
	return out
}

// pending projects items to the emails that still need fetching, in first
// seen order.
func (c *Coordinator) pending(items []Identifier) []string {
	seenItems := make(map[Identifier]struct{}, len(items))
	queued := make(map[string]struct{}, len(items))
	var emails []string

	for _, it := range items {
		if it == nil {
			continue
		}
		if reflect.TypeOf(it).Comparable() {
			if _, ok := seenItems[it]; ok {
				continue
			}
			seenItems[it] = struct{}{}
		}

		email := it.Identity()
		if email == "" {
			continue
		}
		if _, ok := queued[email]; ok {
			continue
		}
		if c.cache.Known(email) {
			continue
		}
		queued[email] = struct{}{}
		emails = append(emails, email)
	}
	return emails
}
