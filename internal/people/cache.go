package people

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"hermes/internal/model"
)

// Kind is the record namespace. Person and group records share the email
// key shape but live side by side.
type Kind string

const (
	KindPerson Kind = "person"
	KindGroup  Kind = "group"
)

// Record is what the UI needs to render an identity. A placeholder carries
// only the key and marks an identity whose fetch failed.
type Record struct {
	Kind        Kind   `json:"kind"`
	Email       string `json:"email"`
	Name        string `json:"name,omitempty"`
	FirstName   string `json:"firstName,omitempty"`
	AvatarURL   string `json:"avatarURL,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// Fetcher is the directory backend. hermesapi.Client satisfies it.
type Fetcher interface {
	Person(ctx context.Context, email string) (*model.Person, error)
	Groups(ctx context.Context, query string) ([]model.Group, error)
}

type recordKey struct {
	kind  Kind
	email string
}

// Cache holds every person and group record fetched during a session.
// Records are never evicted; a placeholder stays until the session ends.
// At most one fetch per (kind, email) is in flight at any time.
type Cache struct {
	fetcher Fetcher
	log     *zap.Logger
	metrics *Metrics
	timeout time.Duration

	mu       sync.RWMutex
	records  map[recordKey]Record
	released bool

	ledger singleflight.Group
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithLookupTimeout bounds each fetch. Non-positive values keep
// LookupTimeout.
func WithLookupTimeout(d time.Duration) CacheOption {
	return func(c *Cache) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewCache creates an empty cache. log and m may be nil.
func NewCache(f Fetcher, log *zap.Logger, m *Metrics, opts ...CacheOption) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Cache{
		fetcher: f,
		log:     log,
		metrics: m,
		timeout: LookupTimeout,
		records: make(map[recordKey]Record),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns the cached record without touching the network.
func (c *Cache) Lookup(kind Kind, email string) (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.records[recordKey{kind, email}]
	return r, ok
}

// Known reports whether email is cached as either kind.
func (c *Cache) Known(email string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, person := c.records[recordKey{KindPerson, email}]
	_, group := c.records[recordKey{KindGroup, email}]
	return person || group
}

// Best returns the person record for email, or the group record if there
// is no real person record. A person placeholder is returned only when no
// group is known either.
func (c *Cache) Best(email string) (Record, bool) {
	p, ok := c.Lookup(KindPerson, email)
	if ok && !p.Placeholder {
		return p, true
	}
	if g, found := c.Lookup(KindGroup, email); found {
		return g, true
	}
	return p, ok
}

// Len is the number of cached records, placeholders included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Records returns a snapshot ordered by kind, then email.
func (c *Cache) Records() []Record {
	c.mu.RLock()
	out := make([]Record, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, r)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Email < out[j].Email
	})
	return out
}

// Ensure makes sure a record for (kind, email) is cached. A caller that
// finds a fetch already in flight waits for it instead of issuing another.
// Fetch failures, including the lookup timeout, are logged and turned into
// placeholders; they are never returned.
//
// The fetch is bounded by the lookup timeout alone. ctx only limits how long
// the caller waits: when it ends first, Ensure returns ctx.Err() and the
// fetch carries on for whoever asks next.
func (c *Cache) Ensure(ctx context.Context, kind Kind, email string) error {
	if _, ok := c.Lookup(kind, email); ok {
		c.metrics.observe(kind, resultHit)
		return nil
	}

	ch := c.ledger.DoChan(string(kind)+":"+email, func() (any, error) {
		// The previous flight for this key may have settled between the
		// lookup above and joining the ledger.
		if _, ok := c.Lookup(kind, email); ok {
			return nil, nil
		}
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		c.fetch(fctx, kind, email)
		return nil, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.metrics.observe(kind, resultShared)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Cache) fetch(ctx context.Context, kind Kind, email string) {
	switch kind {
	case KindPerson:
		p, err := c.fetcher.Person(ctx, email)
		if err != nil {
			c.fail(kind, email, err)
			return
		}
		c.store(Record{
			Kind:      KindPerson,
			Email:     email,
			Name:      p.DisplayName(),
			FirstName: p.GivenName(),
			AvatarURL: p.PhotoURL(),
		})
	case KindGroup:
		groups, err := c.fetcher.Groups(ctx, email)
		if err != nil {
			c.fail(kind, email, err)
			return
		}
		for _, g := range groups {
			if g.Email == "" {
				continue
			}
			c.store(Record{Kind: KindGroup, Email: g.Email, Name: g.Name})
		}
	}
	c.metrics.observe(kind, resultFetched)
}

func (c *Cache) store(r Record) {
	key := recordKey{r.Kind, r.Email}
	c.mu.Lock()
	_, existed := c.records[key]
	c.records[key] = r
	counted := !existed && !c.released
	c.mu.Unlock()
	if counted {
		c.metrics.addCached(1)
	}
}

// Release drops the cache's records from the cached-records gauge. It is
// called when the owning session ends; records stored by fetches that
// settle afterwards are not counted.
func (c *Cache) Release() {
	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		return
	}
	c.released = true
	n := len(c.records)
	c.mu.Unlock()
	c.metrics.addCached(-n)
}

// fail caches a placeholder so later lookups short-circuit. A 404 here often
// just means someone left the directory, hence warn rather than error.
func (c *Cache) fail(kind Kind, email string, err error) {
	c.log.Warn("people_fetch_failed",
		zap.String("kind", string(kind)),
		zap.String("email", email),
		zap.Error(err),
	)

	key := recordKey{kind, email}
	c.mu.Lock()
	_, existed := c.records[key]
	if !existed {
		c.records[key] = Record{Kind: kind, Email: email, Placeholder: true}
	}
	counted := !existed && !c.released
	c.mu.Unlock()
	if counted {
		c.metrics.addCached(1)
	}
	c.metrics.observe(kind, resultPlaceholder)
}
