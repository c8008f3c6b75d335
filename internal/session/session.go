// Package session keeps one set of dashboard state per signed-in user.
// A session's people cache lives as long as the session does.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"go.uber.org/zap"

	"hermes/internal/config"
	"hermes/internal/hermesapi"
	"hermes/internal/latest"
	"hermes/internal/people"
	"hermes/internal/recentlyviewed"
)

// IdleTTL is how long an unused session is kept.
const IdleTTL = 12 * time.Hour

// Session bundles everything bound to one user's token.
type Session struct {
	ID             string
	Client         *hermesapi.Client
	People         *people.Coordinator
	RecentlyViewed *recentlyviewed.Aggregator
	Latest         *latest.Service

	lastSeen time.Time
}

// Config selects the tuning every new session is built with.
type Config struct {
	People    config.PeopleConfig
	Dashboard config.DashboardConfig
	DocsIndex string
}

// Metrics are shared by every session. Either field may be nil.
type Metrics struct {
	People         *people.Metrics
	RecentlyViewed *recentlyviewed.Metrics
}

type Manager struct {
	client  *hermesapi.Client
	cfg     Config
	metrics Metrics
	log     *zap.Logger
	ttl     time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(client *hermesapi.Client, cfg Config, metrics Metrics, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	ttl := cfg.Dashboard.SessionIdleTTL
	if ttl <= 0 {
		ttl = IdleTTL
	}
	return &Manager{
		client:   client,
		cfg:      cfg,
		metrics:  metrics,
		log:      log,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for token, creating it on first use. Sessions
// idle for longer than the TTL are dropped first.
func (m *Manager) Get(token string) *Session {
	id := sessionID(token)
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep(now)
	s, ok := m.sessions[id]
	if !ok {
		s = m.build(id, token)
		m.sessions[id] = s
		m.log.Info("session_started", zap.String("session", id[:12]))
	}
	s.lastSeen = now
	return s
}

// Len is the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) sweep(now time.Time) {
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) <= m.ttl {
			continue
		}
		s.People.Cache().Release()
		delete(m.sessions, id)
		m.log.Info("session_expired", zap.String("session", id[:12]))
	}
}

func (m *Manager) build(id, token string) *Session {
	client := m.client.WithToken(token)
	log := m.log.With(zap.String("session", id[:12]))

	cache := people.NewCache(client, log, m.metrics.People, people.WithLookupTimeout(m.cfg.People.LookupTimeout))
	coord := people.NewCoordinator(cache, m.cfg.People, log)
	return &Session{
		ID:             id,
		Client:         client,
		People:         coord,
		RecentlyViewed: recentlyviewed.New(client, coord, m.cfg.Dashboard, log, m.metrics.RecentlyViewed),
		Latest:         latest.New(client, coord, m.cfg.DocsIndex, m.cfg.Dashboard.BulkTimeout, log),
	}
}

// sessionID keeps raw tokens out of memory maps and logs.
func sessionID(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
