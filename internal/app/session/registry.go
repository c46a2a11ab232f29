package session

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"clinic-billing/internal/domain/billing"
)

const (
	DefaultIdleTTL     = 30 * time.Minute
	DefaultMaxSessions = 10000
)

// ControllerFactory builds the billing controller owned by s.
type ControllerFactory func(s *Session) *billing.Controller

// Gauge tracks the number of live sessions.
type Gauge interface {
	Inc()
	Dec()
}

// Entry pairs a session with its controller.
type Entry struct {
	Session    *Session
	Controller *billing.Controller
}

// Registry maps session IDs to entries. Entries idle longer than the TTL, or
// pushed out by the size bound, have their plan state cleared.
type Registry struct {
	mu      sync.Mutex
	lru     *expirable.LRU[string, *Entry]
	factory ControllerFactory
	gauge   Gauge
	logger  *zap.Logger
	now     func() time.Time
}

type RegistryOption func(*Registry)

func WithGauge(g Gauge) RegistryOption {
	return func(r *Registry) { r.gauge = g }
}

func WithLogger(l *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

func NewRegistry(size int, idle time.Duration, factory ControllerFactory, opts ...RegistryOption) *Registry {
	if size <= 0 {
		size = DefaultMaxSessions
	}
	if idle <= 0 {
		idle = DefaultIdleTTL
	}
	r := &Registry{
		factory: factory,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.lru = expirable.NewLRU[string, *Entry](size, r.evicted, idle)
	return r
}

// Resolve returns the entry for c.ID, creating it on first sight. The
// session is refreshed with c, and a changed tenant claim switches the
// controller's tenant before Resolve returns.
func (r *Registry) Resolve(c Claims) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.lru.Get(c.ID)
	if !ok {
		// An expired entry may still be held until the sweeper runs.
		r.lru.Remove(c.ID)

		s := newSession(c, r.now)
		e = &Entry{Session: s, Controller: r.factory(s)}
		r.lru.Add(c.ID, e)
		if r.gauge != nil {
			r.gauge.Inc()
		}
		r.logger.Debug("session opened", zap.String("session", c.ID), zap.String("tenant", c.TenantSlug))
		return e
	}

	e.Session.Refresh(c)
	if e.Controller.Tenant() != c.TenantSlug {
		e.Controller.SwitchTenant(c.TenantSlug)
	}
	// Re-adding restarts the idle timer.
	r.lru.Add(c.ID, e)
	return e
}

// Remove ends a session. It reports whether the session existed.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lru.Remove(id)
}

func (r *Registry) Len() int {
	return r.lru.Len()
}

func (r *Registry) evicted(id string, e *Entry) {
	e.Controller.ClearPlanDetails()
	e.Session.Revoke()
	if r.gauge != nil {
		r.gauge.Dec()
	}
	r.logger.Debug("session closed", zap.String("session", id))
}
