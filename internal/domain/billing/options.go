package billing

import (
	"time"

	"go.uber.org/zap"
)

// Recorder receives operation and cache metrics. Kind is empty on success.
type Recorder interface {
	OperationCompleted(op Operation, kind Kind, elapsed time.Duration)
	CacheLookup(hit bool)
}

type nopRecorder struct{}

func (nopRecorder) OperationCompleted(Operation, Kind, time.Duration) {}
func (nopRecorder) CacheLookup(bool) {}

// Option configures a Controller.
type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Controller) { c.ttl = ttl }
}

func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

func WithNavigator(n Navigator) Option {
	return func(c *Controller) {
		if n != nil {
			c.navigator = n
		}
	}
}

func WithSeeds(s *SeedCatalog) Option {
	return func(c *Controller) {
		if s != nil {
			c.seeds = s
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.metrics = r
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}
