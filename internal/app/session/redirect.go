package session

import (
	"context"
	"sync"
)

type redirectKey struct{}

// RedirectSlot receives the destination a controller navigates to while
// serving one request.
type RedirectSlot struct {
	mu  sync.Mutex
	url string
}

func (s *RedirectSlot) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// WithRedirectSlot returns a context whose navigations land in the
// returned slot.
func WithRedirectSlot(ctx context.Context) (context.Context, *RedirectSlot) {
	slot := &RedirectSlot{}
	return context.WithValue(ctx, redirectKey{}, slot), slot
}

// Navigator is the billing.Navigator shared by every controller: it writes
// into the slot of the request being served, if there is one.
type Navigator struct{}

func (Navigator) Navigate(ctx context.Context, url string) {
	if slot, ok := ctx.Value(redirectKey{}).(*RedirectSlot); ok {
		slot.mu.Lock()
		slot.url = url
		slot.mu.Unlock()
	}
}
