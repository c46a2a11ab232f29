// Package session keeps one billing controller per authenticated dashboard
// session.
package session

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"clinic-billing/internal/domain/billing"
)

// ErrExpired is what Token returns for an expired or revoked session.
var ErrExpired = fmt.Errorf("session: token expired: %w", billing.ErrSessionExpired)

// Claims is what the auth middleware extracts from a verified token.
type Claims struct {
	ID         string
	UserID     string
	TenantSlug string
	Role       string
	Token      string
	ExpiresAt  time.Time
}

// Session is the live credential of one browser session. It is both the
// controller's Authenticator and the billing client's token source.
type Session struct {
	id  string
	now func() time.Time

	mu      sync.RWMutex
	userID  string
	tenant  string
	role    string
	token   string
	expires time.Time
}

func newSession(c Claims, now func() time.Time) *Session {
	s := &Session{id: c.ID, now: now}
	s.Refresh(c)
	return s
}

func (s *Session) ID() string { return s.id }

// Refresh installs the latest token and claims seen for this session.
func (s *Session) Refresh(c Claims) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = c.UserID
	s.tenant = c.TenantSlug
	s.role = c.Role
	s.token = c.Token
	s.expires = c.ExpiresAt
}

func (s *Session) Tenant() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tenant
}

func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

func (s *Session) Role() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// Authenticated reports whether the session holds an unexpired token.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validLocked()
}

func (s *Session) validLocked() bool {
	if s.token == "" {
		return false
	}
	return s.expires.IsZero() || s.now().Before(s.expires)
}

// Token implements oauth2.TokenSource.
func (s *Session) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.validLocked() {
		return nil, ErrExpired
	}
	return &oauth2.Token{AccessToken: s.token, TokenType: "Bearer", Expiry: s.expires}, nil
}

// Revoke drops the token; later calls through the session are
// unauthenticated.
func (s *Session) Revoke() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}
