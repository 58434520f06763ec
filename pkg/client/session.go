// Package client is the Go SDK for the delivery server: a typed REST
// surface plus the realtime channel manager and the two synchronizers
// that keep conversation state consistent between HTTP history and
// websocket pushes.
package client

import (
	"sync"

	"w9ayt_delivery_server/internal/dto/respond"
)

// Session holds the token pair and the authenticated user. Safe for
// concurrent use; the REST client and the channel manager both read it.
type Session struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	user         *respond.UserRespond
}

// Set replaces the session after a login or refresh.
func (s *Session) Set(rsp *respond.LoginRespond) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = rsp.AccessToken
	s.refreshToken = rsp.RefreshToken
	user := rsp.User
	s.user = &user
}

// Clear drops all credentials, e.g. on logout.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = ""
	s.refreshToken = ""
	s.user = nil
}

// AccessToken returns the current access token, "" when logged out.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token.
func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// User returns a copy of the authenticated user, nil when logged out.
func (s *Session) User() *respond.UserRespond {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// UserID returns the authenticated user id, 0 when logged out.
func (s *Session) UserID() uint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return 0
	}
	return s.user.ID
}
