package clients

import (
	"context"
	"sync"
)

// TokenSession caches the CSRF token for one upstream session. It is
// injected into the client rather than living in package state, so two
// clients never share a token by accident.
//
// The mutex is held across the fetch: concurrent mutating requests that
// race before any token is cached share a single round trip, the rest
// read the cached value.
type TokenSession struct {
	mu    sync.Mutex
	token string
}

func NewTokenSession() *TokenSession {
	return &TokenSession{}
}

// Token returns the cached token, fetching one via fetch if none is
// cached yet.
func (s *TokenSession) Token(ctx context.Context, fetch func(context.Context) (string, error)) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" {
		return s.token, nil
	}

	token, err := fetch(ctx)
	if err != nil {
		return "", err
	}
	s.token = token
	return token, nil
}

// Clear drops the cached token. The next mutating request fetches a
// fresh one.
func (s *TokenSession) Clear() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}
