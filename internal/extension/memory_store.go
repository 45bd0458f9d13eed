package extension

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]IssuedToken
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]IssuedToken)}
}

func (s *MemoryStore) Put(_ context.Context, key string, token IssuedToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[key] = token
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (IssuedToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.tokens[key]
	if !ok {
		return IssuedToken{}, ErrTokenNotFound
	}
	return token, nil
}

func (s *MemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, token := range s.tokens {
		if token.Expired(now) {
			delete(s.tokens, key)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}
