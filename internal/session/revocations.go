package session

import (
	"context"
	"sync"
	"time"
)

// Revocations remembers logged-out tokens until they would have expired.
type Revocations interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type MemoryRevocations struct {
	mu      sync.Mutex
	tokens  map[string]time.Time
	nowFunc func() time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{tokens: make(map[string]time.Time), nowFunc: time.Now}
}

var _ Revocations = (*MemoryRevocations)(nil)

func (m *MemoryRevocations) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.nowFunc()
	for t, until := range m.tokens {
		if !now.Before(until) {
			delete(m.tokens, t)
		}
	}
	m.tokens[token] = now.Add(ttl)
	return nil
}

func (m *MemoryRevocations) IsRevoked(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	until, ok := m.tokens[token]
	if !ok {
		return false, nil
	}
	if !m.nowFunc().Before(until) {
		delete(m.tokens, token)
		return false, nil
	}
	return true, nil
}
