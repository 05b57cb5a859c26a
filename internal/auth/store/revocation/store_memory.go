package revocation

import (
	"context"
	"sync"
	"time"
)

// InMemoryList is the single-process revocation list. Expired entries are
// dropped lazily on lookup.
type InMemoryList struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewInMemoryList() *InMemoryList {
	return &InMemoryList{revoked: make(map[string]time.Time), now: time.Now}
}

func (l *InMemoryList) RevokeToken(_ context.Context, jti string, ttl time.Duration) error {
	if skip, err := checkRevocation(jti, ttl); skip || err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revoked[jti] = l.now().Add(ttl)
	return nil
}

func (l *InMemoryList) IsRevoked(_ context.Context, jti string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	until, ok := l.revoked[jti]
	if !ok {
		return false, nil
	}
	if !l.now().Before(until) {
		delete(l.revoked, jti)
		return false, nil
	}
	return true, nil
}
