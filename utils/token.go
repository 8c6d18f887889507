package utils

import (
	"context"
	"sync"
	"time"
)

// RevocationList remembers logged-out tokens until they would have expired.
type RevocationList struct {
	ttl    time.Duration
	now    func() time.Time
	mu     sync.RWMutex
	tokens map[string]time.Time
}

func NewRevocationList(ttl time.Duration) *RevocationList {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RevocationList{
		ttl:    ttl,
		now:    time.Now,
		tokens: make(map[string]time.Time),
	}
}

func (l *RevocationList) Revoke(token string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens[token] = l.now().Add(l.ttl)
}

func (l *RevocationList) IsRevoked(token string) bool {
	l.mu.RLock()
	expiry, ok := l.tokens[token]
	l.mu.RUnlock()
	return ok && l.now().Before(expiry)
}

// Sweep drops entries whose tokens have expired and returns how many went.
func (l *RevocationList) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	removed := 0
	for token, expiry := range l.tokens {
		if !now.Before(expiry) {
			delete(l.tokens, token)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (l *RevocationList) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := l.Sweep(); n > 0 {
				LoggerFromContext(ctx).WithField("removed", n).Debug("Swept revoked tokens")
			}
		}
	}
}
