package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Store is a keyed request counter with TTL reset. The in-memory form is
// right for a single instance; deployments with more than one replica swap in
// the redis-backed form so limits hold across the fleet.
type Store interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type MemoryStore struct {
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	mutex    sync.Mutex
	rate     rate.Limit
	burst    int
	ttl      time.Duration
}

func NewMemoryStore(r rate.Limit, burst int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		rate:     r,
		burst:    burst,
		ttl:      ttl,
	}
}

func (s *MemoryStore) Allow(_ context.Context, key string) (bool, error) {
	return s.limiter(key).Allow(), nil
}

func (s *MemoryStore) limiter(key string) *rate.Limiter {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if limiter, ok := s.limiters[key]; ok {
		s.lastSeen[key] = time.Now()
		return limiter
	}
	limiter := rate.NewLimiter(s.rate, s.burst)
	s.limiters[key] = limiter
	s.lastSeen[key] = time.Now()
	s.cleanup()
	return limiter
}

func (s *MemoryStore) cleanup() {
	if s.ttl == 0 {
		return
	}
	cutoff := time.Now().Add(-s.ttl)
	for key, last := range s.lastSeen {
		if last.Before(cutoff) {
			delete(s.lastSeen, key)
			delete(s.limiters, key)
		}
	}
}
