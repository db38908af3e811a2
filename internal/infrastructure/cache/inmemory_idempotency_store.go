package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jpashop/backend/internal/domain/shared"
)

// DefaultCleanupInterval is how often expired keys are swept
const DefaultCleanupInterval = 5 * time.Minute

// InMemoryIdempotencyStore keeps key deadlines in a process-local map. It is
// the fallback when Redis is disabled or unreachable, so keys are not shared
// between replicas.
type InMemoryIdempotencyStore struct {
	mu       sync.Mutex
	deadline map[string]time.Time
	now      func() time.Time

	interval time.Duration
	stop     chan struct{}
	stopped  chan struct{}
	once     sync.Once
}

type InMemoryOption func(*InMemoryIdempotencyStore)

// WithCleanupInterval overrides the sweep period; non-positive values are ignored
func WithCleanupInterval(d time.Duration) InMemoryOption {
	return func(s *InMemoryIdempotencyStore) {
		if d > 0 {
			s.interval = d
		}
	}
}

func withClock(now func() time.Time) InMemoryOption {
	return func(s *InMemoryIdempotencyStore) { s.now = now }
}

// NewInMemoryIdempotencyStore starts the sweeper; call Close to stop it
func NewInMemoryIdempotencyStore(opts ...InMemoryOption) *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		deadline: make(map[string]time.Time),
		now:      time.Now,
		interval: DefaultCleanupInterval,
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.sweepEvery(s.interval)
	return s
}

// MarkProcessed claims key until ttl elapses. A second claim on a live key
// returns false; an expired key can be claimed again.
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.liveLocked(key, now) {
		return false, nil
	}
	s.deadline[key] = now.Add(ttl)
	return true, nil
}

func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveLocked(key, s.now()), nil
}

// Release drops a claim so a failed request can be retried with the same key
func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.deadline, key)
	s.mu.Unlock()
	return nil
}

func (s *InMemoryIdempotencyStore) liveLocked(key string, now time.Time) bool {
	until, ok := s.deadline[key]
	return ok && now.Before(until)
}

// Close stops the sweeper and waits for it. Further calls are no-ops.
func (s *InMemoryIdempotencyStore) Close() error {
	s.once.Do(func() {
		close(s.stop)
		<-s.stopped
	})
	return nil
}

func (s *InMemoryIdempotencyStore) sweepEvery(d time.Duration) {
	defer close(s.stopped)

	ticker := time.NewTicker(d)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *InMemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key := range s.deadline {
		if !s.liveLocked(key, now) {
			delete(s.deadline, key)
		}
	}
}

// Size counts stored keys, including expired ones not yet swept
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deadline)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
