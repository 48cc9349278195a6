package cache

import (
	"context"
	"sync"
	"time"
)

// entry represents a cached code with expiration
type entry struct {
	expiresAt time.Time
}

// InMemoryCodeIndex caches known component codes in a process-local map.
// Suitable for single-instance deployments and testing; entries expire
// after a TTL like the Redis variant.
type InMemoryCodeIndex struct {
	mu        sync.RWMutex
	entries   map[string]entry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryCodeIndex creates a new in-memory code index. It starts a
// background goroutine to clean up expired entries.
func NewInMemoryCodeIndex(ttl time.Duration) *InMemoryCodeIndex {
	idx := &InMemoryCodeIndex{
		entries:  make(map[string]entry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	idx.wg.Add(1)
	go idx.cleanupLoop()

	return idx
}

// Contains reports whether the code is cached as taken
func (s *InMemoryCodeIndex) Contains(_ context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[code]
	if !exists {
		return false, nil
	}
	if time.Now().After(e.expiresAt) {
		return false, nil
	}
	return true, nil
}

// Add records the code as taken
func (s *InMemoryCodeIndex) Add(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[code] = entry{expiresAt: time.Now().Add(s.ttl)}
	return nil
}

// Remove drops the code, e.g. after a rename
func (s *InMemoryCodeIndex) Remove(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, code)
	return nil
}

// Close stops the cleanup goroutine
func (s *InMemoryCodeIndex) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
	return nil
}

func (s *InMemoryCodeIndex) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.removeExpired()
		}
	}
}

func (s *InMemoryCodeIndex) removeExpired() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for code, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, code)
		}
	}
}
