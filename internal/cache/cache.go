// Package cache holds the most recent analysis results under a TTL. The
// store is keyed so a session id can isolate users later; the web layer
// currently uses one fixed key with last-writer-wins semantics.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mzackyaulya/sentikom/internal/models"
)

// LastAnalysisKey is the single slot the web layer writes.
const LastAnalysisKey = "last_analysis"

var ErrNotFound = errors.New("cache: result not found")

type Store interface {
	Put(ctx context.Context, key string, res models.AnalysisResult, ttl time.Duration) error
	Get(ctx context.Context, key string) (models.AnalysisResult, error)
	Delete(ctx context.Context, key string) error
}

type memoryEntry struct {
	res     models.AnalysisResult
	expires time.Time
}

// MemoryStore is the in-process fallback used when no valkey address is
// configured, and by tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, key string, res models.AnalysisResult, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{res: res, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (models.AnalysisResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return models.AnalysisResult{}, ErrNotFound
	}
	if s.now().After(entry.expires) {
		delete(s.entries, key)
		return models.AnalysisResult{}, ErrNotFound
	}
	return entry.res, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
