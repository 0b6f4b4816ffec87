package store

import (
	"context"
	"sync"

	"github.com/ksenkov/verdikt/internal/model"
)

// MemoryStore keeps results and fingerprint history in process memory.
// Useful for tests and for runs where no audit trail is wanted.
type MemoryStore struct {
	mu           sync.RWMutex
	results      map[string]model.VerificationResult
	order        []string
	fingerprints map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		results:      make(map[string]model.VerificationResult),
		fingerprints: make(map[string]string),
	}
}

func (s *MemoryStore) SaveResult(_ context.Context, r *model.VerificationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.results[r.VerificationID]; !exists {
		s.order = append(s.order, r.VerificationID)
	}
	s.results[r.VerificationID] = *r
	return nil
}

func (s *MemoryStore) GetResult(_ context.Context, id string) (*model.VerificationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

// ListResults returns the most recent results, newest first.
func (s *MemoryStore) ListResults(_ context.Context, limit int) ([]model.VerificationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.VerificationResult, 0, limit)
	for i := len(s.order) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, s.results[s.order[i]])
	}
	return out, nil
}

func (s *MemoryStore) GetLatest(_ context.Context, sourceID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fp, ok := s.fingerprints[sourceID]
	return fp, ok, nil
}

func (s *MemoryStore) Record(_ context.Context, sourceID, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fingerprints[sourceID] = fingerprint
	return nil
}

func (s *MemoryStore) Close() error { return nil }
