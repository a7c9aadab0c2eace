// Package store provides registry adapters implementing the registry.Client
// surface: in-memory for development and tests, Redis and Postgres for
// self-hosted deployments.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"veridoc/internal/fingerprint"
	"veridoc/internal/registry/models"
	"veridoc/pkg/platform/sentinel"
)

// InMemoryStore keeps records in a map guarded by a mutex. Append holds the
// lock across the exists check and the insert, so two concurrent issuances
// of identical content cannot both succeed.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[fingerprint.Fingerprint]models.Record
}

// NewInMemory creates an empty in-memory registry store.
func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[fingerprint.Fingerprint]models.Record),
	}
}

// Lookup returns the record for the fingerprint, or sentinel.ErrNotFound.
func (s *InMemoryStore) Lookup(_ context.Context, fp fingerprint.Fingerprint) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[fp]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	// Return a copy so callers cannot mutate the stored record.
	out := record
	return &out, nil
}

// Append stores the record unless its fingerprint is already present, in
// which case it returns sentinel.ErrConflict and leaves the store unchanged.
func (s *InMemoryStore) Append(_ context.Context, record *models.Record) (*models.Receipt, error) {
	if record == nil {
		return nil, fmt.Errorf("record is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.Fingerprint]; exists {
		return nil, sentinel.ErrConflict
	}
	stored := *record
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	s.records[record.Fingerprint] = stored
	return &models.Receipt{
		Fingerprint:     stored.Fingerprint,
		ProvenanceToken: stored.ProvenanceToken,
		AppendedAt:      stored.CreatedAt,
	}, nil
}

// Len reports the number of stored records. Test helper.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
