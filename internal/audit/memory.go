package audit

import (
	"context"
	"fmt"
	"sync"

	"wanjohi/mpesa-csv/internal/models"
)

// MemoryStore is an in-memory Store for tests and one-shot CLI runs where
// no database is configured.
type MemoryStore struct {
	mu      sync.Mutex
	byTx    map[string]models.MatchRecord
	Creates int // total Create calls, including ignored duplicates
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byTx: make(map[string]models.MatchRecord)}
}

// Create stores the record unless the transaction already has one.
func (s *MemoryStore) Create(_ context.Context, rec models.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Creates++
	if _, exists := s.byTx[rec.TransactionID]; exists {
		return nil
	}
	s.byTx[rec.TransactionID] = rec
	return nil
}

// GetByTransaction returns the record for the transaction, or nil.
func (s *MemoryStore) GetByTransaction(_ context.Context, transactionID string) (*models.MatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byTx[transactionID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// Update overwrites an existing record, matched by record id.
func (s *MemoryStore) Update(_ context.Context, rec models.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for txID, existing := range s.byTx {
		if existing.ID == rec.ID {
			s.byTx[txID] = rec
			return nil
		}
	}
	return fmt.Errorf("update match record: no record with id %s", rec.ID)
}

// Len returns the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byTx)
}
