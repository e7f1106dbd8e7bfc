// Package memory is an in-process LedgerWriter for tests and local runs
// without Google credentials.
package memory

import (
	"context"
	"sync"

	"brancoapp/internal/core"
)

type Store struct {
	mu      sync.Mutex
	ledger  []core.LedgerRow
	exports int
}

func New() *Store {
	return &Store{}
}

// WriteLedger replaces the held ledger snapshot.
func (s *Store) WriteLedger(_ context.Context, rows []core.LedgerRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = append([]core.LedgerRow(nil), rows...)
	s.exports++
	return nil
}

// Ledger returns the last exported snapshot.
func (s *Store) Ledger() []core.LedgerRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.LedgerRow(nil), s.ledger...)
}

// Exports counts how many times the ledger was written.
func (s *Store) Exports() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exports
}
