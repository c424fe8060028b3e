package memory

import (
	"context"
	"sync"

	"github.com/miaoxn/soliditytool/internal/storage"
)

// InMemoryContractStore implements ContractStore with in-memory storage
type InMemoryContractStore struct {
	mu        sync.RWMutex
	closed    bool
	contracts map[string]*storage.SavedContract
}

// NewInMemoryContractStore creates a new in-memory contract store
func NewInMemoryContractStore() *InMemoryContractStore {
	return &InMemoryContractStore{
		contracts: make(map[string]*storage.SavedContract),
	}
}

// SaveContract inserts or replaces the record with the same id
func (s *InMemoryContractStore) SaveContract(ctx context.Context, contract *storage.SavedContract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStoreClosed
	}
	if contract == nil || contract.ID == "" {
		return storage.ErrInvalidContract
	}

	s.contracts[contract.ID] = contract.Clone()
	return nil
}

// GetContract retrieves a record by id
func (s *InMemoryContractStore) GetContract(ctx context.Context, id string) (*storage.SavedContract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrStoreClosed
	}

	c, ok := s.contracts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return c.Clone(), nil
}

// ListContracts returns copies of all records, most recent first
func (s *InMemoryContractStore) ListContracts(ctx context.Context) ([]*storage.SavedContract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, storage.ErrStoreClosed
	}

	out := make([]*storage.SavedContract, 0, len(s.contracts))
	for _, c := range s.contracts {
		out = append(out, c.Clone())
	}
	storage.SortByRecency(out)
	return out, nil
}

// DeleteContract removes a record
func (s *InMemoryContractStore) DeleteContract(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return storage.ErrStoreClosed
	}
	if _, ok := s.contracts[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.contracts, id)
	return nil
}

// Close marks the store as closed
func (s *InMemoryContractStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
