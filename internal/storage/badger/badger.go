package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	badgerv3 "github.com/dgraph-io/badger/v3"
	"github.com/miaoxn/soliditytool/internal/storage"
)

const prefixContract = "contract:%s"

// Config contains configuration for BadgerDB storage
type Config struct {
	// Directory where BadgerDB will store its data
	Dir string `json:"dir" yaml:"dir"`
	// InMemory runs BadgerDB in memory-only mode (for testing)
	InMemory bool `json:"inMemory,omitempty" yaml:"inMemory,omitempty"`
	// ValueLogFileSize sets the maximum size of a single value log file
	ValueLogFileSize int64 `json:"valueLogFileSize,omitempty" yaml:"valueLogFileSize,omitempty"`
}

// BadgerContractStore implements the ContractStore interface using BadgerDB
type BadgerContractStore struct {
	db       *badgerv3.DB
	mu       sync.RWMutex
	closed   bool
	closeCh  chan struct{}
	gcTicker *time.Ticker
}

// NewBadgerContractStore opens (or creates) the database described by cfg
func NewBadgerContractStore(cfg *Config) (*BadgerContractStore, error) {
	if cfg == nil {
		return nil, errors.New("badger config is nil")
	}
	if cfg.Dir == "" && !cfg.InMemory {
		return nil, errors.New("badger directory is required")
	}

	opts := badgerv3.DefaultOptions(cfg.Dir)
	opts.Logger = nil

	if cfg.InMemory {
		opts = opts.WithInMemory(true).WithDir("").WithValueDir("")
	}
	if cfg.ValueLogFileSize > 0 {
		opts.ValueLogFileSize = cfg.ValueLogFileSize
	}

	db, err := badgerv3.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	s := &BadgerContractStore{
		db:      db,
		closeCh: make(chan struct{}),
	}

	s.gcTicker = time.NewTicker(5 * time.Minute)
	go s.runGC()

	return s, nil
}

func (s *BadgerContractStore) runGC() {
	for {
		select {
		case <-s.gcTicker.C:
			s.mu.RLock()
			if s.closed {
				s.mu.RUnlock()
				return
			}
			s.mu.RUnlock()

			_ = s.db.RunValueLogGC(0.5)
		case <-s.closeCh:
			return
		}
	}
}

func (s *BadgerContractStore) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return storage.ErrStoreClosed
	}
	return nil
}

// SaveContract inserts or replaces the record with the same id
func (s *BadgerContractStore) SaveContract(ctx context.Context, contract *storage.SavedContract) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if contract == nil || contract.ID == "" {
		return storage.ErrInvalidContract
	}

	value, err := json.Marshal(contract)
	if err != nil {
		return fmt.Errorf("failed to marshal contract: %w", err)
	}

	key := fmt.Sprintf(prefixContract, contract.ID)
	err = s.db.Update(func(txn *badgerv3.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to save contract: %w", err)
	}
	return nil
}

// GetContract retrieves a record by id
func (s *BadgerContractStore) GetContract(ctx context.Context, id string) (*storage.SavedContract, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	var contract storage.SavedContract
	key := fmt.Sprintf(prefixContract, id)

	err := s.db.View(func(txn *badgerv3.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badgerv3.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &contract)
		})
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}

	return &contract, nil
}

// ListContracts returns all records, most recent first
func (s *BadgerContractStore) ListContracts(ctx context.Context) ([]*storage.SavedContract, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	contracts := make([]*storage.SavedContract, 0)
	err := s.db.View(func(txn *badgerv3.Txn) error {
		opts := badgerv3.DefaultIteratorOptions
		opts.Prefix = []byte("contract:")
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var contract storage.SavedContract
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &contract)
			})
			if err != nil {
				continue
			}
			contracts = append(contracts, &contract)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}

	storage.SortByRecency(contracts)
	return contracts, nil
}

// DeleteContract removes a record
func (s *BadgerContractStore) DeleteContract(ctx context.Context, id string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	key := fmt.Sprintf(prefixContract, id)
	err := s.db.Update(func(txn *badgerv3.Txn) error {
		if _, err := txn.Get([]byte(key)); err != nil {
			if errors.Is(err, badgerv3.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}
	return nil
}

// Close stops the GC loop and closes the database
func (s *BadgerContractStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	close(s.closeCh)
	s.gcTicker.Stop()

	return s.db.Close()
}
