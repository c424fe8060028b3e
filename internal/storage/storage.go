package storage

import (
	"context"
	"sort"
)

// ContractStore defines the interface for saved contract persistence
type ContractStore interface {
	SaveContract(ctx context.Context, contract *SavedContract) error
	GetContract(ctx context.Context, id string) (*SavedContract, error)
	// ListContracts returns all records, most recently saved first
	ListContracts(ctx context.Context) ([]*SavedContract, error)
	DeleteContract(ctx context.Context, id string) error

	// Lifecycle management
	Close() error
}

// SavedContract is a named contract interface the user chose to keep.
// Field names match the browser export format.
type SavedContract struct {
	ID        string            `json:"id" yaml:"id"`
	Name      string            `json:"name" yaml:"name"`
	Address   string            `json:"address" yaml:"address"`
	ABI       string            `json:"abi" yaml:"abi"`
	NetworkID string            `json:"networkId,omitempty" yaml:"networkId,omitempty"`
	CreatedAt int64             `json:"createdAt" yaml:"createdAt"`
	Notes     map[string]string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Clone returns a deep copy so stores never share the notes map with callers.
func (c *SavedContract) Clone() *SavedContract {
	if c == nil {
		return nil
	}
	out := *c
	if c.Notes != nil {
		out.Notes = make(map[string]string, len(c.Notes))
		for k, v := range c.Notes {
			out.Notes[k] = v
		}
	}
	return &out
}

// SortByRecency orders records by createdAt descending; ties keep id order.
func SortByRecency(contracts []*SavedContract) {
	sort.SliceStable(contracts, func(i, j int) bool {
		if contracts[i].CreatedAt != contracts[j].CreatedAt {
			return contracts[i].CreatedAt > contracts[j].CreatedAt
		}
		return contracts[i].ID < contracts[j].ID
	})
}
