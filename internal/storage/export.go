package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Export writes every record as a JSON array, most recent first.
func Export(ctx context.Context, store ContractStore, w io.Writer) error {
	contracts, err := store.ListContracts(ctx)
	if err != nil {
		return err
	}
	if contracts == nil {
		contracts = []*SavedContract{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(contracts); err != nil {
		return fmt.Errorf("failed to encode contracts: %w", err)
	}
	return nil
}

// Import reads a JSON array of records and saves each one. Records without an
// id get a fresh one. Returns the number of records imported.
func Import(ctx context.Context, store ContractStore, r io.Reader) (int, error) {
	var contracts []*SavedContract
	if err := json.NewDecoder(r).Decode(&contracts); err != nil {
		return 0, fmt.Errorf("failed to decode contracts: %w", err)
	}

	imported := 0
	for _, c := range contracts {
		if c == nil {
			continue
		}
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		if err := store.SaveContract(ctx, c); err != nil {
			return imported, fmt.Errorf("failed to import %q: %w", c.Name, err)
		}
		imported++
	}
	return imported, nil
}
