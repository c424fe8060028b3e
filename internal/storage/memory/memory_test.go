package memory_test

import (
	"context"
	"testing"

	"github.com/miaoxn/soliditytool/internal/storage"
	"github.com/miaoxn/soliditytool/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInMemoryContractStore runs the standard storage test suite
func TestInMemoryContractStore(t *testing.T) {
	suite := &storage.TestSuite{
		NewStore: func() (storage.ContractStore, error) {
			return memory.NewInMemoryContractStore(), nil
		},
	}
	suite.Run(t)
}

func TestInMemorySpecific(t *testing.T) {
	t.Run("MultipleInstances", func(t *testing.T) {
		ctx := context.Background()
		store1 := memory.NewInMemoryContractStore()
		store2 := memory.NewInMemoryContractStore()

		require.NoError(t, store1.SaveContract(ctx, &storage.SavedContract{ID: "x", Name: "only in one"}))

		_, err := store2.GetContract(ctx, "x")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("CloseIsIdempotent", func(t *testing.T) {
		store := memory.NewInMemoryContractStore()
		require.NoError(t, store.Close())
		require.NoError(t, store.Close())
	})
}
