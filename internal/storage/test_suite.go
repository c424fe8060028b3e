package storage

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSuite defines a test suite that all storage implementations must pass
type TestSuite struct {
	NewStore func() (ContractStore, error)
}

// Run executes all storage interface compliance tests
func (s *TestSuite) Run(t *testing.T) {
	t.Run("SaveAndGet", s.testSaveAndGet)
	t.Run("Overwrite", s.testOverwrite)
	t.Run("ListOrder", s.testListOrder)
	t.Run("Delete", s.testDelete)
	t.Run("Isolation", s.testIsolation)
	t.Run("ExportImport", s.testExportImport)
	t.Run("Lifecycle", s.testLifecycle)
	t.Run("ConcurrentAccess", s.testConcurrentAccess)
}

func sampleContract(id string, createdAt int64) *SavedContract {
	return &SavedContract{
		ID:        id,
		Name:      "Token " + id,
		Address:   "0x5FbDB2315678afecb367f032d93F642f64180aa3",
		ABI:       `[{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],"outputs":[{"type":"uint256"}]}]`,
		NetworkID: "31337",
		CreatedAt: createdAt,
		Notes:     map[string]string{"totalSupply": "fixed at deploy"},
	}
}

func (s *TestSuite) testSaveAndGet(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	_, err = store.GetContract(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	c := sampleContract("a", 1000)
	require.NoError(t, store.SaveContract(ctx, c))

	got, err := store.GetContract(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, c, got)

	assert.ErrorIs(t, store.SaveContract(ctx, &SavedContract{Name: "no id"}), ErrInvalidContract)
	assert.ErrorIs(t, store.SaveContract(ctx, nil), ErrInvalidContract)
}

func (s *TestSuite) testOverwrite(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	require.NoError(t, store.SaveContract(ctx, sampleContract("a", 1000)))

	updated := sampleContract("a", 2000)
	updated.Name = "Renamed"
	updated.Notes = nil
	require.NoError(t, store.SaveContract(ctx, updated))

	got, err := store.GetContract(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, int64(2000), got.CreatedAt)
	assert.Empty(t, got.Notes)

	all, err := store.ListContracts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func (s *TestSuite) testListOrder(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	all, err := store.ListContracts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, store.SaveContract(ctx, sampleContract("old", 1000)))
	require.NoError(t, store.SaveContract(ctx, sampleContract("new", 3000)))
	require.NoError(t, store.SaveContract(ctx, sampleContract("mid", 2000)))

	all, err = store.ListContracts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "new", all[0].ID)
	assert.Equal(t, "mid", all[1].ID)
	assert.Equal(t, "old", all[2].ID)
}

func (s *TestSuite) testDelete(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	require.NoError(t, store.SaveContract(ctx, sampleContract("a", 1000)))
	require.NoError(t, store.DeleteContract(ctx, "a"))

	_, err = store.GetContract(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.DeleteContract(ctx, "a"), ErrNotFound)
}

func (s *TestSuite) testIsolation(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	c := sampleContract("a", 1000)
	require.NoError(t, store.SaveContract(ctx, c))
	c.Notes["totalSupply"] = "mutated"

	got, err := store.GetContract(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "fixed at deploy", got.Notes["totalSupply"])

	got.Name = "changed by caller"
	again, err := store.GetContract(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Token a", again.Name)
}

func (s *TestSuite) testExportImport(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()

	require.NoError(t, store.SaveContract(ctx, sampleContract("a", 1000)))
	require.NoError(t, store.SaveContract(ctx, sampleContract("b", 2000)))

	var buf bytes.Buffer
	require.NoError(t, Export(ctx, store, &buf))
	assert.Contains(t, buf.String(), `"networkId": "31337"`)
	assert.Contains(t, buf.String(), `"createdAt": 2000`)

	target, err := s.NewStore()
	require.NoError(t, err)
	defer target.Close()

	n, err := Import(ctx, target, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := target.ListContracts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID)
}

func (s *TestSuite) testLifecycle(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)

	ctx := context.Background()

	require.NoError(t, store.SaveContract(ctx, sampleContract("a", 1000)))
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.SaveContract(ctx, sampleContract("b", 1000)), ErrStoreClosed)

	_, err = store.GetContract(ctx, "a")
	assert.ErrorIs(t, err, ErrStoreClosed)

	_, err = store.ListContracts(ctx)
	assert.ErrorIs(t, err, ErrStoreClosed)

	assert.ErrorIs(t, store.DeleteContract(ctx, "a"), ErrStoreClosed)
}

func (s *TestSuite) testConcurrentAccess(t *testing.T) {
	store, err := s.NewStore()
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	errs := make(chan error, 50)
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c := sampleContract(fmt.Sprintf("c-%d", id), int64(id))
			for j := 0; j < 10; j++ {
				c.Name = fmt.Sprintf("rev-%d", j)
				if err := store.SaveContract(ctx, c); err != nil {
					errs <- err
					return
				}
			}
		}(i)
	}

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if _, err := store.ListContracts(ctx); err != nil {
					errs <- err
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent access error: %v", err)
	}

	all, err := store.ListContracts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for _, c := range all {
		assert.Equal(t, "rev-9", c.Name)
	}
}
