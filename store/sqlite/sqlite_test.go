package sqlite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinoisasian/jingshin-leave-public/directory"
	"github.com/Vinoisasian/jingshin-leave-public/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestUpsertAndGetWorker(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	balance := decimal.RequireFromString("12.5")
	err := store.UpsertWorker(ctx, directory.Profile{
		WorkerID:   "14070",
		Name:       "陳小美",
		Department: "Production",
		Role:       "Operator",
		Balance:    &balance,
	})
	require.NoError(t, err)

	got, err := store.GetWorker(ctx, "14070")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "陳小美", got.Name)
	assert.Equal(t, "Production", got.Department)
	require.NotNil(t, got.Balance)
	assert.Equal(t, "12.5", got.Balance.String())
}

func TestGetWorker_Missing_ReturnsNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetWorker(context.Background(), "99999")
	require.NoError(t, err)
	assert.Nil(t, got, "missing worker is (nil, nil), not an error")
}

func TestUpsertWorker_NullBalancePreserved(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertWorker(ctx, directory.Profile{
		WorkerID: "20002",
		Name:     "Trần Văn Nam",
	}))

	got, err := store.GetWorker(ctx, "20002")
	require.NoError(t, err)
	assert.Nil(t, got.Balance, "untracked balance round-trips as nil")
}

func TestUpsertWorker_ReplacesExisting(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertWorker(ctx, directory.Profile{WorkerID: "14070", Name: "Old Name"}))
	require.NoError(t, store.UpsertWorker(ctx, directory.Profile{WorkerID: "14070", Name: "New Name", Department: "Quality"}))

	got, err := store.GetWorker(ctx, "14070")
	require.NoError(t, err)
	assert.Equal(t, "New Name", got.Name)
	assert.Equal(t, "Quality", got.Department)
}

func TestUpsertWorker_RejectsMalformedID(t *testing.T) {
	store := newTestStore(t)

	err := store.UpsertWorker(context.Background(), directory.Profile{WorkerID: "14a70", Name: "x"})
	assert.Error(t, err)
}

func TestSeedAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Seed(ctx))

	workers, err := store.ListWorkers(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, workers)

	// Seeding twice must not duplicate.
	require.NoError(t, store.Seed(ctx))
	again, err := store.ListWorkers(ctx)
	require.NoError(t, err)
	assert.Len(t, again, len(workers))

	require.NoError(t, store.Reset(ctx))
	empty, err := store.ListWorkers(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
