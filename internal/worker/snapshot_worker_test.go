package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"patrimonio/internal/amqp"
	"patrimonio/internal/core"
	"patrimonio/internal/services"
	"patrimonio/internal/storage"
)

func TestRunOnceTakesOneSnapshotPerDay(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer repo.Close()

	ledger := services.NewLedgerService(repo)
	_, err = ledger.CreateAccount(context.Background(), services.CreateAccountParams{
		Name:       "Checking",
		CategoryID: 1,
		Balance:    core.Money{Cents: 100_000},
	})
	require.NoError(t, err)

	w := NewSnapshotWorker(services.NewSnapshotService(repo, nil), time.Hour)

	ctx := context.Background()
	w.runOnce(ctx)
	w.runOnce(ctx)

	snaps, err := repo.ListSnapshotsSince(ctx, core.Today().AddDays(-1))
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	require.Equal(t, int64(100_000), snaps[0].TotalAssets.Cents)
}

func TestLedgerEventTriggersSnapshot(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer repo.Close()

	ledger := services.NewLedgerService(repo)
	_, err = ledger.CreateAccount(context.Background(), services.CreateAccountParams{
		Name:       "Checking",
		CategoryID: 1,
		Balance:    core.Money{Cents: 50_000},
	})
	require.NoError(t, err)

	w := NewSnapshotWorker(services.NewSnapshotService(repo, nil), time.Hour)
	ctx := context.Background()

	// Snapshot events must not feed back into snapshot creation.
	require.NoError(t, w.HandleLedgerEvent(ctx, amqp.NewLedgerEvent(amqp.EventSnapshotCreated, 1, 0)))
	snaps, err := repo.ListSnapshotsSince(ctx, core.Today().AddDays(-1))
	require.NoError(t, err)
	require.Empty(t, snaps)

	require.NoError(t, w.HandleLedgerEvent(ctx, amqp.NewLedgerEvent(amqp.EventTransactionPosted, 1, 1)))
	snaps, err = repo.ListSnapshotsSince(ctx, core.Today().AddDays(-1))
	require.NoError(t, err)
	require.Len(t, snaps, 1)

	// A second event on the same day is deduped.
	require.NoError(t, w.HandleLedgerEvent(ctx, amqp.NewLedgerEvent(amqp.EventTransactionPosted, 2, 1)))
	snaps, err = repo.ListSnapshotsSince(ctx, core.Today().AddDays(-1))
	require.NoError(t, err)
	require.Len(t, snaps, 1)
}
