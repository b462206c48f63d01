package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"patrimonio/internal/amqp"
	"patrimonio/internal/core"
	applog "patrimonio/internal/log"
	"patrimonio/internal/services"
)

// SnapshotWorker periodically materializes asset snapshots so the trend
// endpoints have a dense history to draw from.
type SnapshotWorker struct {
	snapshots *services.SnapshotService
	interval  time.Duration

	mu           sync.Mutex
	lastSnapshot core.Date
}

func NewSnapshotWorker(snapshots *services.SnapshotService, interval time.Duration) *SnapshotWorker {
	return &SnapshotWorker{
		snapshots: snapshots,
		interval:  interval,
	}
}

// Run snapshots once at startup, then on every tick until the context
// is cancelled. At most one snapshot is taken per calendar day even
// when the interval fires more often.
func (w *SnapshotWorker) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Snapshot worker started", "interval", w.interval)

	w.runOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Snapshot worker stopped")
			return ctx.Err()
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

// HandleLedgerEvent reacts to journal activity arriving over the queue
// by taking the day's snapshot early instead of waiting for the next
// tick. Snapshot events are ignored so the worker never chases its own
// output.
func (w *SnapshotWorker) HandleLedgerEvent(ctx context.Context, e *amqp.LedgerEvent) error {
	if e.Event == amqp.EventSnapshotCreated {
		return nil
	}
	slog.DebugContext(ctx, "Ledger event received", "event", e.Event, applog.FieldTxID, e.ID)
	w.runOnce(ctx)
	return nil
}

func (w *SnapshotWorker) runOnce(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	today := core.Today()
	if w.lastSnapshot.String() == today.String() {
		slog.DebugContext(ctx, "Snapshot already taken today", applog.FieldDate, today.String())
		return
	}

	id, created, err := w.snapshots.CreateSnapshot(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Scheduled snapshot failed", applog.FieldError, err)
		return
	}
	if !created {
		return
	}

	w.lastSnapshot = today
	slog.InfoContext(ctx, "Scheduled snapshot complete",
		applog.FieldSnapshotID, id, applog.FieldDate, today.String())
}
