package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"patrimonio/internal/amqp"
	"patrimonio/internal/core"
	applog "patrimonio/internal/log"
	"patrimonio/internal/storage"
)

// SnapshotService materializes point-in-time asset aggregates and
// serves the dashboard analytics derived from them.
type SnapshotService struct {
	storage *storage.SQLiteRepository
	events  *amqp.Client

	// RatioWindowDays is the income/expense window feeding the ratio
	// computations, 30 days when zero.
	RatioWindowDays int
}

func NewSnapshotService(storage *storage.SQLiteRepository, events *amqp.Client) *SnapshotService {
	return &SnapshotService{storage: storage, events: events}
}

type snapshotDetail struct {
	Name     string  `json:"name"`
	Balance  float64 `json:"balance"`
	Category string  `json:"category"`
	Type     string  `json:"type"`
}

// CreateSnapshot aggregates active-account balances per asset type into
// an immutable snapshot row. A ledger with zero total assets produces
// no row, so "no data yet" never pollutes the trend history. The bool
// reports whether a snapshot was written.
func (s *SnapshotService) CreateSnapshot(ctx context.Context) (int64, bool, error) {
	summary, err := s.storage.AssetSummary(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("aggregate balances: %w", err)
	}
	if summary.TotalAssets.Cents == 0 {
		slog.InfoContext(ctx, "Snapshot skipped: no asset data")
		return 0, false, nil
	}

	active := true
	accounts, err := s.storage.ListAccounts(ctx, storage.AccountFilter{Active: &active})
	if err != nil {
		return 0, false, fmt.Errorf("list accounts: %w", err)
	}
	details := make([]snapshotDetail, len(accounts))
	for i, a := range accounts {
		details[i] = snapshotDetail{
			Name:     a.Name,
			Balance:  a.Balance.Float64(),
			Category: a.CategoryName,
			Type:     string(a.CategoryType),
		}
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return 0, false, fmt.Errorf("marshal details: %w", err)
	}

	id, err := s.storage.CreateSnapshot(ctx, core.AssetSnapshot{
		SnapshotDate:    core.Today(),
		TotalAssets:     summary.TotalAssets,
		TotalLiquid:     summary.TotalLiquid,
		TotalInvestment: summary.TotalInvestment,
		TotalFixed:      summary.TotalFixed,
		Details:         string(detailsJSON),
	})
	if err != nil {
		return 0, false, fmt.Errorf("create snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot created",
		applog.FieldSnapshotID, id,
		"total_assets_cents", summary.TotalAssets.Cents,
		"accounts", len(accounts))

	if s.events != nil {
		if err := s.events.PublishLedgerEvent(ctx, amqp.EventSnapshotCreated, id, 0); err != nil {
			slog.ErrorContext(ctx, "Failed to publish snapshot event",
				applog.FieldSnapshotID, id, applog.FieldError, err)
		}
	}
	return id, true, nil
}

// Trend returns one point per snapshot within the window, oldest first.
// When snapshot density falls below roughly one per 7 days, it degrades
// to a flat series repeating the current total across every day in the
// range. That fallback is an approximation for graceful dashboard
// degradation, not a historical reconstruction: per-day balance replay
// from a forward-only journal is deliberately not attempted.
func (s *SnapshotService) Trend(ctx context.Context, days int) ([]core.TrendPoint, error) {
	if days <= 0 {
		days = 30
	}
	since := core.Today().AddDays(-days)

	snapshots, err := s.storage.ListSnapshotsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	minDensity := days / 7
	if minDensity < 1 {
		minDensity = 1
	}
	if len(snapshots) >= minDensity {
		points := make([]core.TrendPoint, len(snapshots))
		for i, snap := range snapshots {
			points[i] = core.TrendPoint{
				Date:        snap.SnapshotDate,
				TotalAssets: snap.TotalAssets,
				Liquid:      snap.TotalLiquid,
				Investment:  snap.TotalInvestment,
				Fixed:       snap.TotalFixed,
			}
		}
		return points, nil
	}

	slog.DebugContext(ctx, "Snapshot density too low, using flat approximation",
		"snapshots", len(snapshots), "days", days)

	summary, err := s.storage.AssetSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("aggregate balances: %w", err)
	}
	points := make([]core.TrendPoint, days)
	for i := 0; i < days; i++ {
		points[i] = core.TrendPoint{
			Date:        core.Today().AddDays(i - days + 1),
			TotalAssets: summary.TotalAssets,
			Liquid:      summary.TotalLiquid,
			Investment:  summary.TotalInvestment,
			Fixed:       summary.TotalFixed,
		}
	}
	return points, nil
}

func (s *SnapshotService) Summary(ctx context.Context) (core.AssetSummary, error) {
	return s.storage.AssetSummary(ctx)
}

func (s *SnapshotService) Distribution(ctx context.Context) (core.Distribution, error) {
	return s.storage.Distribution(ctx)
}

// IncomeExpense aggregates postings over [start, end]. Zero dates
// default to the last 30 days ending today.
func (s *SnapshotService) IncomeExpense(ctx context.Context, start, end core.Date) (core.IncomeExpenseSummary, error) {
	if end.IsZero() {
		end = core.Today()
	}
	if start.IsZero() {
		start = end.AddDays(-30)
	}
	return s.storage.IncomeExpenseSummary(ctx, start, end)
}

// MonthlyStatistics covers the last 12 months, most recent first.
func (s *SnapshotService) MonthlyStatistics(ctx context.Context) ([]core.MonthlyStat, error) {
	since := core.Today().AddDays(-365)
	return s.storage.MonthlyStatistics(ctx, since)
}

// Ratios derives the dashboard indicators from current aggregates and
// the recent income/expense window.
func (s *SnapshotService) Ratios(ctx context.Context) (core.Ratios, error) {
	summary, err := s.storage.AssetSummary(ctx)
	if err != nil {
		return core.Ratios{}, fmt.Errorf("aggregate balances: %w", err)
	}

	window := s.RatioWindowDays
	if window <= 0 {
		window = 30
	}
	end := core.Today()
	ie, err := s.storage.IncomeExpenseSummary(ctx, end.AddDays(-window), end)
	if err != nil {
		return core.Ratios{}, fmt.Errorf("income expense window: %w", err)
	}

	return core.ComputeRatios(summary, ie.Income, ie.Expense), nil
}
