package storage

import (
	"context"
	"fmt"
	"time"

	"patrimonio/internal/core"
)

// sqliteTimestampLayout is the format CURRENT_TIMESTAMP writes.
const sqliteTimestampLayout = "2006-01-02 15:04:05"

// AssetSummary aggregates current balances of active accounts per asset
// type, plus ledger counts.
func (r *SQLiteRepository) AssetSummary(ctx context.Context) (core.AssetSummary, error) {
	totals, err := r.queries.SumBalancesByType(ctx)
	if err != nil {
		return core.AssetSummary{}, fmt.Errorf("sum balances by type: %w", err)
	}

	var s core.AssetSummary
	for _, t := range totals {
		s.TotalAssets.Cents += t.TotalCents
		switch core.AssetType(t.Type) {
		case core.AssetLiquid:
			s.TotalLiquid.Cents += t.TotalCents
		case core.AssetInvestment:
			s.TotalInvestment.Cents += t.TotalCents
		case core.AssetFixed:
			s.TotalFixed.Cents += t.TotalCents
		default:
			s.TotalOther.Cents += t.TotalCents
		}
	}

	counts, err := r.queries.GetLedgerCounts(ctx)
	if err != nil {
		return core.AssetSummary{}, fmt.Errorf("get ledger counts: %w", err)
	}
	s.AccountCount = counts.AccountCount
	s.TransactionCount = counts.TransactionCount
	if counts.LastUpdate.Valid {
		ts, err := time.Parse(sqliteTimestampLayout, counts.LastUpdate.String)
		if err != nil {
			return core.AssetSummary{}, fmt.Errorf("parse last_update %q: %w", counts.LastUpdate.String, err)
		}
		s.LastUpdate = ts
	}
	return s, nil
}

func (r *SQLiteRepository) Distribution(ctx context.Context) (core.Distribution, error) {
	var d core.Distribution

	byType, err := r.queries.SumBalancesByType(ctx)
	if err != nil {
		return d, fmt.Errorf("sum balances by type: %w", err)
	}
	for _, t := range byType {
		d.ByType = append(d.ByType, core.TypeDistribution{
			Type:  core.AssetType(t.Type),
			Total: core.Money{Cents: t.TotalCents},
			Count: t.Count,
		})
	}

	byCategory, err := r.queries.SumBalancesByCategory(ctx)
	if err != nil {
		return d, fmt.Errorf("sum balances by category: %w", err)
	}
	for _, c := range byCategory {
		d.ByCategory = append(d.ByCategory, core.CategoryDistribution{
			Name:  c.Name,
			Type:  core.AssetType(c.Type),
			Icon:  c.Icon,
			Color: c.Color,
			Total: core.Money{Cents: c.TotalCents},
			Count: c.Count,
		})
	}

	byPlatform, err := r.queries.SumBalancesByPlatform(ctx)
	if err != nil {
		return d, fmt.Errorf("sum balances by platform: %w", err)
	}
	for _, p := range byPlatform {
		d.ByPlatform = append(d.ByPlatform, core.PlatformDistribution{
			Platform: p.Platform,
			Total:    core.Money{Cents: p.TotalCents},
			Count:    p.Count,
		})
	}

	return d, nil
}

func (r *SQLiteRepository) PlatformSummary(ctx context.Context) ([]core.PlatformDistribution, error) {
	rows, err := r.queries.SumBalancesByPlatform(ctx)
	if err != nil {
		return nil, fmt.Errorf("sum balances by platform: %w", err)
	}
	items := make([]core.PlatformDistribution, len(rows))
	for i, p := range rows {
		items[i] = core.PlatformDistribution{
			Platform: p.Platform,
			Total:    core.Money{Cents: p.TotalCents},
			Count:    p.Count,
		}
	}
	return items, nil
}

func (r *SQLiteRepository) IncomeExpenseSummary(ctx context.Context, start, end core.Date) (core.IncomeExpenseSummary, error) {
	s := core.IncomeExpenseSummary{Start: start, End: end}

	totals, err := r.queries.SumAmountsByType(ctx, start.String(), end.String())
	if err != nil {
		return s, fmt.Errorf("sum amounts by type: %w", err)
	}
	for _, t := range totals {
		switch core.TransactionType(t.Type) {
		case core.TypeIncome:
			s.Income = core.Money{Cents: t.TotalCents}
			s.IncomeCount = t.Count
		case core.TypeExpense:
			s.Expense = core.Money{Cents: t.TotalCents}
			s.ExpenseCount = t.Count
		}
	}

	daily, err := r.queries.SumAmountsByDay(ctx, start.String(), end.String())
	if err != nil {
		return s, fmt.Errorf("sum amounts by day: %w", err)
	}
	for _, d := range daily {
		date, err := core.ParseDate(d.Date)
		if err != nil {
			return s, fmt.Errorf("parse daily date %q: %w", d.Date, err)
		}
		s.Daily = append(s.Daily, core.DailyAmount{
			Date:   date,
			Type:   core.TransactionType(d.Type),
			Amount: core.Money{Cents: d.TotalCents},
		})
	}

	byCategory, err := r.queries.SumAmountsByCategory(ctx, start.String(), end.String())
	if err != nil {
		return s, fmt.Errorf("sum amounts by category: %w", err)
	}
	for _, c := range byCategory {
		s.ByCategory = append(s.ByCategory, core.CategoryAmount{
			Category: c.Category,
			Type:     core.TransactionType(c.Type),
			Amount:   core.Money{Cents: c.TotalCents},
			Count:    c.Count,
		})
	}

	return s, nil
}

// MonthlyStatistics aggregates income/expense per month since sinceDate,
// most recent month first.
func (r *SQLiteRepository) MonthlyStatistics(ctx context.Context, sinceDate core.Date) ([]core.MonthlyStat, error) {
	rows, err := r.queries.SumAmountsByMonth(ctx, sinceDate.String())
	if err != nil {
		return nil, fmt.Errorf("sum amounts by month: %w", err)
	}

	var stats []core.MonthlyStat
	index := make(map[string]int)
	for _, row := range rows {
		i, ok := index[row.Month]
		if !ok {
			i = len(stats)
			index[row.Month] = i
			stats = append(stats, core.MonthlyStat{Month: row.Month})
		}
		switch core.TransactionType(row.Type) {
		case core.TypeIncome:
			stats[i].Income = core.Money{Cents: row.TotalCents}
		case core.TypeExpense:
			stats[i].Expense = core.Money{Cents: row.TotalCents}
		}
		stats[i].Count += row.Count
		stats[i].Net = core.Money{Cents: stats[i].Income.Cents - stats[i].Expense.Cents}
	}
	return stats, nil
}

func (r *SQLiteRepository) CreateSnapshot(ctx context.Context, s core.AssetSnapshot) (int64, error) {
	id, err := r.queries.CreateSnapshot(ctx, CreateSnapshotParams{
		SnapshotDate:         s.SnapshotDate.String(),
		TotalAssetsCents:     s.TotalAssets.Cents,
		TotalLiquidCents:     s.TotalLiquid.Cents,
		TotalInvestmentCents: s.TotalInvestment.Cents,
		TotalFixedCents:      s.TotalFixed.Cents,
		Details:              s.Details,
	})
	if err != nil {
		return 0, fmt.Errorf("create snapshot: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) ListSnapshotsSince(ctx context.Context, since core.Date) ([]core.AssetSnapshot, error) {
	rows, err := r.queries.ListSnapshotsSince(ctx, since.String())
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	items := make([]core.AssetSnapshot, len(rows))
	for i, row := range rows {
		if items[i], err = toCoreSnapshot(row); err != nil {
			return nil, err
		}
	}
	return items, nil
}
