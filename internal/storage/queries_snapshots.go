package storage

import "context"

const createSnapshot = `
INSERT INTO asset_snapshots
	(snapshot_date, total_assets_cents, total_liquid_cents,
	 total_investment_cents, total_fixed_cents, details)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id
`

type CreateSnapshotParams struct {
	SnapshotDate         string
	TotalAssetsCents     int64
	TotalLiquidCents     int64
	TotalInvestmentCents int64
	TotalFixedCents      int64
	Details              string
}

func (q *Queries) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createSnapshot,
		arg.SnapshotDate, arg.TotalAssetsCents, arg.TotalLiquidCents,
		arg.TotalInvestmentCents, arg.TotalFixedCents, arg.Details).Scan(&id)
	return id, err
}

const listSnapshotsSince = `
SELECT id, snapshot_date, total_assets_cents, total_liquid_cents,
	total_investment_cents, total_fixed_cents, details, created_at
FROM asset_snapshots
WHERE snapshot_date >= ?
ORDER BY snapshot_date
`

func (q *Queries) ListSnapshotsSince(ctx context.Context, sinceDate string) ([]AssetSnapshot, error) {
	rows, err := q.db.QueryContext(ctx, listSnapshotsSince, sinceDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AssetSnapshot
	for rows.Next() {
		var s AssetSnapshot
		if err := rows.Scan(&s.ID, &s.SnapshotDate, &s.TotalAssetsCents, &s.TotalLiquidCents,
			&s.TotalInvestmentCents, &s.TotalFixedCents, &s.Details, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}
