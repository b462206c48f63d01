package storage

import "database/sql"

type Category struct {
	ID          int64
	Name        string
	Type        string
	Icon        string
	Color       string
	Description string
	CreatedAt   sql.NullTime
}

type CategoryWithStats struct {
	Category
	AccountCount      int64
	TotalBalanceCents int64
}

type Account struct {
	ID                  int64
	Name                string
	CategoryID          int64
	BalanceCents        int64
	InitialBalanceCents int64
	Currency            string
	Platform            string
	AccountNumber       string
	Description         string
	IsActive            int64
	CreatedAt           sql.NullTime
	UpdatedAt           sql.NullTime

	// Joined from categories.
	CategoryName string
	CategoryType string
	CategoryIcon string
}

type Transaction struct {
	ID                int64
	AccountID         int64
	Date              string
	Description       string
	Type              string
	Category          string
	AmountCents       int64
	BalanceAfterCents int64
	Note              string
	CreatedAt         sql.NullTime

	// Joined from accounts.
	AccountName string
	Platform    string
}

type AssetSnapshot struct {
	ID                   int64
	SnapshotDate         string
	TotalAssetsCents     int64
	TotalLiquidCents     int64
	TotalInvestmentCents int64
	TotalFixedCents      int64
	Details              string
	CreatedAt            sql.NullTime
}

type TypeTotal struct {
	Type       string
	TotalCents int64
	Count      int64
}

type CategoryTotal struct {
	Name       string
	Type       string
	Icon       string
	Color      string
	TotalCents int64
	Count      int64
}

type PlatformTotal struct {
	Platform   string
	TotalCents int64
	Count      int64
}

type TypeAmount struct {
	Type       string
	TotalCents int64
	Count      int64
}

type DailyAmount struct {
	Date       string
	Type       string
	TotalCents int64
}

type TxCategoryAmount struct {
	Category   string
	Type       string
	TotalCents int64
	Count      int64
}

type MonthlyAmount struct {
	Month      string
	Type       string
	TotalCents int64
	Count      int64
}

// LastUpdate is scanned as text: MAX(updated_at) is an expression
// column without a decltype, so the driver hands it back as a string.
type LedgerCounts struct {
	AccountCount     int64
	TransactionCount int64
	LastUpdate       sql.NullString
}
