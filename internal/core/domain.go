package core

import (
	"errors"
	"strings"
	"time"
)

const (
	AssetLiquid     AssetType = "liquid"
	AssetInvestment AssetType = "investment"
	AssetFixed      AssetType = "fixed"
	AssetOther      AssetType = "other"
)

const (
	TypeIncome   TransactionType = "income"
	TypeExpense  TransactionType = "expense"
	TypeTransfer TransactionType = "transfer"
)

// CategoryTransfer is the free-text label stamped on both legs of a
// transfer between accounts.
const CategoryTransfer = "transfer"

type (
	// AssetType is the top-level classification a Category belongs to.
	AssetType string

	// TransactionType determines the sign of a posting's balance effect.
	TransactionType string

	Date struct {
		time.Time
	}

	// Category is reference data: an asset classification with display hints.
	Category struct {
		ID          int64
		Name        string
		Type        AssetType
		Icon        string
		Color       string
		Description string
		CreatedAt   time.Time
	}

	// Account carries a cached balance. The balance is a materialized
	// view of initial_balance plus the signed sum of every posted
	// transaction; only the journal mutates it in the steady state.
	Account struct {
		ID             int64
		Name           string
		CategoryID     int64
		Balance        Money
		InitialBalance Money
		Currency       string
		Platform       string
		AccountNumber  string
		Description    string
		IsActive       bool
		CreatedAt      time.Time
		UpdatedAt      time.Time

		// Joined category data, populated by list/get queries.
		CategoryName string
		CategoryType AssetType
		CategoryIcon string
	}

	// Transaction is a journal row. Amount is always non-negative; the
	// sign of the balance effect comes from Type. BalanceAfter records
	// the owning account's balance right after posting and is a
	// historical audit field, not an authoritative value.
	Transaction struct {
		ID           int64
		AccountID    int64
		Date         Date
		Description  string
		Type         TransactionType
		Category     string // free-text label, not a Category reference
		Amount       Money
		BalanceAfter Money
		Note         string
		CreatedAt    time.Time

		// Joined account data, populated by list queries.
		AccountName string
		Platform    string
	}

	// AssetSnapshot is an immutable point-in-time aggregate of total
	// assets per asset type. Append-only, never mutated.
	AssetSnapshot struct {
		ID              int64
		SnapshotDate    Date
		TotalAssets     Money
		TotalLiquid     Money
		TotalInvestment Money
		TotalFixed      Money
		Details         string // JSON per-account breakdown
		CreatedAt       time.Time
	}

	// TrendPoint is one entry of a dashboard trend series.
	TrendPoint struct {
		Date        Date
		TotalAssets Money
		Liquid      Money
		Investment  Money
		Fixed       Money
	}
)

var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrCategoryInUse    = errors.New("category still referenced by accounts")
	ErrInconsistent     = errors.New("balance does not match journal")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidAssetType = errors.New("invalid asset type")
	ErrEmptyName        = errors.New("empty name")
)

// DefaultCurrency is assigned to accounts created without an explicit one.
const DefaultCurrency = "CNY"

// AssetTypes lists every asset type in display order.
func AssetTypes() []AssetType {
	return []AssetType{AssetLiquid, AssetInvestment, AssetFixed, AssetOther}
}

func (t AssetType) Validate() error {
	switch t {
	case AssetLiquid, AssetInvestment, AssetFixed, AssetOther:
		return nil
	}
	return ErrInvalidAssetType
}

func (t TransactionType) Validate() error {
	switch t {
	case TypeIncome, TypeExpense, TypeTransfer:
		return nil
	}
	return ErrInvalidType
}

// SignedCents returns the balance effect of posting amount with this
// type: +amount for income, -amount for expense, 0 for transfers
// (transfers are modeled as a paired expense+income across accounts).
func (t TransactionType) SignedCents(amount Money) int64 {
	switch t {
	case TypeIncome:
		return amount.Cents
	case TypeExpense:
		return -amount.Cents
	}
	return 0
}

// NewDate creates a Date at calendar-day granularity (UTC midnight).
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// Today returns the current calendar day in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if err := c.Type.Validate(); err != nil {
		return err
	}
	return nil
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if len(a.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	if a.CategoryID <= 0 {
		return errors.New("category is required")
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.AccountID <= 0 {
		return errors.New("account is required")
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if t.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}
