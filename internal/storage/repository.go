package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"patrimonio/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// transact runs fn against tx-scoped queries, committing on nil error.
func (r *SQLiteRepository) transact(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(r.queries.WithTx(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "Rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ----- categories -----

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (int64, error) {
	created, err := r.queries.CreateCategory(ctx, CreateCategoryParams{
		Name:        c.Name,
		Type:        string(c.Type),
		Icon:        c.Icon,
		Color:       c.Color,
		Description: c.Description,
	})
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}
	return created.ID, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	row, err := r.queries.GetCategory(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return toCoreCategory(row), nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	rows, err := r.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	items := make([]core.Category, len(rows))
	for i, row := range rows {
		items[i] = toCoreCategory(row)
	}
	return items, nil
}

func (r *SQLiteRepository) ListCategoriesWithStats(ctx context.Context) ([]core.CategoryStats, error) {
	rows, err := r.queries.ListCategoriesWithStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories with stats: %w", err)
	}
	items := make([]core.CategoryStats, len(rows))
	for i, row := range rows {
		items[i] = core.CategoryStats{
			Category:     toCoreCategory(row.Category),
			AccountCount: row.AccountCount,
			TotalBalance: core.Money{Cents: row.TotalBalanceCents},
		}
	}
	return items, nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	if _, err := r.GetCategory(ctx, c.ID); err != nil {
		return err
	}
	err := r.queries.UpdateCategory(ctx, UpdateCategoryParams{
		Name:        c.Name,
		Type:        string(c.Type),
		Icon:        c.Icon,
		Color:       c.Color,
		Description: c.Description,
		ID:          c.ID,
	})
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// DeleteCategory refuses to remove a category while any account still
// references it, active or not.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	count, err := r.queries.CountAccountsByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("count accounts by category: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("category %d has %d accounts: %w", id, count, core.ErrCategoryInUse)
	}
	if err := r.queries.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	_, err := r.queries.GetCategory(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get category: %w", err)
	}
	return true, nil
}

// ----- accounts -----

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (int64, error) {
	id, err := r.queries.CreateAccount(ctx, CreateAccountParams{
		Name:                a.Name,
		CategoryID:          a.CategoryID,
		BalanceCents:        a.Balance.Cents,
		InitialBalanceCents: a.InitialBalance.Cents,
		Currency:            a.Currency,
		Platform:            a.Platform,
		AccountNumber:       a.AccountNumber,
		Description:         a.Description,
	})
	if err != nil {
		return 0, fmt.Errorf("create account: %w", err)
	}
	return id, nil
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	row, err := r.queries.GetAccount(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, fmt.Errorf("account %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return toCoreAccount(row), nil
}

// AccountFilter selects accounts in ListAccounts. Zero values disable
// the category and platform filters; Active nil means both states.
type AccountFilter struct {
	CategoryID int64
	Platform   string
	Active     *bool
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context, filter AccountFilter) ([]core.Account, error) {
	active := int64(-1)
	if filter.Active != nil {
		active = 0
		if *filter.Active {
			active = 1
		}
	}
	rows, err := r.queries.ListAccounts(ctx, ListAccountsParams{
		CategoryID: filter.CategoryID,
		Platform:   filter.Platform,
		IsActive:   active,
	})
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	items := make([]core.Account, len(rows))
	for i, row := range rows {
		items[i] = toCoreAccount(row)
	}
	return items, nil
}

func (r *SQLiteRepository) ListActiveAccountsByType(ctx context.Context, assetType core.AssetType) ([]core.Account, error) {
	rows, err := r.queries.ListActiveAccountsByType(ctx, string(assetType))
	if err != nil {
		return nil, fmt.Errorf("list accounts by type: %w", err)
	}
	items := make([]core.Account, len(rows))
	for i, row := range rows {
		items[i] = toCoreAccount(row)
	}
	return items, nil
}

func (r *SQLiteRepository) UpdateAccount(ctx context.Context, a core.Account) error {
	if _, err := r.GetAccount(ctx, a.ID); err != nil {
		return err
	}
	err := r.queries.UpdateAccount(ctx, UpdateAccountParams{
		Name:          a.Name,
		CategoryID:    a.CategoryID,
		Platform:      a.Platform,
		AccountNumber: a.AccountNumber,
		Description:   a.Description,
		ID:            a.ID,
	})
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SetAccountBalance(ctx context.Context, id int64, balance core.Money) error {
	if _, err := r.GetAccount(ctx, id); err != nil {
		return err
	}
	if err := r.queries.UpdateAccountBalance(ctx, id, balance.Cents); err != nil {
		return fmt.Errorf("set account balance: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SetAccountActive(ctx context.Context, id int64, active bool) error {
	if _, err := r.GetAccount(ctx, id); err != nil {
		return err
	}
	if err := r.queries.SetAccountActive(ctx, id, active); err != nil {
		return fmt.Errorf("set account active: %w", err)
	}
	return nil
}

// ----- row mapping -----

func toCoreCategory(row Category) core.Category {
	c := core.Category{
		ID:          row.ID,
		Name:        row.Name,
		Type:        core.AssetType(row.Type),
		Icon:        row.Icon,
		Color:       row.Color,
		Description: row.Description,
	}
	if row.CreatedAt.Valid {
		c.CreatedAt = row.CreatedAt.Time
	}
	return c
}

func toCoreAccount(row Account) core.Account {
	a := core.Account{
		ID:             row.ID,
		Name:           row.Name,
		CategoryID:     row.CategoryID,
		Balance:        core.Money{Cents: row.BalanceCents},
		InitialBalance: core.Money{Cents: row.InitialBalanceCents},
		Currency:       row.Currency,
		Platform:       row.Platform,
		AccountNumber:  row.AccountNumber,
		Description:    row.Description,
		IsActive:       row.IsActive != 0,
		CategoryName:   row.CategoryName,
		CategoryType:   core.AssetType(row.CategoryType),
		CategoryIcon:   row.CategoryIcon,
	}
	if row.CreatedAt.Valid {
		a.CreatedAt = row.CreatedAt.Time
	}
	if row.UpdatedAt.Valid {
		a.UpdatedAt = row.UpdatedAt.Time
	}
	return a
}

func toCoreTransaction(row Transaction) (core.Transaction, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date %q: %w", row.Date, err)
	}
	t := core.Transaction{
		ID:           row.ID,
		AccountID:    row.AccountID,
		Date:         date,
		Description:  row.Description,
		Type:         core.TransactionType(row.Type),
		Category:     row.Category,
		Amount:       core.Money{Cents: row.AmountCents},
		BalanceAfter: core.Money{Cents: row.BalanceAfterCents},
		Note:         row.Note,
		AccountName:  row.AccountName,
		Platform:     row.Platform,
	}
	if row.CreatedAt.Valid {
		t.CreatedAt = row.CreatedAt.Time
	}
	return t, nil
}

func toCoreSnapshot(row AssetSnapshot) (core.AssetSnapshot, error) {
	date, err := core.ParseDate(row.SnapshotDate)
	if err != nil {
		return core.AssetSnapshot{}, fmt.Errorf("parse snapshot date %q: %w", row.SnapshotDate, err)
	}
	s := core.AssetSnapshot{
		ID:              row.ID,
		SnapshotDate:    date,
		TotalAssets:     core.Money{Cents: row.TotalAssetsCents},
		TotalLiquid:     core.Money{Cents: row.TotalLiquidCents},
		TotalInvestment: core.Money{Cents: row.TotalInvestmentCents},
		TotalFixed:      core.Money{Cents: row.TotalFixedCents},
		Details:         row.Details,
	}
	if row.CreatedAt.Valid {
		s.CreatedAt = row.CreatedAt.Time
	}
	return s, nil
}
