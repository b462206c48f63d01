package services

import (
	"context"
	"fmt"
	"log/slog"

	"patrimonio/internal/core"
	applog "patrimonio/internal/log"
	"patrimonio/internal/storage"
)

// LedgerService owns account records. Balances change through the
// journal in the steady state; the SetBalance escape hatch exists for
// out-of-band corrections only.
type LedgerService struct {
	storage *storage.SQLiteRepository

	// DefaultCurrency is assigned to accounts created without one.
	// Overridable from configuration after construction.
	DefaultCurrency string
}

func NewLedgerService(storage *storage.SQLiteRepository) *LedgerService {
	return &LedgerService{storage: storage, DefaultCurrency: core.DefaultCurrency}
}

// CreateAccountParams carries the caller-supplied fields of a new
// account. A nil InitialBalance defaults to Balance: the account opens
// with no transaction history explaining the gap.
type CreateAccountParams struct {
	Name           string
	CategoryID     int64
	Balance        core.Money
	InitialBalance *core.Money
	Currency       string
	Platform       string
	AccountNumber  string
	Description    string
}

func (s *LedgerService) CreateAccount(ctx context.Context, p CreateAccountParams) (int64, error) {
	initial := p.Balance
	if p.InitialBalance != nil {
		initial = *p.InitialBalance
	}
	currency := p.Currency
	if currency == "" {
		currency = s.DefaultCurrency
	}

	account := core.Account{
		Name:           p.Name,
		CategoryID:     p.CategoryID,
		Balance:        p.Balance,
		InitialBalance: initial,
		Currency:       currency,
		Platform:       p.Platform,
		AccountNumber:  p.AccountNumber,
		Description:    p.Description,
		IsActive:       true,
	}
	if err := account.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %w", core.ErrValidation, err)
	}

	exists, err := s.storage.CategoryExists(ctx, p.CategoryID)
	if err != nil {
		return 0, fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return 0, fmt.Errorf("%w: unknown category %d", core.ErrValidation, p.CategoryID)
	}

	id, err := s.storage.CreateAccount(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("create account: %w", err)
	}

	slog.InfoContext(ctx, "Account created",
		applog.FieldAccountID, id,
		applog.FieldCategoryID, p.CategoryID,
		applog.FieldBalance, p.Balance.Cents)
	return id, nil
}

// UpdateAccountParams updates descriptive fields and the category.
// Balance is deliberately absent: it changes only via journal postings
// or the SetBalance correction path.
type UpdateAccountParams struct {
	Name          string
	CategoryID    int64
	Platform      string
	AccountNumber string
	Description   string
}

func (s *LedgerService) UpdateAccount(ctx context.Context, id int64, p UpdateAccountParams) error {
	account := core.Account{
		ID:            id,
		Name:          p.Name,
		CategoryID:    p.CategoryID,
		Platform:      p.Platform,
		AccountNumber: p.AccountNumber,
		Description:   p.Description,
	}
	if err := account.Validate(); err != nil {
		return fmt.Errorf("%w: %w", core.ErrValidation, err)
	}

	exists, err := s.storage.CategoryExists(ctx, p.CategoryID)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: unknown category %d", core.ErrValidation, p.CategoryID)
	}

	if err := s.storage.UpdateAccount(ctx, account); err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	slog.InfoContext(ctx, "Account updated", applog.FieldAccountID, id)
	return nil
}

// SetBalance overwrites the cached balance, bypassing the journal. The
// new value will not match the transaction history until the next
// reconciliation; callers accept that risk.
func (s *LedgerService) SetBalance(ctx context.Context, id int64, balance core.Money) error {
	if err := s.storage.SetAccountBalance(ctx, id, balance); err != nil {
		return fmt.Errorf("set balance: %w", err)
	}
	slog.WarnContext(ctx, "Account balance overridden outside the journal",
		applog.FieldAccountID, id,
		applog.FieldBalance, balance.Cents)
	return nil
}

// Deactivate soft-deletes an account. Its transaction history stays
// queryable; summaries and trends exclude it.
func (s *LedgerService) Deactivate(ctx context.Context, id int64) error {
	if err := s.storage.SetAccountActive(ctx, id, false); err != nil {
		return fmt.Errorf("deactivate account: %w", err)
	}
	slog.InfoContext(ctx, "Account deactivated", applog.FieldAccountID, id)
	return nil
}

// Activate re-enables a previously deactivated account.
func (s *LedgerService) Activate(ctx context.Context, id int64) error {
	if err := s.storage.SetAccountActive(ctx, id, true); err != nil {
		return fmt.Errorf("activate account: %w", err)
	}
	slog.InfoContext(ctx, "Account activated", applog.FieldAccountID, id)
	return nil
}

func (s *LedgerService) Get(ctx context.Context, id int64) (core.Account, error) {
	return s.storage.GetAccount(ctx, id)
}

func (s *LedgerService) List(ctx context.Context, filter storage.AccountFilter) ([]core.Account, error) {
	return s.storage.ListAccounts(ctx, filter)
}

// ListByCategoryType groups active accounts by asset type, each group
// ordered by balance descending. Every type is present, possibly empty.
func (s *LedgerService) ListByCategoryType(ctx context.Context) (map[core.AssetType][]core.Account, error) {
	result := make(map[core.AssetType][]core.Account, len(core.AssetTypes()))
	for _, assetType := range core.AssetTypes() {
		accounts, err := s.storage.ListActiveAccountsByType(ctx, assetType)
		if err != nil {
			return nil, fmt.Errorf("list %s accounts: %w", assetType, err)
		}
		result[assetType] = accounts
	}
	return result, nil
}

func (s *LedgerService) PlatformSummary(ctx context.Context) ([]core.PlatformDistribution, error) {
	return s.storage.PlatformSummary(ctx)
}
