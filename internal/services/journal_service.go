package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"patrimonio/internal/amqp"
	"patrimonio/internal/core"
	applog "patrimonio/internal/log"
	"patrimonio/internal/storage"
)

// JournalService owns transaction postings and the balance effects they
// apply to accounts. Every mutation runs under the owning account's
// lock and inside a single storage transaction.
type JournalService struct {
	storage *storage.SQLiteRepository
	events  *amqp.Client
	locks   *accountLocks
}

func NewJournalService(storage *storage.SQLiteRepository, events *amqp.Client) *JournalService {
	return &JournalService{
		storage: storage,
		events:  events,
		locks:   newAccountLocks(),
	}
}

// Post records a transaction and applies its balance effect. Transfers
// posted directly through here have no balance effect; use Transfer for
// a paired move between accounts.
func (s *JournalService) Post(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %w", core.ErrValidation, err)
	}

	unlock := s.locks.Lock(t.AccountID)
	defer unlock()

	posted, err := s.storage.PostTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("post transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction posted",
		applog.FieldTxID, posted.ID,
		applog.FieldAccountID, posted.AccountID,
		applog.FieldTxType, posted.Type,
		applog.FieldAmountCents, posted.Amount.Cents,
		applog.FieldBalance, posted.BalanceAfter.Cents)

	s.publish(ctx, amqp.EventTransactionPosted, posted.ID, posted.AccountID)
	return posted, nil
}

// Update reverses the original posting's effect and applies the new
// fields' effect, possibly against a different account. A missing id is
// a silent no-op, mirroring the delete contract.
func (s *JournalService) Update(ctx context.Context, id int64, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %w", core.ErrValidation, err)
	}

	old, err := s.storage.GetTransaction(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Update of unknown transaction ignored", applog.FieldTxID, id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	unlock := s.locks.Lock(old.AccountID, t.AccountID)
	defer unlock()

	// The row may have been deleted between the read above and taking
	// the locks; UpdateTransaction re-checks inside its transaction.
	found, err := s.storage.UpdateTransaction(ctx, id, t)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if !found {
		return nil
	}

	slog.InfoContext(ctx, "Transaction updated",
		applog.FieldTxID, id,
		applog.FieldAccountID, t.AccountID,
		"old_account_id", old.AccountID,
		applog.FieldTxType, t.Type,
		applog.FieldAmountCents, t.Amount.Cents)

	s.publish(ctx, amqp.EventTransactionUpdated, id, t.AccountID)
	return nil
}

// Delete reverses the posting's balance effect and removes the row.
// Deleting a missing id is an idempotent no-op.
func (s *JournalService) Delete(ctx context.Context, id int64) error {
	old, err := s.storage.GetTransaction(ctx, id)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	unlock := s.locks.Lock(old.AccountID)
	defer unlock()

	found, err := s.storage.DeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if !found {
		return nil
	}

	slog.InfoContext(ctx, "Transaction deleted",
		applog.FieldTxID, id,
		applog.FieldAccountID, old.AccountID,
		applog.FieldAmountCents, old.Amount.Cents)

	s.publish(ctx, amqp.EventTransactionDeleted, id, old.AccountID)
	return nil
}

func (s *JournalService) Get(ctx context.Context, id int64) (core.Transaction, error) {
	return s.storage.GetTransaction(ctx, id)
}

func (s *JournalService) List(ctx context.Context, filter storage.TransactionFilter) ([]core.Transaction, error) {
	return s.storage.ListTransactions(ctx, filter)
}

// Categories returns the distinct free-text transaction labels in use.
func (s *JournalService) Categories(ctx context.Context) ([]core.CategoryAmount, error) {
	return s.storage.ListTransactionCategories(ctx)
}

// Transfer moves funds between two accounts as a paired expense+income,
// both legs in one storage transaction so a failed second leg rolls
// back the first.
func (s *JournalService) Transfer(ctx context.Context, fromID, toID int64, amount core.Money, date core.Date, description string) (outID, inID int64, err error) {
	if fromID <= 0 || toID <= 0 {
		return 0, 0, fmt.Errorf("%w: both accounts are required", core.ErrValidation)
	}
	if fromID == toID {
		return 0, 0, fmt.Errorf("%w: cannot transfer to the same account", core.ErrValidation)
	}
	if amount.Cents <= 0 {
		return 0, 0, fmt.Errorf("%w: %w", core.ErrValidation, core.ErrInvalidAmount)
	}
	if date.IsZero() {
		date = core.Today()
	}
	if description == "" {
		description = fmt.Sprintf("Transfer from account %d to account %d", fromID, toID)
	}

	unlock := s.locks.Lock(fromID, toID)
	defer unlock()

	out := core.Transaction{
		AccountID:   fromID,
		Date:        date,
		Description: description,
		Type:        core.TypeExpense,
		Category:    core.CategoryTransfer,
		Amount:      amount,
	}
	in := core.Transaction{
		AccountID:   toID,
		Date:        date,
		Description: description,
		Type:        core.TypeIncome,
		Category:    core.CategoryTransfer,
		Amount:      amount,
	}

	outID, inID, err = s.storage.Transfer(ctx, out, in)
	if err != nil {
		return 0, 0, fmt.Errorf("transfer: %w", err)
	}

	slog.InfoContext(ctx, "Transfer completed",
		"from_account_id", fromID,
		"to_account_id", toID,
		applog.FieldAmountCents, amount.Cents,
		"out_transaction_id", outID,
		"in_transaction_id", inID)

	s.publish(ctx, amqp.EventTransactionPosted, outID, fromID)
	s.publish(ctx, amqp.EventTransactionPosted, inID, toID)
	return outID, inID, nil
}

// Reconcile recomputes an account's balance from its journal and
// repairs any drift. Drift is reported, not treated as a hard failure.
func (s *JournalService) Reconcile(ctx context.Context, accountID int64) (core.Money, error) {
	unlock := s.locks.Lock(accountID)
	defer unlock()

	drift, balance, err := s.storage.Reconcile(ctx, accountID)
	if err != nil {
		return core.Money{}, fmt.Errorf("reconcile account %d: %w", accountID, err)
	}
	if drift != 0 {
		slog.WarnContext(ctx, "Balance drift repaired",
			applog.FieldAccountID, accountID,
			"drift_cents", drift,
			applog.FieldBalance, balance.Cents,
			applog.FieldError, core.ErrInconsistent)
	}
	return balance, nil
}

func (s *JournalService) publish(ctx context.Context, event string, id, accountID int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishLedgerEvent(ctx, event, id, accountID); err != nil {
		// Best-effort: the mutation already committed.
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"event", event, applog.FieldTxID, id, applog.FieldError, err)
	}
}

// ImportRecord is one row of a batch import request.
type ImportRecord struct {
	AccountID   int64   `json:"account_id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Note        string  `json:"note"`
}

type ImportError struct {
	Index  int          `json:"index"`
	Record ImportRecord `json:"data"`
	Error  string       `json:"error"`
}

type ImportResult struct {
	SuccessCount int           `json:"success_count"`
	ErrorCount   int           `json:"error_count"`
	Errors       []ImportError `json:"errors"`
}

// BatchImport posts each record independently: one bad record never
// aborts the batch, and every failure is reported with its index and
// original data.
func (s *JournalService) BatchImport(ctx context.Context, records []ImportRecord) (ImportResult, error) {
	result := ImportResult{Errors: []ImportError{}}

	for i, rec := range records {
		tx, err := s.importRecordToTransaction(rec)
		if err == nil {
			_, err = s.Post(ctx, tx)
		}
		if err != nil {
			result.Errors = append(result.Errors, ImportError{
				Index:  i,
				Record: rec,
				Error:  err.Error(),
			})
			continue
		}
		result.SuccessCount++
	}

	result.ErrorCount = len(result.Errors)
	slog.InfoContext(ctx, "Batch import finished",
		"total", len(records),
		"succeeded", result.SuccessCount,
		"failed", result.ErrorCount)
	return result, nil
}

func (s *JournalService) importRecordToTransaction(rec ImportRecord) (core.Transaction, error) {
	if rec.AccountID <= 0 {
		return core.Transaction{}, fmt.Errorf("%w: account_id is required", core.ErrValidation)
	}
	if rec.Date == "" {
		return core.Transaction{}, fmt.Errorf("%w: date is required", core.ErrValidation)
	}
	date, err := core.ParseDate(rec.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: invalid date %q", core.ErrValidation, rec.Date)
	}
	txType := core.TransactionType(rec.Type)
	if err := txType.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %w", core.ErrValidation, err)
	}
	if rec.Amount <= 0 {
		return core.Transaction{}, fmt.Errorf("%w: %w", core.ErrValidation, core.ErrInvalidAmount)
	}
	return core.Transaction{
		AccountID:   rec.AccountID,
		Date:        date,
		Description: rec.Description,
		Type:        txType,
		Category:    rec.Category,
		Amount:      core.Money{Cents: int64(math.Round(rec.Amount * 100))},
		Note:        rec.Note,
	}, nil
}
