package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"patrimonio/internal/core"
)

// PostTransaction inserts a journal row and applies its balance effect
// to the owning account in a single SQL transaction: a reader never
// observes the row without the balance update or vice versa.
func (r *SQLiteRepository) PostTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	var posted core.Transaction
	err := r.transact(ctx, func(q *Queries) error {
		balance, err := q.GetAccountBalance(ctx, t.AccountID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("account %d: %w", t.AccountID, core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("read balance: %w", err)
		}

		newBalance := balance + t.Type.SignedCents(t.Amount)

		id, err := q.CreateTransaction(ctx, CreateTransactionParams{
			AccountID:         t.AccountID,
			Date:              t.Date.String(),
			Description:       t.Description,
			Type:              string(t.Type),
			Category:          t.Category,
			AmountCents:       t.Amount.Cents,
			BalanceAfterCents: newBalance,
			Note:              t.Note,
		})
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}

		if t.Type == core.TypeIncome || t.Type == core.TypeExpense {
			if err := q.UpdateAccountBalance(ctx, t.AccountID, newBalance); err != nil {
				return fmt.Errorf("update balance: %w", err)
			}
		}

		posted = t
		posted.ID = id
		posted.BalanceAfter = core.Money{Cents: newBalance}
		return nil
	})
	if err != nil {
		return core.Transaction{}, err
	}
	return posted, nil
}

// UpdateTransaction reverses the original row's effect on its original
// account, then applies the new fields' effect to the (possibly
// different) target account, all in one SQL transaction. Both steps run
// fully even when old and new account are the same, so the net delta is
// always correct. A missing id is a silent no-op; the second return
// value reports whether anything was updated.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, id int64, t core.Transaction) (bool, error) {
	found := false
	err := r.transact(ctx, func(q *Queries) error {
		old, err := q.GetTransaction(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get transaction: %w", err)
		}
		found = true

		oldDelta := core.TransactionType(old.Type).SignedCents(core.Money{Cents: old.AmountCents})
		if oldDelta != 0 {
			if err := q.AdjustAccountBalance(ctx, old.AccountID, -oldDelta); err != nil {
				return fmt.Errorf("reverse old effect: %w", err)
			}
		}

		err = q.UpdateTransaction(ctx, UpdateTransactionParams{
			AccountID:   t.AccountID,
			Date:        t.Date.String(),
			Description: t.Description,
			Type:        string(t.Type),
			Category:    t.Category,
			AmountCents: t.Amount.Cents,
			Note:        t.Note,
			ID:          id,
		})
		if err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}

		newDelta := t.Type.SignedCents(t.Amount)
		if newDelta != 0 {
			if err := q.AdjustAccountBalance(ctx, t.AccountID, newDelta); err != nil {
				return fmt.Errorf("apply new effect: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// DeleteTransaction reverses the row's balance effect and removes it.
// A missing id is an idempotent no-op, not an error.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) (bool, error) {
	found := false
	err := r.transact(ctx, func(q *Queries) error {
		old, err := q.GetTransaction(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get transaction: %w", err)
		}
		found = true

		delta := core.TransactionType(old.Type).SignedCents(core.Money{Cents: old.AmountCents})
		if delta != 0 {
			if err := q.AdjustAccountBalance(ctx, old.AccountID, -delta); err != nil {
				return fmt.Errorf("reverse effect: %w", err)
			}
		}
		if err := q.DeleteTransaction(ctx, id); err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// Transfer posts the expense leg on the source account and the income
// leg on the destination account inside one SQL transaction, so a
// failure of the second leg rolls back the first.
func (r *SQLiteRepository) Transfer(ctx context.Context, out, in core.Transaction) (outID, inID int64, err error) {
	err = r.transact(ctx, func(q *Queries) error {
		post := func(t core.Transaction) (int64, error) {
			balance, err := q.GetAccountBalance(ctx, t.AccountID)
			if errors.Is(err, sql.ErrNoRows) {
				return 0, fmt.Errorf("account %d: %w", t.AccountID, core.ErrNotFound)
			}
			if err != nil {
				return 0, fmt.Errorf("read balance: %w", err)
			}
			newBalance := balance + t.Type.SignedCents(t.Amount)
			id, err := q.CreateTransaction(ctx, CreateTransactionParams{
				AccountID:         t.AccountID,
				Date:              t.Date.String(),
				Description:       t.Description,
				Type:              string(t.Type),
				Category:          t.Category,
				AmountCents:       t.Amount.Cents,
				BalanceAfterCents: newBalance,
				Note:              t.Note,
			})
			if err != nil {
				return 0, fmt.Errorf("insert transaction: %w", err)
			}
			if err := q.UpdateAccountBalance(ctx, t.AccountID, newBalance); err != nil {
				return 0, fmt.Errorf("update balance: %w", err)
			}
			return id, nil
		}

		if outID, err = post(out); err != nil {
			return fmt.Errorf("transfer out leg: %w", err)
		}
		if inID, err = post(in); err != nil {
			return fmt.Errorf("transfer in leg: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return outID, inID, nil
}

// Reconcile recomputes an account's balance from initial_balance plus
// the signed sum of its journal, discarding any accumulated drift. The
// returned drift is recomputed minus cached.
func (r *SQLiteRepository) Reconcile(ctx context.Context, accountID int64) (driftCents int64, balance core.Money, err error) {
	err = r.transact(ctx, func(q *Queries) error {
		row, err := q.GetAccount(ctx, accountID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("account %d: %w", accountID, core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("get account: %w", err)
		}

		signed, err := q.SumSignedAmounts(ctx, accountID)
		if err != nil {
			return fmt.Errorf("sum signed amounts: %w", err)
		}

		recomputed := row.InitialBalanceCents + signed
		driftCents = recomputed - row.BalanceCents
		balance = core.Money{Cents: recomputed}
		if driftCents == 0 {
			return nil
		}
		if err := q.UpdateAccountBalance(ctx, accountID, recomputed); err != nil {
			return fmt.Errorf("repair balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, core.Money{}, err
	}
	return driftCents, balance, nil
}

// GetTransaction returns a single journal row.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return toCoreTransaction(row)
}

// TransactionFilter selects journal rows in ListTransactions. Zero
// values disable each filter; Limit 0 means unlimited.
type TransactionFilter struct {
	AccountID int64
	StartDate core.Date
	EndDate   core.Date
	Type      core.TransactionType
	Limit     int
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, filter TransactionFilter) ([]core.Transaction, error) {
	start, end := "", ""
	if !filter.StartDate.IsZero() {
		start = filter.StartDate.String()
	}
	if !filter.EndDate.IsZero() {
		end = filter.EndDate.String()
	}
	limit := int64(-1)
	if filter.Limit > 0 {
		limit = int64(filter.Limit)
	}
	rows, err := r.queries.ListTransactions(ctx, ListTransactionsParams{
		AccountID: filter.AccountID,
		StartDate: start,
		EndDate:   end,
		Type:      string(filter.Type),
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	items := make([]core.Transaction, len(rows))
	for i, row := range rows {
		if items[i], err = toCoreTransaction(row); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *SQLiteRepository) ListTransactionCategories(ctx context.Context) ([]core.CategoryAmount, error) {
	rows, err := r.queries.ListTransactionCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transaction categories: %w", err)
	}
	items := make([]core.CategoryAmount, len(rows))
	for i, row := range rows {
		items[i] = core.CategoryAmount{
			Category: row.Category,
			Type:     core.TransactionType(row.Type),
			Amount:   core.Money{Cents: row.TotalCents},
			Count:    row.Count,
		}
	}
	return items, nil
}
