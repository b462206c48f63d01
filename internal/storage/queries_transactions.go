package storage

import "context"

const createTransaction = `
INSERT INTO transactions
	(account_id, date, description, type, category, amount_cents, balance_after_cents, note)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id
`

type CreateTransactionParams struct {
	AccountID         int64
	Date              string
	Description       string
	Type              string
	Category          string
	AmountCents       int64
	BalanceAfterCents int64
	Note              string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createTransaction,
		arg.AccountID, arg.Date, arg.Description, arg.Type, arg.Category,
		arg.AmountCents, arg.BalanceAfterCents, arg.Note).Scan(&id)
	return id, err
}

const getTransaction = `
SELECT
	t.id, t.account_id, t.date, t.description, t.type, t.category,
	t.amount_cents, t.balance_after_cents, t.note, t.created_at,
	a.name AS account_name, a.platform
FROM transactions t
JOIN accounts a ON t.account_id = a.id
WHERE t.id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id)
	var t Transaction
	err := row.Scan(&t.ID, &t.AccountID, &t.Date, &t.Description, &t.Type, &t.Category,
		&t.AmountCents, &t.BalanceAfterCents, &t.Note, &t.CreatedAt,
		&t.AccountName, &t.Platform)
	return t, err
}

// listTransactions orders by date descending with id descending as a
// stable tie-break, so same-day entries come back most-recent first.
// Sentinel values disable filters; LIMIT -1 means no limit in SQLite.
const listTransactions = `
SELECT
	t.id, t.account_id, t.date, t.description, t.type, t.category,
	t.amount_cents, t.balance_after_cents, t.note, t.created_at,
	a.name AS account_name, a.platform
FROM transactions t
JOIN accounts a ON t.account_id = a.id
WHERE (?1 = 0 OR t.account_id = ?1)
  AND (?2 = '' OR t.date >= ?2)
  AND (?3 = '' OR t.date <= ?3)
  AND (?4 = '' OR t.type = ?4)
ORDER BY t.date DESC, t.id DESC
LIMIT ?5
`

type ListTransactionsParams struct {
	AccountID int64
	StartDate string
	EndDate   string
	Type      string
	Limit     int64 // -1 for unlimited
}

func (q *Queries) ListTransactions(ctx context.Context, arg ListTransactionsParams) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions,
		arg.AccountID, arg.StartDate, arg.EndDate, arg.Type, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Date, &t.Description, &t.Type, &t.Category,
			&t.AmountCents, &t.BalanceAfterCents, &t.Note, &t.CreatedAt,
			&t.AccountName, &t.Platform); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const updateTransaction = `
UPDATE transactions
SET account_id = ?, date = ?, description = ?, type = ?,
    category = ?, amount_cents = ?, note = ?
WHERE id = ?
`

type UpdateTransactionParams struct {
	AccountID   int64
	Date        string
	Description string
	Type        string
	Category    string
	AmountCents int64
	Note        string
	ID          int64
}

func (q *Queries) UpdateTransaction(ctx context.Context, arg UpdateTransactionParams) error {
	_, err := q.db.ExecContext(ctx, updateTransaction,
		arg.AccountID, arg.Date, arg.Description, arg.Type,
		arg.Category, arg.AmountCents, arg.Note, arg.ID)
	return err
}

const deleteTransaction = `DELETE FROM transactions WHERE id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteTransaction, id)
	return err
}

// sumSignedAmounts is the journal-side truth for one account's balance:
// income adds, expense subtracts, transfers are neutral.
const sumSignedAmounts = `
SELECT COALESCE(SUM(CASE type
	WHEN 'income' THEN amount_cents
	WHEN 'expense' THEN -amount_cents
	ELSE 0
END), 0)
FROM transactions
WHERE account_id = ?
`

func (q *Queries) SumSignedAmounts(ctx context.Context, accountID int64) (int64, error) {
	var cents int64
	err := q.db.QueryRowContext(ctx, sumSignedAmounts, accountID).Scan(&cents)
	return cents, err
}

const listTransactionCategories = `
SELECT category, type, SUM(amount_cents) AS total_cents, COUNT(*) AS count
FROM transactions
WHERE category != ''
GROUP BY category, type
ORDER BY count DESC
`

func (q *Queries) ListTransactionCategories(ctx context.Context) ([]TxCategoryAmount, error) {
	rows, err := q.db.QueryContext(ctx, listTransactionCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TxCategoryAmount
	for rows.Next() {
		var t TxCategoryAmount
		if err := rows.Scan(&t.Category, &t.Type, &t.TotalCents, &t.Count); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const sumAmountsByType = `
SELECT type, SUM(amount_cents) AS total_cents, COUNT(*) AS count
FROM transactions
WHERE date BETWEEN ?1 AND ?2
GROUP BY type
`

func (q *Queries) SumAmountsByType(ctx context.Context, startDate, endDate string) ([]TypeAmount, error) {
	rows, err := q.db.QueryContext(ctx, sumAmountsByType, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TypeAmount
	for rows.Next() {
		var t TypeAmount
		if err := rows.Scan(&t.Type, &t.TotalCents, &t.Count); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const sumAmountsByDay = `
SELECT date, type, SUM(amount_cents) AS total_cents
FROM transactions
WHERE date BETWEEN ?1 AND ?2
GROUP BY date, type
ORDER BY date
`

func (q *Queries) SumAmountsByDay(ctx context.Context, startDate, endDate string) ([]DailyAmount, error) {
	rows, err := q.db.QueryContext(ctx, sumAmountsByDay, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DailyAmount
	for rows.Next() {
		var d DailyAmount
		if err := rows.Scan(&d.Date, &d.Type, &d.TotalCents); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

const sumAmountsByCategory = `
SELECT category, type, SUM(amount_cents) AS total_cents, COUNT(*) AS count
FROM transactions
WHERE date BETWEEN ?1 AND ?2 AND category != ''
GROUP BY category, type
ORDER BY total_cents DESC
`

func (q *Queries) SumAmountsByCategory(ctx context.Context, startDate, endDate string) ([]TxCategoryAmount, error) {
	rows, err := q.db.QueryContext(ctx, sumAmountsByCategory, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TxCategoryAmount
	for rows.Next() {
		var t TxCategoryAmount
		if err := rows.Scan(&t.Category, &t.Type, &t.TotalCents, &t.Count); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const sumAmountsByMonth = `
SELECT strftime('%Y-%m', date) AS month, type,
	SUM(amount_cents) AS total_cents, COUNT(*) AS count
FROM transactions
WHERE date >= ?
GROUP BY strftime('%Y-%m', date), type
ORDER BY month DESC
`

func (q *Queries) SumAmountsByMonth(ctx context.Context, sinceDate string) ([]MonthlyAmount, error) {
	rows, err := q.db.QueryContext(ctx, sumAmountsByMonth, sinceDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MonthlyAmount
	for rows.Next() {
		var m MonthlyAmount
		if err := rows.Scan(&m.Month, &m.Type, &m.TotalCents, &m.Count); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
