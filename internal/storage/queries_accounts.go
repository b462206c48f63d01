package storage

import "context"

const accountColumns = `
	a.id, a.name, a.category_id, a.balance_cents, a.initial_balance_cents,
	a.currency, a.platform, a.account_number, a.description, a.is_active,
	a.created_at, a.updated_at,
	c.name AS category_name, c.type AS category_type, c.icon AS category_icon`

func scanAccount(s interface{ Scan(...interface{}) error }) (Account, error) {
	var a Account
	err := s.Scan(&a.ID, &a.Name, &a.CategoryID, &a.BalanceCents, &a.InitialBalanceCents,
		&a.Currency, &a.Platform, &a.AccountNumber, &a.Description, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt,
		&a.CategoryName, &a.CategoryType, &a.CategoryIcon)
	return a, err
}

const createAccount = `
INSERT INTO accounts
	(name, category_id, balance_cents, initial_balance_cents, currency,
	 platform, account_number, description)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id
`

type CreateAccountParams struct {
	Name                string
	CategoryID          int64
	BalanceCents        int64
	InitialBalanceCents int64
	Currency            string
	Platform            string
	AccountNumber       string
	Description         string
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createAccount,
		arg.Name, arg.CategoryID, arg.BalanceCents, arg.InitialBalanceCents,
		arg.Currency, arg.Platform, arg.AccountNumber, arg.Description).Scan(&id)
	return id, err
}

const getAccount = `
SELECT` + accountColumns + `
FROM accounts a
JOIN categories c ON a.category_id = c.id
WHERE a.id = ?
`

func (q *Queries) GetAccount(ctx context.Context, id int64) (Account, error) {
	return scanAccount(q.db.QueryRowContext(ctx, getAccount, id))
}

// listAccounts uses sentinel parameter values to make every filter
// optional: 0 for "any category", '' for "any platform", -1 for
// "any activity state".
const listAccounts = `
SELECT` + accountColumns + `
FROM accounts a
JOIN categories c ON a.category_id = c.id
WHERE (?1 = 0 OR a.category_id = ?1)
  AND (?2 = '' OR a.platform = ?2)
  AND (?3 < 0 OR a.is_active = ?3)
ORDER BY c.type, a.balance_cents DESC
`

type ListAccountsParams struct {
	CategoryID int64
	Platform   string
	IsActive   int64 // 1, 0, or -1 for both
}

func (q *Queries) ListAccounts(ctx context.Context, arg ListAccountsParams) ([]Account, error) {
	rows, err := q.db.QueryContext(ctx, listAccounts, arg.CategoryID, arg.Platform, arg.IsActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

const listActiveAccountsByType = `
SELECT` + accountColumns + `
FROM accounts a
JOIN categories c ON a.category_id = c.id
WHERE c.type = ? AND a.is_active = 1
ORDER BY a.balance_cents DESC
`

func (q *Queries) ListActiveAccountsByType(ctx context.Context, assetType string) ([]Account, error) {
	rows, err := q.db.QueryContext(ctx, listActiveAccountsByType, assetType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

const updateAccount = `
UPDATE accounts
SET name = ?, category_id = ?, platform = ?, account_number = ?,
    description = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

type UpdateAccountParams struct {
	Name          string
	CategoryID    int64
	Platform      string
	AccountNumber string
	Description   string
	ID            int64
}

func (q *Queries) UpdateAccount(ctx context.Context, arg UpdateAccountParams) error {
	_, err := q.db.ExecContext(ctx, updateAccount,
		arg.Name, arg.CategoryID, arg.Platform, arg.AccountNumber, arg.Description, arg.ID)
	return err
}

const updateAccountBalance = `
UPDATE accounts
SET balance_cents = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

func (q *Queries) UpdateAccountBalance(ctx context.Context, id, balanceCents int64) error {
	_, err := q.db.ExecContext(ctx, updateAccountBalance, balanceCents, id)
	return err
}

const adjustAccountBalance = `
UPDATE accounts
SET balance_cents = balance_cents + ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

func (q *Queries) AdjustAccountBalance(ctx context.Context, id, deltaCents int64) error {
	_, err := q.db.ExecContext(ctx, adjustAccountBalance, deltaCents, id)
	return err
}

const setAccountActive = `
UPDATE accounts
SET is_active = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
`

func (q *Queries) SetAccountActive(ctx context.Context, id int64, active bool) error {
	v := int64(0)
	if active {
		v = 1
	}
	_, err := q.db.ExecContext(ctx, setAccountActive, v, id)
	return err
}

const getAccountBalance = `
SELECT balance_cents FROM accounts WHERE id = ?
`

func (q *Queries) GetAccountBalance(ctx context.Context, id int64) (int64, error) {
	var cents int64
	err := q.db.QueryRowContext(ctx, getAccountBalance, id).Scan(&cents)
	return cents, err
}

// sumBalancesByType left-joins from categories so asset types with no
// active accounts still contribute a zero row.
const sumBalancesByType = `
SELECT
	c.type,
	COALESCE(SUM(a.balance_cents), 0) AS total_cents,
	COUNT(a.id) AS count
FROM categories c
LEFT JOIN accounts a ON c.id = a.category_id AND a.is_active = 1
GROUP BY c.type
`

func (q *Queries) SumBalancesByType(ctx context.Context) ([]TypeTotal, error) {
	rows, err := q.db.QueryContext(ctx, sumBalancesByType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TypeTotal
	for rows.Next() {
		var t TypeTotal
		if err := rows.Scan(&t.Type, &t.TotalCents, &t.Count); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const sumBalancesByCategory = `
SELECT
	c.name, c.type, c.icon, c.color,
	SUM(a.balance_cents) AS total_cents,
	COUNT(a.id) AS count
FROM accounts a
JOIN categories c ON a.category_id = c.id
WHERE a.is_active = 1
GROUP BY c.id
ORDER BY total_cents DESC
`

func (q *Queries) SumBalancesByCategory(ctx context.Context) ([]CategoryTotal, error) {
	rows, err := q.db.QueryContext(ctx, sumBalancesByCategory)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategoryTotal
	for rows.Next() {
		var t CategoryTotal
		if err := rows.Scan(&t.Name, &t.Type, &t.Icon, &t.Color, &t.TotalCents, &t.Count); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const sumBalancesByPlatform = `
SELECT
	CASE WHEN platform = '' THEN 'unassigned' ELSE platform END AS platform,
	SUM(balance_cents) AS total_cents,
	COUNT(*) AS count
FROM accounts
WHERE is_active = 1
GROUP BY platform
ORDER BY total_cents DESC
`

func (q *Queries) SumBalancesByPlatform(ctx context.Context) ([]PlatformTotal, error) {
	rows, err := q.db.QueryContext(ctx, sumBalancesByPlatform)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PlatformTotal
	for rows.Next() {
		var t PlatformTotal
		if err := rows.Scan(&t.Platform, &t.TotalCents, &t.Count); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const getLedgerCounts = `
SELECT
	(SELECT COUNT(*) FROM accounts WHERE is_active = 1) AS account_count,
	(SELECT COUNT(*) FROM transactions) AS transaction_count,
	(SELECT MAX(updated_at) FROM accounts) AS last_update
`

func (q *Queries) GetLedgerCounts(ctx context.Context) (LedgerCounts, error) {
	var c LedgerCounts
	err := q.db.QueryRowContext(ctx, getLedgerCounts).Scan(
		&c.AccountCount, &c.TransactionCount, &c.LastUpdate)
	return c, err
}
