package storage

import "context"

const categoryTypeOrder = `CASE type
	WHEN 'liquid' THEN 1
	WHEN 'investment' THEN 2
	WHEN 'fixed' THEN 3
	ELSE 4
END`

const createCategory = `
INSERT INTO categories (name, type, icon, color, description)
VALUES (?, ?, ?, ?, ?)
RETURNING id, name, type, icon, color, description, created_at
`

type CreateCategoryParams struct {
	Name        string
	Type        string
	Icon        string
	Color       string
	Description string
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRowContext(ctx, createCategory,
		arg.Name, arg.Type, arg.Icon, arg.Color, arg.Description)
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Type, &c.Icon, &c.Color, &c.Description, &c.CreatedAt)
	return c, err
}

const getCategory = `
SELECT id, name, type, icon, color, description, created_at
FROM categories
WHERE id = ?
`

func (q *Queries) GetCategory(ctx context.Context, id int64) (Category, error) {
	row := q.db.QueryRowContext(ctx, getCategory, id)
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Type, &c.Icon, &c.Color, &c.Description, &c.CreatedAt)
	return c, err
}

const listCategories = `
SELECT id, name, type, icon, color, description, created_at
FROM categories
ORDER BY ` + categoryTypeOrder + `, name
`

func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := q.db.QueryContext(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Icon, &c.Color, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const listCategoriesWithStats = `
SELECT
	c.id, c.name, c.type, c.icon, c.color, c.description, c.created_at,
	COUNT(DISTINCT a.id) AS account_count,
	COALESCE(SUM(a.balance_cents), 0) AS total_balance_cents
FROM categories c
LEFT JOIN accounts a ON c.id = a.category_id AND a.is_active = 1
GROUP BY c.id
ORDER BY CASE c.type
	WHEN 'liquid' THEN 1
	WHEN 'investment' THEN 2
	WHEN 'fixed' THEN 3
	ELSE 4
END, c.name
`

func (q *Queries) ListCategoriesWithStats(ctx context.Context) ([]CategoryWithStats, error) {
	rows, err := q.db.QueryContext(ctx, listCategoriesWithStats)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategoryWithStats
	for rows.Next() {
		var c CategoryWithStats
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.Icon, &c.Color, &c.Description,
			&c.CreatedAt, &c.AccountCount, &c.TotalBalanceCents); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

const updateCategory = `
UPDATE categories
SET name = ?, type = ?, icon = ?, color = ?, description = ?
WHERE id = ?
`

type UpdateCategoryParams struct {
	Name        string
	Type        string
	Icon        string
	Color       string
	Description string
	ID          int64
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) error {
	_, err := q.db.ExecContext(ctx, updateCategory,
		arg.Name, arg.Type, arg.Icon, arg.Color, arg.Description, arg.ID)
	return err
}

const deleteCategory = `DELETE FROM categories WHERE id = ?`

func (q *Queries) DeleteCategory(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteCategory, id)
	return err
}

const countAccountsByCategory = `
SELECT COUNT(*) FROM accounts WHERE category_id = ?
`

func (q *Queries) CountAccountsByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countAccountsByCategory, categoryID).Scan(&count)
	return count, err
}
