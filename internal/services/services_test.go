package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patrimonio/internal/core"
	"patrimonio/internal/storage"
)

// Default category ids seeded by the migrations.
const (
	catCash       = 1 // liquid
	catStocks     = 4 // investment
	catRealEstate = 7 // fixed
)

type testEnv struct {
	repo       *storage.SQLiteRepository
	categories *CategoryService
	ledger     *LedgerService
	journal    *JournalService
	snapshots  *SnapshotService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return &testEnv{
		repo:       repo,
		categories: NewCategoryService(repo),
		ledger:     NewLedgerService(repo),
		journal:    NewJournalService(repo, nil),
		snapshots:  NewSnapshotService(repo, nil),
	}
}

func (e *testEnv) createAccount(t *testing.T, name string, categoryID int64, balanceCents int64) int64 {
	t.Helper()
	id, err := e.ledger.CreateAccount(context.Background(), CreateAccountParams{
		Name:       name,
		CategoryID: categoryID,
		Balance:    core.Money{Cents: balanceCents},
		Platform:   "Test Bank",
	})
	require.NoError(t, err)
	return id
}

func (e *testEnv) balance(t *testing.T, accountID int64) int64 {
	t.Helper()
	account, err := e.ledger.Get(context.Background(), accountID)
	require.NoError(t, err)
	return account.Balance.Cents
}

func date(s string) core.Date {
	d, err := core.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestDefaultCategoriesSeeded(t *testing.T) {
	env := newTestEnv(t)

	cats, err := env.categories.List(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 9)

	byName := map[string]core.AssetType{}
	for _, c := range cats {
		byName[c.Name] = c.Type
	}
	assert.Equal(t, core.AssetLiquid, byName["Cash"])
	assert.Equal(t, core.AssetInvestment, byName["Stocks"])
	assert.Equal(t, core.AssetFixed, byName["Real Estate"])
	assert.Equal(t, core.AssetOther, byName["Miscellaneous"])
}

func TestPostAppliesBalanceEffect(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	accountID := env.createAccount(t, "Checking", catCash, 100_000)

	posted, err := env.journal.Post(ctx, core.Transaction{
		AccountID:   accountID,
		Date:        date("2024-01-01"),
		Description: "Salary",
		Type:        core.TypeIncome,
		Category:    "salary",
		Amount:      core.Money{Cents: 50_000},
	})
	require.NoError(t, err)
	assert.NotZero(t, posted.ID)
	assert.Equal(t, int64(150_000), posted.BalanceAfter.Cents)
	assert.Equal(t, int64(150_000), env.balance(t, accountID))

	posted, err = env.journal.Post(ctx, core.Transaction{
		AccountID: accountID,
		Date:      date("2024-01-02"),
		Type:      core.TypeExpense,
		Category:  "food",
		Amount:    core.Money{Cents: 20_000},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(130_000), posted.BalanceAfter.Cents)
	assert.Equal(t, int64(130_000), env.balance(t, accountID))
}

func TestPostValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	accountID := env.createAccount(t, "Checking", catCash, 0)

	tests := []struct {
		name string
		tx   core.Transaction
	}{
		{"zero amount", core.Transaction{AccountID: accountID, Date: date("2024-01-01"), Type: core.TypeIncome}},
		{"negative amount", core.Transaction{AccountID: accountID, Date: date("2024-01-01"), Type: core.TypeIncome, Amount: core.Money{Cents: -100}}},
		{"bad type", core.Transaction{AccountID: accountID, Date: date("2024-01-01"), Type: "refund", Amount: core.Money{Cents: 100}}},
		{"zero date", core.Transaction{AccountID: accountID, Type: core.TypeIncome, Amount: core.Money{Cents: 100}}},
		{"no account", core.Transaction{Date: date("2024-01-01"), Type: core.TypeIncome, Amount: core.Money{Cents: 100}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.journal.Post(ctx, tt.tx)
			assert.ErrorIs(t, err, core.ErrValidation)
		})
	}

	_, err := env.journal.Post(ctx, core.Transaction{
		AccountID: 9999,
		Date:      date("2024-01-01"),
		Type:      core.TypeIncome,
		Amount:    core.Money{Cents: 100},
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, int64(0), env.balance(t, accountID))
}

func TestPostTransferHasNoBalanceEffect(t *testing.T) {
	env := newTestEnv(t)
	accountID := env.createAccount(t, "Checking", catCash, 100_000)

	posted, err := env.journal.Post(context.Background(), core.Transaction{
		AccountID: accountID,
		Date:      date("2024-01-01"),
		Type:      core.TypeTransfer,
		Category:  core.CategoryTransfer,
		Amount:    core.Money{Cents: 30_000},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100_000), posted.BalanceAfter.Cents)
	assert.Equal(t, int64(100_000), env.balance(t, accountID))
}

func TestDeleteReversesAndIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	accountID := env.createAccount(t, "Checking", catCash, 100_000)

	posted, err := env.journal.Post(ctx, core.Transaction{
		AccountID: accountID,
		Date:      date("2024-01-01"),
		Type:      core.TypeExpense,
		Category:  "food",
		Amount:    core.Money{Cents: 25_000},
	})
	require.NoError(t, err)
	require.Equal(t, int64(75_000), env.balance(t, accountID))

	require.NoError(t, env.journal.Delete(ctx, posted.ID))
	assert.Equal(t, int64(100_000), env.balance(t, accountID))

	// Second delete of the same id is a no-op.
	require.NoError(t, env.journal.Delete(ctx, posted.ID))
	assert.Equal(t, int64(100_000), env.balance(t, accountID))

	_, err = env.journal.Get(ctx, posted.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpdateReappliesDelta(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	accountID := env.createAccount(t, "Checking", catCash, 100_000)

	posted, err := env.journal.Post(ctx, core.Transaction{
		AccountID: accountID,
		Date:      date("2024-01-01"),
		Type:      core.TypeExpense,
		Category:  "food",
		Amount:    core.Money{Cents: 10_000},
	})
	require.NoError(t, err)
	require.Equal(t, int64(90_000), env.balance(t, accountID))

	// Expense 100 -> income 50: reverse -100, apply +50.
	err = env.journal.Update(ctx, posted.ID, core.Transaction{
		AccountID: accountID,
		Date:      date("2024-01-01"),
		Type:      core.TypeIncome,
		Category:  "refund",
		Amount:    core.Money{Cents: 5_000},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(105_000), env.balance(t, accountID))

	got, err := env.journal.Get(ctx, posted.ID)
	require.NoError(t, err)
	assert.Equal(t, core.TypeIncome, got.Type)
	assert.Equal(t, int64(5_000), got.Amount.Cents)
}

func TestUpdateWithSameFieldsIsNeutral(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	accountID := env.createAccount(t, "Checking", catCash, 100_000)

	posted, err := env.journal.Post(ctx, core.Transaction{
		AccountID: accountID,
		Date:      date("2024-01-01"),
		Type:      core.TypeExpense,
		Category:  "food",
		Amount:    core.Money{Cents: 10_000},
	})
	require.NoError(t, err)

	err = env.journal.Update(ctx, posted.ID, core.Transaction{
		AccountID: accountID,
		Date:      date("2024-01-01"),
		Type:      core.TypeExpense,
		Category:  "food",
		Amount:    core.Money{Cents: 10_000},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(90_000), env.balance(t, accountID))
}

func TestUpdateMovesAcrossAccounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := env.createAccount(t, "Checking", catCash, 100_000)
	second := env.createAccount(t, "Savings", catCash, 50_000)

	posted, err := env.journal.Post(ctx, core.Transaction{
		AccountID: first,
		Date:      date("2024-01-01"),
		Type:      core.TypeExpense,
		Category:  "food",
		Amount:    core.Money{Cents: 10_000},
	})
	require.NoError(t, err)
	require.Equal(t, int64(90_000), env.balance(t, first))

	err = env.journal.Update(ctx, posted.ID, core.Transaction{
		AccountID: second,
		Date:      date("2024-01-01"),
		Type:      core.TypeExpense,
		Category:  "food",
		Amount:    core.Money{Cents: 10_000},
	})
	require.NoError(t, err)

	// The old account is made whole, the new one carries the effect.
	assert.Equal(t, int64(100_000), env.balance(t, first))
	assert.Equal(t, int64(40_000), env.balance(t, second))
}

func TestUpdateMissingTransactionIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	accountID := env.createAccount(t, "Checking", catCash, 100_000)

	err := env.journal.Update(context.Background(), 9999, core.Transaction{
		AccountID: accountID,
		Date:      date("2024-01-01"),
		Type:      core.TypeIncome,
		Amount:    core.Money{Cents: 100},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100_000), env.balance(t, accountID))
}

func TestTransferMovesBetweenAccounts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	from := env.createAccount(t, "Checking", catCash, 100_000)
	to := env.createAccount(t, "Brokerage", catStocks, 20_000)

	outID, inID, err := env.journal.Transfer(ctx, from, to, core.Money{Cents: 30_000}, date("2024-02-01"), "Monthly investing")
	require.NoError(t, err)
	assert.NotZero(t, outID)
	assert.NotZero(t, inID)
	assert.NotEqual(t, outID, inID)

	assert.Equal(t, int64(70_000), env.balance(t, from))
	assert.Equal(t, int64(50_000), env.balance(t, to))

	out, err := env.journal.Get(ctx, outID)
	require.NoError(t, err)
	assert.Equal(t, core.TypeExpense, out.Type)
	assert.Equal(t, core.CategoryTransfer, out.Category)

	in, err := env.journal.Get(ctx, inID)
	require.NoError(t, err)
	assert.Equal(t, core.TypeIncome, in.Type)
}

func TestTransferRollsBackOnBadDestination(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	from := env.createAccount(t, "Checking", catCash, 100_000)

	_, _, err := env.journal.Transfer(ctx, from, 9999, core.Money{Cents: 30_000}, date("2024-02-01"), "")
	require.ErrorIs(t, err, core.ErrNotFound)

	// The out leg did not survive the rollback.
	assert.Equal(t, int64(100_000), env.balance(t, from))
	txs, err := env.journal.List(ctx, storage.TransactionFilter{AccountID: from})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestTransferValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	accountID := env.createAccount(t, "Checking", catCash, 100_000)

	_, _, err := env.journal.Transfer(ctx, accountID, accountID, core.Money{Cents: 100}, date("2024-02-01"), "")
	assert.ErrorIs(t, err, core.ErrValidation)

	_, _, err = env.journal.Transfer(ctx, accountID, 0, core.Money{Cents: 100}, date("2024-02-01"), "")
	assert.ErrorIs(t, err, core.ErrValidation)

	_, _, err = env.journal.Transfer(ctx, accountID, accountID+1, core.Money{}, date("2024-02-01"), "")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestBatchImportPartialSuccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	accountID := env.createAccount(t, "Checking", catCash, 100_000)

	records := []ImportRecord{
		{AccountID: accountID, Date: "2024-01-01", Type: "income", Category: "salary", Amount: 500},
		{AccountID: accountID, Date: "2024-01-02", Type: "expense", Category: "food", Amount: 50},
		{AccountID: accountID, Date: "not-a-date", Type: "income", Category: "salary", Amount: 10},
		{AccountID: accountID, Date: "2024-01-03", Type: "expense", Category: "transport", Amount: 20},
		{AccountID: accountID, Date: "2024-01-04", Type: "bogus", Category: "food", Amount: 10},
		{AccountID: accountID, Date: "2024-01-05", Type: "income", Category: "bonus", Amount: 100},
		{AccountID: accountID, Date: "2024-01-06", Type: "expense", Category: "rent", Amount: 30},
	}

	result, err := env.journal.BatchImport(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 5, result.SuccessCount)
	assert.Equal(t, 2, result.ErrorCount)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 2, result.Errors[0].Index)
	assert.Equal(t, 4, result.Errors[1].Index)
	assert.Equal(t, "not-a-date", result.Errors[0].Record.Date)

	// 1000 + 500 - 50 - 20 + 100 - 30
	assert.Equal(t, int64(150_000), env.balance(t, accountID))
}

func TestReconcileRepairsDrift(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	accountID := env.createAccount(t, "Checking", catCash, 100_000)

	_, err := env.journal.Post(ctx, core.Transaction{
		AccountID: accountID,
		Date:      date("2024-01-01"),
		Type:      core.TypeIncome,
		Category:  "salary",
		Amount:    core.Money{Cents: 50_000},
	})
	require.NoError(t, err)

	// Introduce drift through the out-of-band escape hatch.
	require.NoError(t, env.ledger.SetBalance(ctx, accountID, core.Money{Cents: 1}))

	balance, err := env.journal.Reconcile(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(150_000), balance.Cents)
	assert.Equal(t, int64(150_000), env.balance(t, accountID))

	// A consistent account reconciles to itself.
	balance, err = env.journal.Reconcile(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(150_000), balance.Cents)
}

func TestListTransactionsFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := env.createAccount(t, "Checking", catCash, 0)
	second := env.createAccount(t, "Savings", catCash, 0)

	post := func(accountID int64, day string, txType core.TransactionType, cents int64) {
		t.Helper()
		_, err := env.journal.Post(ctx, core.Transaction{
			AccountID: accountID,
			Date:      date(day),
			Type:      txType,
			Category:  "misc",
			Amount:    core.Money{Cents: cents},
		})
		require.NoError(t, err)
	}
	post(first, "2024-01-01", core.TypeIncome, 100)
	post(first, "2024-01-05", core.TypeExpense, 50)
	post(second, "2024-01-03", core.TypeIncome, 200)

	txs, err := env.journal.List(ctx, storage.TransactionFilter{AccountID: first})
	require.NoError(t, err)
	assert.Len(t, txs, 2)
	// Newest first.
	assert.Equal(t, "2024-01-05", txs[0].Date.String())

	txs, err = env.journal.List(ctx, storage.TransactionFilter{Type: core.TypeIncome})
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	txs, err = env.journal.List(ctx, storage.TransactionFilter{
		StartDate: date("2024-01-02"),
		EndDate:   date("2024-01-04"),
	})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, second, txs[0].AccountID)
	assert.Equal(t, "Savings", txs[0].AccountName)

	txs, err = env.journal.List(ctx, storage.TransactionFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}

func TestAccountLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger.CreateAccount(ctx, CreateAccountParams{Name: "No Category"})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = env.ledger.CreateAccount(ctx, CreateAccountParams{Name: "Ghost", CategoryID: 999})
	assert.ErrorIs(t, err, core.ErrValidation)

	id := env.createAccount(t, "Checking", catCash, 50_000)
	account, err := env.ledger.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, account.IsActive)
	assert.Equal(t, core.DefaultCurrency, account.Currency)
	assert.Equal(t, int64(50_000), account.InitialBalance.Cents)
	assert.Equal(t, "Cash", account.CategoryName)
	assert.Equal(t, core.AssetLiquid, account.CategoryType)

	require.NoError(t, env.ledger.Deactivate(ctx, id))
	account, err = env.ledger.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, account.IsActive)

	active := true
	accounts, err := env.ledger.List(ctx, storage.AccountFilter{Active: &active})
	require.NoError(t, err)
	assert.Empty(t, accounts)

	require.NoError(t, env.ledger.Activate(ctx, id))
	accounts, err = env.ledger.List(ctx, storage.AccountFilter{Active: &active})
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestCategoryDeleteBlockedWhileReferenced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	id, err := env.categories.Create(ctx, core.Category{Name: "Crypto", Type: core.AssetInvestment})
	require.NoError(t, err)

	env.createAccount(t, "Cold Wallet", id, 10_000)
	err = env.categories.Delete(ctx, id)
	assert.ErrorIs(t, err, core.ErrCategoryInUse)

	// Deactivated accounts still block deletion.
	accounts, err := env.ledger.List(ctx, storage.AccountFilter{CategoryID: id})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.NoError(t, env.ledger.Deactivate(ctx, accounts[0].ID))
	err = env.categories.Delete(ctx, id)
	assert.ErrorIs(t, err, core.ErrCategoryInUse)
}

func TestCategoryStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createAccount(t, "Wallet", catCash, 10_000)
	env.createAccount(t, "Checking", catCash, 20_000)

	stats, err := env.categories.ListWithStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 9)

	var cash core.CategoryStats
	for _, s := range stats {
		if s.ID == catCash {
			cash = s
		}
	}
	assert.Equal(t, int64(2), cash.AccountCount)
	assert.Equal(t, int64(30_000), cash.TotalBalance.Cents)
}

func TestSnapshotZeroGuard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, created, err := env.snapshots.CreateSnapshot(ctx)
	require.NoError(t, err)
	assert.False(t, created)

	env.createAccount(t, "Checking", catCash, 100_000)
	id, created, err := env.snapshots.CreateSnapshot(ctx)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotZero(t, id)
}

func TestSnapshotAggregatesByType(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createAccount(t, "Checking", catCash, 100_000)
	env.createAccount(t, "Brokerage", catStocks, 200_000)
	env.createAccount(t, "Apartment", catRealEstate, 700_000)

	// Inactive accounts are excluded from aggregates.
	hidden := env.createAccount(t, "Closed", catCash, 999_999)
	require.NoError(t, env.ledger.Deactivate(ctx, hidden))

	_, created, err := env.snapshots.CreateSnapshot(ctx)
	require.NoError(t, err)
	require.True(t, created)

	snaps, err := env.repo.ListSnapshotsSince(ctx, core.Today().AddDays(-1))
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, int64(1_000_000), snaps[0].TotalAssets.Cents)
	assert.Equal(t, int64(100_000), snaps[0].TotalLiquid.Cents)
	assert.Equal(t, int64(200_000), snaps[0].TotalInvestment.Cents)
	assert.Equal(t, int64(700_000), snaps[0].TotalFixed.Cents)
	assert.Contains(t, snaps[0].Details, "Brokerage")
	assert.NotContains(t, snaps[0].Details, "Closed")
}

func TestTrendFallsBackToFlatSeries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createAccount(t, "Checking", catCash, 100_000)

	// One snapshot over 30 days is below the density threshold (30/7 = 4).
	_, created, err := env.snapshots.CreateSnapshot(ctx)
	require.NoError(t, err)
	require.True(t, created)

	points, err := env.snapshots.Trend(ctx, 30)
	require.NoError(t, err)
	require.Len(t, points, 30)
	for _, p := range points {
		assert.Equal(t, int64(100_000), p.TotalAssets.Cents)
	}
	assert.Equal(t, core.Today().String(), points[29].Date.String())
	assert.Equal(t, core.Today().AddDays(-29).String(), points[0].Date.String())
}

func TestTrendUsesSnapshotsWhenDense(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createAccount(t, "Checking", catCash, 100_000)

	// days=7 needs a single snapshot to qualify.
	_, created, err := env.snapshots.CreateSnapshot(ctx)
	require.NoError(t, err)
	require.True(t, created)

	points, err := env.snapshots.Trend(ctx, 7)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, int64(100_000), points[0].TotalAssets.Cents)
}

func TestIncomeExpenseSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	accountID := env.createAccount(t, "Checking", catCash, 0)

	post := func(day string, txType core.TransactionType, category string, cents int64) {
		t.Helper()
		_, err := env.journal.Post(ctx, core.Transaction{
			AccountID: accountID,
			Date:      date(day),
			Type:      txType,
			Category:  category,
			Amount:    core.Money{Cents: cents},
		})
		require.NoError(t, err)
	}
	post("2024-03-01", core.TypeIncome, "salary", 500_000)
	post("2024-03-05", core.TypeExpense, "rent", 150_000)
	post("2024-03-05", core.TypeExpense, "food", 10_000)
	post("2024-04-01", core.TypeExpense, "food", 99_999) // outside the window

	summary, err := env.snapshots.IncomeExpense(ctx, date("2024-03-01"), date("2024-03-31"))
	require.NoError(t, err)
	assert.Equal(t, int64(500_000), summary.Income.Cents)
	assert.Equal(t, int64(1), summary.IncomeCount)
	assert.Equal(t, int64(160_000), summary.Expense.Cents)
	assert.Equal(t, int64(2), summary.ExpenseCount)
	require.NotEmpty(t, summary.ByCategory)
	require.NotEmpty(t, summary.Daily)
}

func TestConfiguredDefaultCurrency(t *testing.T) {
	env := newTestEnv(t)
	env.ledger.DefaultCurrency = "EUR"

	id := env.createAccount(t, "Checking", catCash, 1_000)
	account, err := env.ledger.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "EUR", account.Currency)
}

func TestSummaryReportsLastUpdate(t *testing.T) {
	env := newTestEnv(t)
	env.createAccount(t, "Checking", catCash, 50_000)

	summary, err := env.snapshots.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(50_000), summary.TotalAssets.Cents)
	assert.Equal(t, int64(1), summary.AccountCount)
	assert.False(t, summary.LastUpdate.IsZero())
}

func TestRatiosFromLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cash := env.createAccount(t, "Checking", catCash, 600_000)
	env.createAccount(t, "Brokerage", catStocks, 300_000)
	env.createAccount(t, "Garage", catRealEstate, 100_000)

	_, err := env.journal.Post(ctx, core.Transaction{
		AccountID: cash,
		Date:      core.Today(),
		Type:      core.TypeExpense,
		Category:  "rent",
		Amount:    core.Money{Cents: 60_000},
	})
	require.NoError(t, err)

	ratios, err := env.snapshots.Ratios(ctx)
	require.NoError(t, err)
	// 540k liquid of 940k total after the expense.
	assert.InDelta(t, 57.45, ratios.LiquidRatio, 0.01)
	assert.InDelta(t, 31.91, ratios.InvestmentRatio, 0.01)
	assert.InDelta(t, 10.64, ratios.FixedRatio, 0.01)
	assert.InDelta(t, 9.0, ratios.EmergencyFundMonths, 0.01)
	assert.Zero(t, ratios.SavingsRate) // no income in the window
}

func TestEndToEndLedgerScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	accountID := env.createAccount(t, "Main", catCash, 100_000)

	income, err := env.journal.Post(ctx, core.Transaction{
		AccountID: accountID,
		Date:      date("2024-01-01"),
		Type:      core.TypeIncome,
		Category:  "salary",
		Amount:    core.Money{Cents: 50_000},
	})
	require.NoError(t, err)
	require.Equal(t, int64(150_000), env.balance(t, accountID))

	_, err = env.journal.Post(ctx, core.Transaction{
		AccountID: accountID,
		Date:      date("2024-01-02"),
		Type:      core.TypeExpense,
		Category:  "rent",
		Amount:    core.Money{Cents: 20_000},
	})
	require.NoError(t, err)
	require.Equal(t, int64(130_000), env.balance(t, accountID))

	require.NoError(t, env.journal.Delete(ctx, income.ID))
	assert.Equal(t, int64(80_000), env.balance(t, accountID))

	txs, err := env.journal.List(ctx, storage.TransactionFilter{AccountID: accountID})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, core.TypeExpense, txs[0].Type)

	balance, err := env.journal.Reconcile(ctx, accountID)
	require.NoError(t, err)
	assert.Equal(t, int64(80_000), balance.Cents)
}
