package main

import (
	"context"
	"log/slog"
	"math/rand"
	"os"

	"github.com/joho/godotenv"

	"patrimonio/internal/config"
	"patrimonio/internal/core"
	applog "patrimonio/internal/log"
	"patrimonio/internal/services"
	"patrimonio/internal/storage"
)

// Demo data generator. Creates a handful of accounts and a month of
// randomized transactions, then takes an initial snapshot. Safe to run
// repeatedly: an already-populated database is left alone.
func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.ComponentApp, slog.LevelInfo)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()
	ledger := services.NewLedgerService(repo)
	journal := services.NewJournalService(repo, nil)
	snapshots := services.NewSnapshotService(repo, nil)
	categories := services.NewCategoryService(repo)

	existing, err := ledger.List(ctx, storage.AccountFilter{})
	if err != nil {
		logger.Error("Failed to list accounts", "error", err)
		os.Exit(1)
	}
	if len(existing) > 0 {
		logger.Info("Database already has accounts, nothing to seed", "accounts", len(existing))
		return
	}

	cats, err := categories.List(ctx)
	if err != nil {
		logger.Error("Failed to list categories", "error", err)
		os.Exit(1)
	}
	categoryByName := make(map[string]int64, len(cats))
	for _, c := range cats {
		categoryByName[c.Name] = c.ID
	}

	seedAccounts := []struct {
		params services.CreateAccountParams
		trades bool
	}{
		{services.CreateAccountParams{
			Name:          "ICBC Savings",
			CategoryID:    categoryByName["Bank Deposit"],
			Balance:       core.Money{Cents: 5_000_000},
			Platform:      "ICBC",
			AccountNumber: "1234",
			Description:   "Primary savings account",
		}, true},
		{services.CreateAccountParams{
			Name:        "Alipay Balance",
			CategoryID:  categoryByName["E-Wallet"],
			Balance:     core.Money{Cents: 850_000},
			Platform:    "Alipay",
			Description: "Daily spending account",
		}, true},
		{services.CreateAccountParams{
			Name:          "Brokerage Account",
			CategoryID:    categoryByName["Stocks"],
			Balance:       core.Money{Cents: 12_000_000},
			Platform:      "Huatai Securities",
			AccountNumber: "5678",
			Description:   "Stock investments",
		}, false},
		{services.CreateAccountParams{
			Name:        "Fund Portfolio",
			CategoryID:  categoryByName["Funds"],
			Balance:     core.Money{Cents: 3_000_000},
			Platform:    "Tiantian Fund",
			Description: "Monthly fund contributions",
		}, false},
	}

	expenseCategories := map[string][]string{
		"dining":    {"Lunch", "Dinner", "Takeout", "Coffee"},
		"shopping":  {"Groceries", "Online order", "Household items", "Clothes"},
		"transport": {"Metro", "Taxi", "Fuel", "Parking"},
		"utilities": {"Electricity bill", "Water bill", "Phone plan", "Internet"},
		"leisure":   {"Cinema", "Gym", "Games"},
	}
	expenseNames := make([]string, 0, len(expenseCategories))
	for name := range expenseCategories {
		expenseNames = append(expenseNames, name)
	}

	transactionCount := 0
	for _, seed := range seedAccounts {
		id, err := ledger.CreateAccount(ctx, seed.params)
		if err != nil {
			logger.Error("Failed to create account", "name", seed.params.Name, "error", err)
			os.Exit(1)
		}
		logger.Info("Account created", "account_id", id, "name", seed.params.Name)

		if !seed.trades {
			continue
		}

		for daysAgo := 30; daysAgo > 0; daysAgo-- {
			if rand.Float64() > 0.4 {
				continue
			}
			day := core.Today().AddDays(-daysAgo)

			if daysAgo == 29 && seed.params.Name == "ICBC Savings" {
				if _, err := journal.Post(ctx, core.Transaction{
					AccountID:   id,
					Date:        day,
					Description: "Monthly salary",
					Type:        core.TypeIncome,
					Category:    "salary",
					Amount:      core.Money{Cents: 1_500_000},
				}); err != nil {
					logger.Error("Failed to post salary", "error", err)
					os.Exit(1)
				}
				transactionCount++
			}

			category := expenseNames[rand.Intn(len(expenseNames))]
			descriptions := expenseCategories[category]
			if _, err := journal.Post(ctx, core.Transaction{
				AccountID:   id,
				Date:        day,
				Description: descriptions[rand.Intn(len(descriptions))],
				Type:        core.TypeExpense,
				Category:    category,
				Amount:      core.Money{Cents: int64(2_000 + rand.Intn(48_000))},
			}); err != nil {
				logger.Error("Failed to post expense", "error", err)
				os.Exit(1)
			}
			transactionCount++
		}
	}

	snapshotID, created, err := snapshots.CreateSnapshot(ctx)
	if err != nil {
		logger.Error("Failed to create snapshot", "error", err)
		os.Exit(1)
	}

	logger.Info("Seed complete",
		"accounts", len(seedAccounts),
		"transactions", transactionCount,
		"snapshot_created", created,
		"snapshot_id", snapshotID)
}
