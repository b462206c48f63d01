package http

import (
	"patrimonio/internal/core"
)

// JSON shapes for the API. Amounts travel as decimal numbers, not
// cents; the conversion happens at this boundary only.

type categoryJSON struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

type categoryStatsJSON struct {
	categoryJSON
	AccountCount int64   `json:"account_count"`
	TotalBalance float64 `json:"total_balance"`
}

type accountJSON struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	CategoryID     int64   `json:"category_id"`
	CategoryName   string  `json:"category_name"`
	CategoryType   string  `json:"category_type"`
	CategoryIcon   string  `json:"category_icon"`
	Balance        float64 `json:"balance"`
	InitialBalance float64 `json:"initial_balance"`
	Currency       string  `json:"currency"`
	Platform       string  `json:"platform"`
	AccountNumber  string  `json:"account_number"`
	Description    string  `json:"description"`
	IsActive       bool    `json:"is_active"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type transactionJSON struct {
	ID           int64   `json:"id"`
	AccountID    int64   `json:"account_id"`
	AccountName  string  `json:"account_name,omitempty"`
	Platform     string  `json:"platform,omitempty"`
	Date         string  `json:"date"`
	Description  string  `json:"description"`
	Type         string  `json:"type"`
	Category     string  `json:"category"`
	Amount       float64 `json:"amount"`
	BalanceAfter float64 `json:"balance_after"`
	Note         string  `json:"note"`
	CreatedAt    string  `json:"created_at"`
}

type summaryJSON struct {
	TotalAssets      float64 `json:"total_assets"`
	TotalLiquid      float64 `json:"total_liquid"`
	TotalInvestment  float64 `json:"total_investment"`
	TotalFixed       float64 `json:"total_fixed"`
	TotalOther       float64 `json:"total_other"`
	AccountCount     int64   `json:"account_count"`
	TransactionCount int64   `json:"transaction_count"`
	LiquidRatio      float64 `json:"liquid_ratio"`
	InvestmentRatio  float64 `json:"investment_ratio"`
	FixedRatio       float64 `json:"fixed_ratio"`
	LastUpdate       string  `json:"last_update"`
}

type trendPointJSON struct {
	Date        string  `json:"date"`
	TotalAssets float64 `json:"total_assets"`
	Liquid      float64 `json:"liquid"`
	Investment  float64 `json:"investment"`
	Fixed       float64 `json:"fixed"`
}

func toCategoryJSON(c core.Category) categoryJSON {
	return categoryJSON{
		ID:          c.ID,
		Name:        c.Name,
		Type:        string(c.Type),
		Icon:        c.Icon,
		Color:       c.Color,
		Description: c.Description,
		CreatedAt:   formatTime(c.CreatedAt),
	}
}

func toAccountJSON(a core.Account) accountJSON {
	return accountJSON{
		ID:             a.ID,
		Name:           a.Name,
		CategoryID:     a.CategoryID,
		CategoryName:   a.CategoryName,
		CategoryType:   string(a.CategoryType),
		CategoryIcon:   a.CategoryIcon,
		Balance:        a.Balance.Float64(),
		InitialBalance: a.InitialBalance.Float64(),
		Currency:       a.Currency,
		Platform:       a.Platform,
		AccountNumber:  a.AccountNumber,
		Description:    a.Description,
		IsActive:       a.IsActive,
		CreatedAt:      formatTime(a.CreatedAt),
		UpdatedAt:      formatTime(a.UpdatedAt),
	}
}

func toAccountListJSON(accounts []core.Account) []accountJSON {
	out := make([]accountJSON, len(accounts))
	for i, a := range accounts {
		out[i] = toAccountJSON(a)
	}
	return out
}

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:           t.ID,
		AccountID:    t.AccountID,
		AccountName:  t.AccountName,
		Platform:     t.Platform,
		Date:         t.Date.String(),
		Description:  t.Description,
		Type:         string(t.Type),
		Category:     t.Category,
		Amount:       t.Amount.Float64(),
		BalanceAfter: t.BalanceAfter.Float64(),
		Note:         t.Note,
		CreatedAt:    formatTime(t.CreatedAt),
	}
}

func toSummaryJSON(s core.AssetSummary) summaryJSON {
	return summaryJSON{
		TotalAssets:      s.TotalAssets.Float64(),
		TotalLiquid:      s.TotalLiquid.Float64(),
		TotalInvestment:  s.TotalInvestment.Float64(),
		TotalFixed:       s.TotalFixed.Float64(),
		TotalOther:       s.TotalOther.Float64(),
		AccountCount:     s.AccountCount,
		TransactionCount: s.TransactionCount,
		LiquidRatio:      s.LiquidRatio(),
		InvestmentRatio:  s.InvestmentRatio(),
		FixedRatio:       s.FixedRatio(),
		LastUpdate:       formatTime(s.LastUpdate),
	}
}
