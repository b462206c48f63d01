package core

import "time"

// EmergencyFundMonthsCap bounds the emergency-fund ratio so a zero
// monthly expense never sends an unbounded value to a client.
const EmergencyFundMonthsCap = 999

type (
	// AssetSummary aggregates current balances across active accounts.
	AssetSummary struct {
		TotalAssets      Money
		TotalLiquid      Money
		TotalInvestment  Money
		TotalFixed       Money
		TotalOther       Money
		AccountCount     int64
		TransactionCount int64
		LastUpdate       time.Time
	}

	// TypeDistribution is the per-asset-type slice of the distribution.
	TypeDistribution struct {
		Type  AssetType
		Total Money
		Count int64
	}

	// CategoryDistribution is the per-category slice of the distribution.
	CategoryDistribution struct {
		Name  string
		Type  AssetType
		Icon  string
		Color string
		Total Money
		Count int64
	}

	// PlatformDistribution is the per-platform slice of the distribution.
	PlatformDistribution struct {
		Platform string
		Total    Money
		Count    int64
	}

	Distribution struct {
		ByType     []TypeDistribution
		ByCategory []CategoryDistribution
		ByPlatform []PlatformDistribution
	}

	// IncomeExpenseSummary aggregates postings over a date window.
	IncomeExpenseSummary struct {
		Start        Date
		End          Date
		Income       Money
		IncomeCount  int64
		Expense      Money
		ExpenseCount int64
		Daily        []DailyAmount
		ByCategory   []CategoryAmount
	}

	DailyAmount struct {
		Date   Date
		Type   TransactionType
		Amount Money
	}

	CategoryAmount struct {
		Category string
		Type     TransactionType
		Amount   Money
		Count    int64
	}

	// CategoryStats pairs a category with its active-account usage.
	CategoryStats struct {
		Category
		AccountCount int64
		TotalBalance Money
	}

	// MonthlyStat is one month of income/expense aggregation.
	MonthlyStat struct {
		Month   string // YYYY-MM
		Income  Money
		Expense Money
		Net     Money
		Count   int64
	}

	// Ratios are dashboard indicators derived from current aggregates
	// and a recent income/expense window. Percent values, except
	// EmergencyFundMonths which is a month count.
	Ratios struct {
		LiquidRatio         float64
		InvestmentRatio     float64
		FixedRatio          float64
		SavingsRate         float64
		ExpenseRatio        float64
		EmergencyFundMonths float64
	}
)

// LiquidRatio returns the liquid share of total assets, in percent.
func (s AssetSummary) LiquidRatio() float64 {
	return percentOf(s.TotalLiquid, s.TotalAssets)
}

// InvestmentRatio returns the investment share of total assets, in percent.
func (s AssetSummary) InvestmentRatio() float64 {
	return percentOf(s.TotalInvestment, s.TotalAssets)
}

// FixedRatio returns the fixed share of total assets, in percent.
func (s AssetSummary) FixedRatio() float64 {
	return percentOf(s.TotalFixed, s.TotalAssets)
}

// ComputeRatios derives the dashboard ratios from a summary and the
// income/expense totals of the recent window. Every division is guarded:
// a zero denominator yields 0, and the emergency-fund months are clamped
// so they never reach a client unbounded.
func ComputeRatios(s AssetSummary, monthlyIncome, monthlyExpense Money) Ratios {
	r := Ratios{
		LiquidRatio:     s.LiquidRatio(),
		InvestmentRatio: s.InvestmentRatio(),
		FixedRatio:      s.FixedRatio(),
	}

	if monthlyIncome.Cents > 0 {
		r.SavingsRate = float64(monthlyIncome.Cents-monthlyExpense.Cents) / float64(monthlyIncome.Cents) * 100
	}
	if s.TotalAssets.Cents > 0 {
		r.ExpenseRatio = float64(monthlyExpense.Cents) / float64(s.TotalAssets.Cents) * 100
	}
	if monthlyExpense.Cents > 0 {
		r.EmergencyFundMonths = float64(s.TotalLiquid.Cents) / float64(monthlyExpense.Cents)
		if r.EmergencyFundMonths > EmergencyFundMonthsCap {
			r.EmergencyFundMonths = EmergencyFundMonthsCap
		}
	} else {
		r.EmergencyFundMonths = EmergencyFundMonthsCap
	}

	return r
}

func percentOf(part, total Money) float64 {
	if total.Cents <= 0 {
		return 0
	}
	return float64(part.Cents) / float64(total.Cents) * 100
}
