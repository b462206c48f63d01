package core

import "testing"

func TestRatiosZeroAssets(t *testing.T) {
	r := ComputeRatios(AssetSummary{}, Money{}, Money{})
	if r.LiquidRatio != 0 || r.InvestmentRatio != 0 || r.FixedRatio != 0 {
		t.Fatalf("asset ratios must be 0 with no assets, got %+v", r)
	}
	if r.SavingsRate != 0 || r.ExpenseRatio != 0 {
		t.Fatalf("income ratios must be 0 with no income, got %+v", r)
	}
	if r.EmergencyFundMonths != EmergencyFundMonthsCap {
		t.Fatalf("emergency fund months must clamp to %d with no expenses, got %v",
			EmergencyFundMonthsCap, r.EmergencyFundMonths)
	}
}

func TestRatiosClamp(t *testing.T) {
	s := AssetSummary{
		TotalAssets: Money{Cents: 100_000_000},
		TotalLiquid: Money{Cents: 100_000_000},
	}
	// Tiny expense window drives the raw ratio far beyond the cap.
	r := ComputeRatios(s, Money{Cents: 1000}, Money{Cents: 1})
	if r.EmergencyFundMonths != EmergencyFundMonthsCap {
		t.Fatalf("expected clamp at %d, got %v", EmergencyFundMonthsCap, r.EmergencyFundMonths)
	}
}

func TestRatiosHappyPath(t *testing.T) {
	s := AssetSummary{
		TotalAssets:     Money{Cents: 100_000},
		TotalLiquid:     Money{Cents: 60_000},
		TotalInvestment: Money{Cents: 30_000},
		TotalFixed:      Money{Cents: 10_000},
	}
	r := ComputeRatios(s, Money{Cents: 10_000}, Money{Cents: 6_000})

	if r.LiquidRatio != 60 {
		t.Fatalf("liquid ratio: got %v, want 60", r.LiquidRatio)
	}
	if r.InvestmentRatio != 30 {
		t.Fatalf("investment ratio: got %v, want 30", r.InvestmentRatio)
	}
	if r.FixedRatio != 10 {
		t.Fatalf("fixed ratio: got %v, want 10", r.FixedRatio)
	}
	if r.SavingsRate != 40 {
		t.Fatalf("savings rate: got %v, want 40", r.SavingsRate)
	}
	if r.ExpenseRatio != 6 {
		t.Fatalf("expense ratio: got %v, want 6", r.ExpenseRatio)
	}
	if r.EmergencyFundMonths != 10 {
		t.Fatalf("emergency fund months: got %v, want 10", r.EmergencyFundMonths)
	}
}
