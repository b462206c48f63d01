package http

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"patrimonio/internal/core"
)

const summaryCacheKey = "summary"

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if summary, ok := s.summaryCache.Get(summaryCacheKey); ok {
		respondJSON(w, http.StatusOK, toSummaryJSON(summary))
		return
	}
	summary, err := s.snapshots.Summary(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.summaryCache.Set(summaryCacheKey, summary)
	respondJSON(w, http.StatusOK, toSummaryJSON(summary))
}

func (s *Server) handleDistribution(w http.ResponseWriter, r *http.Request) {
	dist, err := s.snapshots.Distribution(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	type typeJSON struct {
		Type  string  `json:"type"`
		Total float64 `json:"total"`
		Count int64   `json:"count"`
	}
	type distCategoryJSON struct {
		Name  string  `json:"name"`
		Type  string  `json:"type"`
		Icon  string  `json:"icon"`
		Color string  `json:"color"`
		Total float64 `json:"total"`
		Count int64   `json:"count"`
	}
	type platformJSON struct {
		Platform string  `json:"platform"`
		Total    float64 `json:"total"`
		Count    int64   `json:"count"`
	}
	out := struct {
		ByType     []typeJSON     `json:"by_type"`
		ByCategory []distCategoryJSON `json:"by_category"`
		ByPlatform []platformJSON `json:"by_platform"`
	}{
		ByType:     make([]typeJSON, len(dist.ByType)),
		ByCategory: make([]distCategoryJSON, len(dist.ByCategory)),
		ByPlatform: make([]platformJSON, len(dist.ByPlatform)),
	}
	for i, d := range dist.ByType {
		out.ByType[i] = typeJSON{Type: string(d.Type), Total: d.Total.Float64(), Count: d.Count}
	}
	for i, d := range dist.ByCategory {
		out.ByCategory[i] = distCategoryJSON{
			Name: d.Name, Type: string(d.Type), Icon: d.Icon, Color: d.Color,
			Total: d.Total.Float64(), Count: d.Count,
		}
	}
	for i, d := range dist.ByPlatform {
		out.ByPlatform[i] = platformJSON{Platform: d.Platform, Total: d.Total.Float64(), Count: d.Count}
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleIncomeExpense(w http.ResponseWriter, r *http.Request) {
	start, err := queryDate(r, "start_date")
	if err != nil {
		respondBadRequest(w, "invalid start_date")
		return
	}
	end, err := queryDate(r, "end_date")
	if err != nil {
		respondBadRequest(w, "invalid end_date")
		return
	}

	summary, err := s.snapshots.IncomeExpense(r.Context(), start, end)
	if err != nil {
		respondError(w, r, err)
		return
	}

	type dailyJSON struct {
		Date   string  `json:"date"`
		Type   string  `json:"type"`
		Amount float64 `json:"amount"`
	}
	type spendCategoryJSON struct {
		Category string  `json:"category"`
		Type     string  `json:"type"`
		Amount   float64 `json:"amount"`
		Count    int64   `json:"count"`
	}
	out := struct {
		StartDate    string         `json:"start_date"`
		EndDate      string         `json:"end_date"`
		Income       float64        `json:"income"`
		IncomeCount  int64          `json:"income_count"`
		Expense      float64        `json:"expense"`
		ExpenseCount int64          `json:"expense_count"`
		Net          float64        `json:"net"`
		Daily        []dailyJSON    `json:"daily"`
		ByCategory   []spendCategoryJSON `json:"by_category"`
	}{
		StartDate:    summary.Start.String(),
		EndDate:      summary.End.String(),
		Income:       summary.Income.Float64(),
		IncomeCount:  summary.IncomeCount,
		Expense:      summary.Expense.Float64(),
		ExpenseCount: summary.ExpenseCount,
		Net:          core.Money{Cents: summary.Income.Cents - summary.Expense.Cents}.Float64(),
		Daily:        make([]dailyJSON, len(summary.Daily)),
		ByCategory:   make([]spendCategoryJSON, len(summary.ByCategory)),
	}
	for i, d := range summary.Daily {
		out.Daily[i] = dailyJSON{Date: d.Date.String(), Type: string(d.Type), Amount: d.Amount.Float64()}
	}
	for i, c := range summary.ByCategory {
		out.ByCategory[i] = spendCategoryJSON{
			Category: c.Category, Type: string(c.Type),
			Amount: c.Amount.Float64(), Count: c.Count,
		}
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", s.TrendDefaultDays)
	if days < 1 || days > 3650 {
		respondBadRequest(w, "days must be between 1 and 3650")
		return
	}

	cacheKey := "trend:" + strconv.Itoa(days)
	points, ok := s.trendCache.Get(cacheKey)
	if !ok {
		var err error
		points, err = s.snapshots.Trend(r.Context(), days)
		if err != nil {
			respondError(w, r, err)
			return
		}
		s.trendCache.Set(cacheKey, points)
	}

	out := make([]trendPointJSON, len(points))
	for i, p := range points {
		out[i] = trendPointJSON{
			Date:        p.Date.String(),
			TotalAssets: p.TotalAssets.Float64(),
			Liquid:      p.Liquid.Float64(),
			Investment:  p.Investment.Float64(),
			Fixed:       p.Fixed.Float64(),
		}
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleMonthlyStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.snapshots.MonthlyStatistics(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	type monthJSON struct {
		Month   string  `json:"month"`
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
		Net     float64 `json:"net"`
		Count   int64   `json:"count"`
	}
	out := make([]monthJSON, len(stats))
	for i, m := range stats {
		out[i] = monthJSON{
			Month:   m.Month,
			Income:  m.Income.Float64(),
			Expense: m.Expense.Float64(),
			Net:     m.Net.Float64(),
			Count:   m.Count,
		}
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleRatios(w http.ResponseWriter, r *http.Request) {
	ratios, err := s.snapshots.Ratios(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		LiquidRatio         float64 `json:"liquid_ratio"`
		InvestmentRatio     float64 `json:"investment_ratio"`
		FixedRatio          float64 `json:"fixed_ratio"`
		SavingsRate         float64 `json:"savings_rate"`
		ExpenseRatio        float64 `json:"expense_ratio"`
		EmergencyFundMonths float64 `json:"emergency_fund_months"`
	}{
		LiquidRatio:         ratios.LiquidRatio,
		InvestmentRatio:     ratios.InvestmentRatio,
		FixedRatio:          ratios.FixedRatio,
		SavingsRate:         ratios.SavingsRate,
		ExpenseRatio:        ratios.ExpenseRatio,
		EmergencyFundMonths: ratios.EmergencyFundMonths,
	})
}

func (s *Server) handlePlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := s.ledger.PlatformSummary(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	type platformJSON struct {
		Platform string  `json:"platform"`
		Total    float64 `json:"total"`
		Count    int64   `json:"count"`
	}
	out := make([]platformJSON, len(platforms))
	for i, p := range platforms {
		out[i] = platformJSON{Platform: p.Platform, Total: p.Total.Float64(), Count: p.Count}
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSnapshot(w http.ResponseWriter, r *http.Request) {
	id, created, err := s.snapshots.CreateSnapshot(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !created {
		respondJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"reason":  "no asset data",
		})
		return
	}
	s.trendCache.Clear()
	respondJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      id,
	})
}

// handleExportReport writes a CSV financial report: the asset summary
// followed by the per-account detail.
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	summary, err := s.snapshots.Summary(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	accounts, err := s.ledger.List(r.Context(), listActiveFilter())
	if err != nil {
		respondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("financial_report_%s.csv", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"Financial Report", time.Now().Format("2006-01-02")})
	_ = cw.Write(nil)
	_ = cw.Write([]string{"Total Assets", summary.TotalAssets.String()})
	_ = cw.Write([]string{"Liquid", summary.TotalLiquid.String()})
	_ = cw.Write([]string{"Investment", summary.TotalInvestment.String()})
	_ = cw.Write([]string{"Fixed", summary.TotalFixed.String()})
	_ = cw.Write(nil)
	_ = cw.Write([]string{"Account", "Category", "Balance", "Platform"})
	for _, a := range accounts {
		_ = cw.Write([]string{a.Name, a.CategoryName, a.Balance.String(), a.Platform})
	}
	cw.Flush()
}
