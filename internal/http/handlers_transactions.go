package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"patrimonio/internal/core"
	"patrimonio/internal/services"
	"patrimonio/internal/storage"
)

type transactionRequest struct {
	AccountID   int64       `json:"account_id"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Type        string      `json:"type"`
	Category    string      `json:"category"`
	Amount      json.Number `json:"amount"`
	Note        string      `json:"note"`
}

func (req transactionRequest) toTransaction() (core.Transaction, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid date, expected YYYY-MM-DD")
	}
	amount, err := moneyFromNumber(req.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("invalid amount %q", req.Amount)
	}
	return core.Transaction{
		AccountID:   req.AccountID,
		Date:        date,
		Description: sanitizeInput(req.Description),
		Type:        core.TransactionType(req.Type),
		Category:    sanitizeInput(req.Category),
		Amount:      amount,
		Note:        sanitizeInput(req.Note),
	}, nil
}

type transferRequest struct {
	FromAccountID int64       `json:"from_account_id"`
	ToAccountID   int64       `json:"to_account_id"`
	Amount        json.Number `json:"amount"`
	Date          string      `json:"date"`
	Description   string      `json:"description"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter := storage.TransactionFilter{
		Type:  core.TransactionType(strings.TrimSpace(r.URL.Query().Get("type"))),
		Limit: queryInt(r, "limit", s.ListLimit),
	}
	if v := r.URL.Query().Get("account_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondBadRequest(w, "invalid account_id")
			return
		}
		filter.AccountID = id
	}
	var err error
	if filter.StartDate, err = queryDate(r, "start_date"); err != nil {
		respondBadRequest(w, "invalid start_date")
		return
	}
	if filter.EndDate, err = queryDate(r, "end_date"); err != nil {
		respondBadRequest(w, "invalid end_date")
		return
	}

	txs, err := s.journal.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]transactionJSON, len(txs))
	for i, t := range txs {
		out[i] = toTransactionJSON(t)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, "invalid transaction id")
		return
	}
	tx, err := s.journal.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionJSON(tx))
}

func (s *Server) handlePostTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	tx, err := req.toTransaction()
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	posted, err := s.journal.Post(r.Context(), tx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateAggregates()
	respondJSON(w, http.StatusCreated, map[string]any{
		"id":            posted.ID,
		"balance_after": posted.BalanceAfter.Float64(),
	})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, "invalid transaction id")
		return
	}
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	tx, err := req.toTransaction()
	if err != nil {
		respondBadRequest(w, err.Error())
		return
	}

	if err := s.journal.Update(r.Context(), id, tx); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateAggregates()
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, "invalid transaction id")
		return
	}
	if err := s.journal.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateAggregates()
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}
	var date core.Date
	if req.Date != "" {
		var err error
		if date, err = core.ParseDate(req.Date); err != nil {
			respondBadRequest(w, "invalid date, expected YYYY-MM-DD")
			return
		}
	}
	amount, err := moneyFromNumber(req.Amount)
	if err != nil {
		respondBadRequest(w, "invalid amount")
		return
	}

	outID, inID, err := s.journal.Transfer(r.Context(),
		req.FromAccountID, req.ToAccountID,
		amount, date, sanitizeInput(req.Description))
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateAggregates()
	respondJSON(w, http.StatusCreated, map[string]any{
		"out_transaction_id": outID,
		"in_transaction_id":  inID,
	})
}

func (s *Server) handleBatchImport(w http.ResponseWriter, r *http.Request) {
	var records []services.ImportRecord
	if err := decodeJSON(r, &records); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	result, err := s.journal.BatchImport(r.Context(), records)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateAggregates()

	status := http.StatusOK
	if result.SuccessCount > 0 && result.ErrorCount == 0 {
		status = http.StatusCreated
	}
	respondJSON(w, status, result)
}

func (s *Server) handleTransactionCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.journal.Categories(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	type categoryAmountJSON struct {
		Category string  `json:"category"`
		Type     string  `json:"type"`
		Amount   float64 `json:"amount"`
		Count    int64   `json:"count"`
	}
	out := make([]categoryAmountJSON, len(categories))
	for i, c := range categories {
		out[i] = categoryAmountJSON{
			Category: c.Category,
			Type:     string(c.Type),
			Amount:   c.Amount.Float64(),
			Count:    c.Count,
		}
	}
	respondJSON(w, http.StatusOK, out)
}
