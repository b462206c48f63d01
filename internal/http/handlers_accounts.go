package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	applog "patrimonio/internal/log"
	"patrimonio/internal/services"
	"patrimonio/internal/storage"
)

type createAccountRequest struct {
	Name           string   `json:"name"`
	CategoryID     int64    `json:"category_id"`
	Balance        float64  `json:"balance"`
	InitialBalance *float64 `json:"initial_balance"`
	Currency       string   `json:"currency"`
	Platform       string   `json:"platform"`
	AccountNumber  string   `json:"account_number"`
	Description    string   `json:"description"`
}

type updateAccountRequest struct {
	Name          string   `json:"name"`
	CategoryID    int64    `json:"category_id"`
	Balance       *float64 `json:"balance"`
	Platform      string   `json:"platform"`
	AccountNumber string   `json:"account_number"`
	Description   string   `json:"description"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	filter := storage.AccountFilter{
		Platform: strings.TrimSpace(r.URL.Query().Get("platform")),
	}
	if v := r.URL.Query().Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondBadRequest(w, "invalid category_id")
			return
		}
		filter.CategoryID = id
	}
	switch r.URL.Query().Get("active") {
	case "true":
		active := true
		filter.Active = &active
	case "false":
		active := false
		filter.Active = &active
	}

	accounts, err := s.ledger.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccountListJSON(accounts))
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, "invalid account id")
		return
	}
	account, err := s.ledger.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccountJSON(account))
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	params := services.CreateAccountParams{
		Name:          sanitizeInput(req.Name),
		CategoryID:    req.CategoryID,
		Balance:       moneyFromFloat(req.Balance),
		Currency:      strings.TrimSpace(req.Currency),
		Platform:      sanitizeInput(req.Platform),
		AccountNumber: sanitizeInput(req.AccountNumber),
		Description:   sanitizeInput(req.Description),
	}
	if req.InitialBalance != nil {
		initial := moneyFromFloat(*req.InitialBalance)
		params.InitialBalance = &initial
	}

	id, err := s.ledger.CreateAccount(r.Context(), params)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateAggregates()
	respondJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, "invalid account id")
		return
	}
	var req updateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body")
		return
	}

	err = s.ledger.UpdateAccount(r.Context(), id, services.UpdateAccountParams{
		Name:          sanitizeInput(req.Name),
		CategoryID:    req.CategoryID,
		Platform:      sanitizeInput(req.Platform),
		AccountNumber: sanitizeInput(req.AccountNumber),
		Description:   sanitizeInput(req.Description),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	// A balance in the update payload is an out-of-band correction.
	if req.Balance != nil {
		if err := s.ledger.SetBalance(r.Context(), id, moneyFromFloat(*req.Balance)); err != nil {
			respondError(w, r, err)
			return
		}
		s.invalidateAggregates()
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleDeactivateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, "invalid account id")
		return
	}
	if err := s.ledger.Deactivate(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateAggregates()
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleActivateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, "invalid account id")
		return
	}
	if err := s.ledger.Activate(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateAggregates()
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleAccountsByType(w http.ResponseWriter, r *http.Request) {
	grouped, err := s.ledger.ListByCategoryType(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make(map[string][]accountJSON, len(grouped))
	for assetType, accounts := range grouped {
		out[string(assetType)] = toAccountListJSON(accounts)
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleReconcileAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondBadRequest(w, "invalid account id")
		return
	}
	balance, err := s.journal.Reconcile(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.invalidateAggregates()
	slog.InfoContext(r.Context(), "Account reconciled",
		applog.FieldAccountID, id, applog.FieldBalance, balance.Cents)
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"balance": balance.Float64(),
	})
}
