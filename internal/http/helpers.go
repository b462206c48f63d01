package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"patrimonio/internal/core"
	applog "patrimonio/internal/log"
	"patrimonio/internal/storage"
)

// listActiveFilter selects active accounts only.
func listActiveFilter() storage.AccountFilter {
	active := true
	return storage.AccountFilter{Active: &active}
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// respondError maps domain errors onto HTTP statuses.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrCategoryInUse):
		status = http.StatusConflict
	case errors.Is(err, core.ErrValidation),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidAssetType),
		errors.Is(err, core.ErrEmptyName):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			applog.FieldError, err, applog.FieldMethod, r.Method, applog.FieldPath, r.URL.Path)
		respondJSON(w, status, errorResponse{Error: "internal error"})
		return
	}
	respondJSON(w, status, errorResponse{Error: err.Error()})
}

func respondBadRequest(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// pathID extracts the {id} path segment as an int64.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// moneyFromFloat converts a decimal amount from a JSON payload to cents,
// rounding half away from zero at the third decimal.
func moneyFromFloat(v float64) core.Money {
	return core.Money{Cents: int64(math.Round(v * 100))}
}

// moneyFromNumber converts a JSON number literal to cents without going
// through a float64, so amounts like 10.005 keep their exact value.
func moneyFromNumber(n json.Number) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(n.String())
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// queryInt reads an integer query parameter, falling back when absent
// or malformed.
func queryInt(r *http.Request, key string, fallback int) int {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// queryDate reads a YYYY-MM-DD query parameter; a missing value yields
// the zero date, a malformed one an error.
func queryDate(r *http.Request, key string) (core.Date, error) {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(v)
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
