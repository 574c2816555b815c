package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/mwalkowiak/BudgetTracker/internal/auth"
	"github.com/mwalkowiak/BudgetTracker/internal/finance/application"
	financeErrors "github.com/mwalkowiak/BudgetTracker/internal/finance/errors"
)

type SummaryServiceInterface interface {
	GetSummary(ctx context.Context, userID string, from, to time.Time, accountID string) (*application.Summary, error)
}

type SummaryHandler struct {
	service      SummaryServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewSummaryHandler(
	service SummaryServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *SummaryHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &SummaryHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// Get returns aggregate totals for the caller's transactions, narrowed by the
// same ?from=, ?to= and ?accountId= parameters as the transaction list.
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var from, to time.Time
	if value := r.URL.Query().Get("from"); value != "" {
		date, err := parseDate(value)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, financeErrors.NewValidationError("from", "must be a date in YYYY-MM-DD format").Error())
			return
		}
		from = date
	}
	if value := r.URL.Query().Get("to"); value != "" {
		date, err := parseDate(value)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, financeErrors.NewValidationError("to", "must be a date in YYYY-MM-DD format").Error())
			return
		}
		to = date
	}

	summary, err := h.service.GetSummary(r.Context(), userID, from, to, r.URL.Query().Get("accountId"))
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to compute summary")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"data": summary})
}
