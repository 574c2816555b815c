package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mwalkowiak/BudgetTracker/internal/auth"
	"github.com/mwalkowiak/BudgetTracker/internal/finance/domain"
	financeErrors "github.com/mwalkowiak/BudgetTracker/internal/finance/errors"
	"github.com/mwalkowiak/BudgetTracker/internal/invalidation"
)

type TransactionServiceInterface interface {
	GetUserTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.TransactionDetail, error)
	GetTransaction(ctx context.Context, userID, id string) (*domain.TransactionDetail, error)
	CreateTransaction(ctx context.Context, userID string, transaction *domain.Transaction) error
	CreateTransactionsBulk(ctx context.Context, userID string, transactions []*domain.Transaction) error
	UpdateTransaction(ctx context.Context, userID, id string, transaction domain.Transaction) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id string) error
	DeleteTransactionsBulk(ctx context.Context, userID string, ids []string) ([]string, error)
}

type TransactionHandler struct {
	service      TransactionServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewTransactionHandler(
	service TransactionServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *TransactionHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &TransactionHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *TransactionHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/bulk-create", h.BulkCreate)
	r.Post("/bulk-delete", h.BulkDelete)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

// List returns the caller's transactions joined with account and category
// names, optionally narrowed by ?from=, ?to= and ?accountId=.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	filter, err := parseTransactionFilter(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	transactions, err := h.service.GetUserTransactions(r.Context(), userID, filter)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to retrieve transactions")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"data": transactions})
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		h.respondError(w, http.StatusBadRequest, "Missing id")
		return
	}

	transaction, err := h.service.GetTransaction(r.Context(), userID, id)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to retrieve transaction")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"data": transaction})
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	transaction, err := req.Parse()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.CreateTransaction(r.Context(), userID, transaction); err != nil {
		writeServiceError(h.respondError, w, err, "Failed to create transaction")
		return
	}

	h.setInvalidation(w, []domain.Transaction{*transaction})
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{"data": transaction})
}

func (h *TransactionHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req BulkCreateTransactionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	transactions := make([]*domain.Transaction, 0, len(req.Transactions))
	rowErrors := &financeErrors.ValidationErrors{}
	for i, row := range req.Transactions {
		transaction, err := row.Parse()
		if err != nil {
			rowErrors.Add(financeErrors.NewIndexedValidationError(i+1, err.Error()))
			continue
		}
		transactions = append(transactions, transaction)
	}
	if len(rowErrors.Errors) > 0 {
		h.respondError(w, http.StatusBadRequest, rowErrors.Error())
		return
	}

	if err := h.service.CreateTransactionsBulk(r.Context(), userID, transactions); err != nil {
		writeServiceError(h.respondError, w, err, "Failed to create transactions")
		return
	}

	created := make([]domain.Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		created = append(created, *transaction)
	}
	h.setInvalidation(w, created)
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{"data": created})
}

func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		h.respondError(w, http.StatusBadRequest, "Missing id")
		return
	}

	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	parsed, err := req.Parse()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	transaction, err := h.service.UpdateTransaction(r.Context(), userID, id, *parsed)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to update transaction")
		return
	}

	h.setInvalidation(w, []domain.Transaction{*transaction})
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"data": transaction})
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		h.respondError(w, http.StatusBadRequest, "Missing id")
		return
	}

	if err := h.service.DeleteTransaction(r.Context(), userID, id); err != nil {
		writeServiceError(h.respondError, w, err, "Failed to delete transaction")
		return
	}

	w.Header().Set(invalidation.Header, invalidation.TransactionMutation([]string{id}, nil, nil).String())
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"data": map[string]string{"id": id}})
}

func (h *TransactionHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req BulkDeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.service.DeleteTransactionsBulk(r.Context(), userID, req.IDs)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to delete transactions")
		return
	}

	w.Header().Set(invalidation.Header, invalidation.TransactionMutation(deleted, nil, nil).String())
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"data": idList(deleted)})
}

func (h *TransactionHandler) setInvalidation(w http.ResponseWriter, transactions []domain.Transaction) {
	ids := make([]string, 0, len(transactions))
	accountIDs := make([]string, 0, len(transactions))
	categoryIDs := make([]string, 0)
	seenAccounts := make(map[string]bool)
	seenCategories := make(map[string]bool)
	for _, transaction := range transactions {
		ids = append(ids, transaction.ID)
		if !seenAccounts[transaction.AccountID] {
			seenAccounts[transaction.AccountID] = true
			accountIDs = append(accountIDs, transaction.AccountID)
		}
		if transaction.CategoryID != nil && !seenCategories[*transaction.CategoryID] {
			seenCategories[*transaction.CategoryID] = true
			categoryIDs = append(categoryIDs, *transaction.CategoryID)
		}
	}
	w.Header().Set(invalidation.Header, invalidation.TransactionMutation(ids, accountIDs, categoryIDs).String())
}

func parseTransactionFilter(r *http.Request) (domain.TransactionFilter, error) {
	var filter domain.TransactionFilter
	if from := r.URL.Query().Get("from"); from != "" {
		date, err := parseDate(from)
		if err != nil {
			return filter, financeErrors.NewValidationError("from", "must be a date in YYYY-MM-DD format")
		}
		filter.From = date
	}
	if to := r.URL.Query().Get("to"); to != "" {
		date, err := parseDate(to)
		if err != nil {
			return filter, financeErrors.NewValidationError("to", "must be a date in YYYY-MM-DD format")
		}
		filter.To = date
	}
	filter.AccountID = r.URL.Query().Get("accountId")
	return filter, nil
}
