package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mwalkowiak/BudgetTracker/internal/auth"
	"github.com/mwalkowiak/BudgetTracker/internal/finance/domain"
	"github.com/mwalkowiak/BudgetTracker/internal/invalidation"
)

type AccountServiceInterface interface {
	GetUserAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	GetAccount(ctx context.Context, userID, id string) (*domain.Account, error)
	CreateAccount(ctx context.Context, userID string, account *domain.Account) error
	UpdateAccount(ctx context.Context, userID, id string, account domain.Account) (*domain.Account, error)
	DeleteAccount(ctx context.Context, userID, id string) error
	DeleteAccountsBulk(ctx context.Context, userID string, ids []string) ([]string, error)
}

type AccountHandler struct {
	service      AccountServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewAccountHandler(
	service AccountServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *AccountHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &AccountHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *AccountHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/bulk-delete", h.BulkDelete)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	accounts, err := h.service.GetUserAccounts(r.Context(), userID)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to retrieve accounts")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"data": accounts})
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	account, err := h.service.GetAccount(r.Context(), userID, id)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to retrieve account")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"data": account})
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	account := domain.Account{Name: req.Name}
	if err := h.service.CreateAccount(r.Context(), userID, &account); err != nil {
		writeServiceError(h.respondError, w, err, "Failed to create account")
		return
	}

	w.Header().Set(invalidation.Header, invalidation.AccountMutation(account.ID).String())
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{"data": account})
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.service.UpdateAccount(r.Context(), userID, id, domain.Account{Name: req.Name})
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to update account")
		return
	}

	w.Header().Set(invalidation.Header, invalidation.AccountMutation(id).String())
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"data": account})
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.DeleteAccount(r.Context(), userID, id); err != nil {
		writeServiceError(h.respondError, w, err, "Failed to delete account")
		return
	}

	w.Header().Set(invalidation.Header, invalidation.AccountMutation(id).String())
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"data": map[string]string{"id": id}})
}

func (h *AccountHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
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

	deleted, err := h.service.DeleteAccountsBulk(r.Context(), userID, req.IDs)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to delete accounts")
		return
	}

	w.Header().Set(invalidation.Header, invalidation.AccountMutation(deleted...).String())
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"data": idList(deleted)})
}

// idList shapes bulk-delete results as [{"id": ...}] so callers can compare
// the affected set against what they asked for.
func idList(ids []string) []map[string]string {
	list := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		list = append(list, map[string]string{"id": id})
	}
	return list
}
