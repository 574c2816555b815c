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

type CategoryServiceInterface interface {
	GetUserCategories(ctx context.Context, userID string) ([]domain.Category, error)
	GetCategory(ctx context.Context, userID, id string) (*domain.Category, error)
	CreateCategory(ctx context.Context, userID string, category *domain.Category) error
	UpdateCategory(ctx context.Context, userID, id string, category domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, userID, id string) error
	DeleteCategoriesBulk(ctx context.Context, userID string, ids []string) ([]string, error)
}

type CategoryHandler struct {
	service      CategoryServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string)
}

func NewCategoryHandler(
	service CategoryServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string),
) *CategoryHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &CategoryHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *CategoryHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/bulk-delete", h.BulkDelete)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	categories, err := h.service.GetUserCategories(r.Context(), userID)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to retrieve categories")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"data": categories})
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
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

	category, err := h.service.GetCategory(r.Context(), userID, id)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to retrieve category")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"data": category})
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	category := domain.Category{Name: req.Name}
	if err := h.service.CreateCategory(r.Context(), userID, &category); err != nil {
		writeServiceError(h.respondError, w, err, "Failed to create category")
		return
	}

	w.Header().Set(invalidation.Header, invalidation.CategoryMutation(category.ID).String())
	h.respondJSON(w, http.StatusCreated, map[string]interface{}{"data": category})
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.service.UpdateCategory(r.Context(), userID, id, domain.Category{Name: req.Name})
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to update category")
		return
	}

	w.Header().Set(invalidation.Header, invalidation.CategoryMutation(id).String())
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"data": category})
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.DeleteCategory(r.Context(), userID, id); err != nil {
		writeServiceError(h.respondError, w, err, "Failed to delete category")
		return
	}

	w.Header().Set(invalidation.Header, invalidation.CategoryMutation(id).String())
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"data": map[string]string{"id": id}})
}

func (h *CategoryHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
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

	deleted, err := h.service.DeleteCategoriesBulk(r.Context(), userID, req.IDs)
	if err != nil {
		writeServiceError(h.respondError, w, err, "Failed to delete categories")
		return
	}

	w.Header().Set(invalidation.Header, invalidation.CategoryMutation(deleted...).String())
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"data": idList(deleted)})
}
