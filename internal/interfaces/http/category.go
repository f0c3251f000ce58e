package http

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"atena/internal/domain/category"
)

type CategoryService interface {
	Create(ctx context.Context, params category.CreateParams) (*category.Category, error)
	GetByID(ctx context.Context, id string) (*category.Category, error)
	List(ctx context.Context) ([]*category.Category, error)
	Update(ctx context.Context, id string, params category.UpdateParams) (*category.Category, error)
	Delete(ctx context.Context, id string) error
}

type CategoryHandler struct {
	categoryService CategoryService
}

func NewCategoryHandler(categoryService CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

type CreateCategoryRequest struct {
	Name                    string          `json:"name"`
	Icon                    string          `json:"icon"`
	Color                   string          `json:"color"`
	Type                    string          `json:"type"`
	MonthlyBudgetAmount     decimal.Decimal `json:"monthlyBudgetAmount"`
	MonthlyBudgetPercentage decimal.Decimal `json:"monthlyBudgetPercentage"`
}

type UpdateCategoryRequest struct {
	Name                    *string          `json:"name,omitempty"`
	Icon                    *string          `json:"icon,omitempty"`
	Color                   *string          `json:"color,omitempty"`
	Type                    *string          `json:"type,omitempty"`
	MonthlyBudgetAmount     *decimal.Decimal `json:"monthlyBudgetAmount,omitempty"`
	MonthlyBudgetPercentage *decimal.Decimal `json:"monthlyBudgetPercentage,omitempty"`
}

// HandleCategories lists or creates categories
func (h *CategoryHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListCategories(w, r)
	case http.MethodPost:
		h.handleCreateCategory(w, r)
	default:
		methodNotAllowed(w)
	}
}

// HandleCategoryByID routes requests for a specific category
func (h *CategoryHandler) HandleCategoryByID(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c, err := h.categoryService.GetByID(r.Context(), r.PathValue("id"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	case http.MethodPatch:
		h.handleUpdateCategory(w, r)
	case http.MethodDelete:
		if err := h.categoryService.Delete(r.Context(), r.PathValue("id")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

func (h *CategoryHandler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if categories == nil {
		categories = []*category.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.categoryService.Create(r.Context(), category.CreateParams{
		Name:                    req.Name,
		Icon:                    req.Icon,
		Color:                   req.Color,
		Type:                    req.Type,
		MonthlyBudgetAmount:     req.MonthlyBudgetAmount,
		MonthlyBudgetPercentage: req.MonthlyBudgetPercentage,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CategoryHandler) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req UpdateCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.categoryService.Update(r.Context(), r.PathValue("id"), category.UpdateParams{
		Name:                    req.Name,
		Icon:                    req.Icon,
		Color:                   req.Color,
		Type:                    req.Type,
		MonthlyBudgetAmount:     req.MonthlyBudgetAmount,
		MonthlyBudgetPercentage: req.MonthlyBudgetPercentage,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
