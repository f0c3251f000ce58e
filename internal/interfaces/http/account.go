package http

import (
	"context"
	"net/http"

	"atena/internal/domain/account"
)

// AccountService is the account use-case surface used by the handler
type AccountService interface {
	CreateAccount(ctx context.Context, params account.CreateParams) (*account.Account, error)
	GetAccount(ctx context.Context, accountID string) (*account.Account, error)
	ListAccounts(ctx context.Context) ([]*account.Account, error)
	UpdateAccount(ctx context.Context, accountID string, params account.UpdateParams) (*account.Account, error)
	DeleteAccount(ctx context.Context, accountID string) error
}

type AccountHandler struct {
	accountService AccountService
}

func NewAccountHandler(accountService AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

type CreateAccountRequest struct {
	Institution string `json:"institution"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type UpdateAccountRequest struct {
	Institution *string `json:"institution,omitempty"`
	Type        *string `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
}

// HandleAccounts lists or creates accounts
func (h *AccountHandler) HandleAccounts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		accounts, err := h.accountService.ListAccounts(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		if accounts == nil {
			accounts = []*account.Account{}
		}
		writeJSON(w, http.StatusOK, accounts)
	case http.MethodPost:
		var req CreateAccountRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		acc, err := h.accountService.CreateAccount(r.Context(), account.CreateParams{
			Institution: req.Institution,
			Type:        req.Type,
			Description: req.Description,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, acc)
	default:
		methodNotAllowed(w)
	}
}

// HandleAccountByID handles operations on a specific account
func (h *AccountHandler) HandleAccountByID(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		acc, err := h.accountService.GetAccount(r.Context(), accountID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, acc)
	case http.MethodPatch:
		var req UpdateAccountRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		acc, err := h.accountService.UpdateAccount(r.Context(), accountID, account.UpdateParams{
			Institution: req.Institution,
			Type:        req.Type,
			Description: req.Description,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, acc)
	case http.MethodDelete:
		if err := h.accountService.DeleteAccount(r.Context(), accountID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}
