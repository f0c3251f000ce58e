package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"atena/internal/domain/account"
	"atena/internal/domain/category"
)

func TestHandleAccounts(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		svc            *MockAccountService
		expectedStatus int
	}{
		{
			name:   "List",
			method: http.MethodGet,
			svc: &MockAccountService{ListAccountsFunc: func(ctx context.Context) ([]*account.Account, error) {
				return []*account.Account{{ID: "acc-1", Institution: "Nubank", Type: "CHECKING"}}, nil
			}},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "List Error",
			method: http.MethodGet,
			svc: &MockAccountService{ListAccountsFunc: func(ctx context.Context) ([]*account.Account, error) {
				return nil, errors.New("connection refused")
			}},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:   "Create",
			method: http.MethodPost,
			body:   `{"institution":"Nubank","type":"CHECKING"}`,
			svc: &MockAccountService{CreateAccountFunc: func(ctx context.Context, p account.CreateParams) (*account.Account, error) {
				return &account.Account{ID: "acc-1", Institution: p.Institution, Type: p.Type}, nil
			}},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "Create Invalid Type",
			method: http.MethodPost,
			body:   `{"institution":"Nubank","type":"CRYPTO"}`,
			svc: &MockAccountService{CreateAccountFunc: func(ctx context.Context, p account.CreateParams) (*account.Account, error) {
				return nil, errors.Join(account.ErrInvalidInput, account.ErrInvalidAccountType)
			}},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAccountHandler(tt.svc)

			req := httptest.NewRequest(tt.method, "/api/accounts", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			h.HandleAccounts(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
			if rr.Code == http.StatusInternalServerError && bytes.Contains(rr.Body.Bytes(), []byte("connection refused")) {
				t.Error("internal error details must not leak to the client")
			}
		})
	}
}

func TestHandleAccountByID(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		svc            *MockAccountService
		expectedStatus int
	}{
		{
			name:   "Get",
			method: http.MethodGet,
			svc: &MockAccountService{GetAccountFunc: func(ctx context.Context, id string) (*account.Account, error) {
				return &account.Account{ID: id}, nil
			}},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "Delete Not Found",
			method: http.MethodDelete,
			svc: &MockAccountService{DeleteAccountFunc: func(ctx context.Context, id string) error {
				return account.ErrAccountNotFound
			}},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "Delete In Use",
			method: http.MethodDelete,
			svc: &MockAccountService{DeleteAccountFunc: func(ctx context.Context, id string) error {
				return fmt.Errorf("%w: account still has transactions", account.ErrInvalidInput)
			}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "Patch",
			method: http.MethodPatch,
			body:   `{"description":"salary"}`,
			svc: &MockAccountService{UpdateAccountFunc: func(ctx context.Context, id string, p account.UpdateParams) (*account.Account, error) {
				return &account.Account{ID: id, Description: *p.Description}, nil
			}},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAccountHandler(tt.svc)

			req := httptest.NewRequest(tt.method, "/api/accounts/acc-1", bytes.NewBufferString(tt.body))
			req.SetPathValue("id", "acc-1")
			rr := httptest.NewRecorder()
			h.HandleAccountByID(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
		})
	}
}

func TestHandleCategories(t *testing.T) {
	svc := &MockCategoryService{
		CreateFunc: func(ctx context.Context, p category.CreateParams) (*category.Category, error) {
			if err := p.Validate(); err != nil {
				return nil, err
			}
			return &category.Category{ID: "cat-1", Name: p.Name}, nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			return category.ErrCategoryNotFound
		},
	}
	h := NewCategoryHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/categories", bytes.NewBufferString(`{"name":"Food","color":"#ff0000","type":"EXPENSE","monthlyBudgetPercentage":30}`))
	rr := httptest.NewRecorder()
	h.HandleCategories(rr, req)
	if rr.Code != http.StatusCreated {
		t.Errorf("create status = %d (body %s)", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/categories", bytes.NewBufferString(`{"name":"Food","color":"#ff0000","type":"OTHER"}`))
	rr = httptest.NewRecorder()
	h.HandleCategories(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("invalid type status = %d, want 400", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	rr = httptest.NewRecorder()
	h.HandleCategories(rr, req)
	if rr.Code != http.StatusOK || rr.Body.String() != "[]\n" {
		t.Errorf("list = %d %q", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/categories/cat-9", nil)
	req.SetPathValue("id", "cat-9")
	rr = httptest.NewRecorder()
	h.HandleCategoryByID(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("delete status = %d, want 404", rr.Code)
	}
}
