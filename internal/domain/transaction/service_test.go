package transaction

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	CreateFunc       func(ctx context.Context, params CreateParams) (*Transaction, error)
	GetByIDFunc      func(ctx context.Context, id string) (*Transaction, error)
	ListFunc         func(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	UpdateFunc       func(ctx context.Context, id string, params UpdateParams) (*Transaction, error)
	UpdateStatusFunc func(ctx context.Context, ids []string, status string) ([]*Transaction, error)
	DeleteFunc       func(ctx context.Context, id string) error
}

func (m *MockRepository) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return &Transaction{ID: params.ID, Amount: params.Amount, Status: params.Status}, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrTransactionNotFound
}

func (m *MockRepository) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockRepository) Update(ctx context.Context, id string, params UpdateParams) (*Transaction, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockRepository) UpdateStatus(ctx context.Context, ids []string, status string) ([]*Transaction, error) {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, ids, status)
	}
	return nil, nil
}

func (m *MockRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func validParams() CreateParams {
	return CreateParams{
		AccountID:     "acc-1",
		CategoryID:    "cat-1",
		Description:   "Groceries",
		Type:          TypeExpense,
		Amount:        decimal.RequireFromString("123.45"),
		PaymentMethod: PaymentPix,
		PaymentDate:   civil.Date{Year: 2024, Month: 3, Day: 15},
	}
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *CreateParams)
		wantErr error
	}{
		{name: "valid", mutate: func(p *CreateParams) {}},
		{name: "missing account", mutate: func(p *CreateParams) { p.AccountID = "" }, wantErr: ErrInvalidInput},
		{name: "missing category", mutate: func(p *CreateParams) { p.CategoryID = "" }, wantErr: ErrInvalidInput},
		{name: "bad type", mutate: func(p *CreateParams) { p.Type = "GIFT" }, wantErr: ErrInvalidType},
		{name: "bad status", mutate: func(p *CreateParams) { p.Status = "DONE" }, wantErr: ErrInvalidStatus},
		{name: "bad payment method", mutate: func(p *CreateParams) { p.PaymentMethod = "CHEQUE" }, wantErr: ErrInvalidPayment},
		{name: "zero date", mutate: func(p *CreateParams) { p.PaymentDate = civil.Date{} }, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got CreateParams
			repo := &MockRepository{
				CreateFunc: func(ctx context.Context, params CreateParams) (*Transaction, error) {
					got = params
					return &Transaction{ID: params.ID, Status: params.Status}, nil
				},
			}
			p := validParams()
			tt.mutate(&p)

			txn, err := NewService(repo).Create(context.Background(), p)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ID == "" || txn.ID != got.ID {
				t.Errorf("expected generated id to be passed to repository, got %q", got.ID)
			}
			if got.Status != StatusPending {
				t.Errorf("expected default status PENDING, got %s", got.Status)
			}
		})
	}
}

func TestService_CreateMany_ReturnsPartialOnFailure(t *testing.T) {
	calls := 0
	repo := &MockRepository{
		CreateFunc: func(ctx context.Context, params CreateParams) (*Transaction, error) {
			calls++
			if calls == 3 {
				return nil, errors.New("db down")
			}
			return &Transaction{ID: params.ID}, nil
		},
	}

	params := []CreateParams{validParams(), validParams(), validParams(), validParams()}
	created, err := NewService(repo).CreateMany(context.Background(), params)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 created transactions, got %d", len(created))
	}
	if calls != 3 {
		t.Errorf("expected creation to stop after failure, got %d calls", calls)
	}
}

func TestService_CreateMany_Empty(t *testing.T) {
	_, err := NewService(&MockRepository{}).CreateMany(context.Background(), nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_GetByID(t *testing.T) {
	repo := &MockRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*Transaction, error) {
			if id == "t-1" {
				return &Transaction{ID: id}, nil
			}
			return nil, ErrTransactionNotFound
		},
	}
	svc := NewService(repo)

	if txn, err := svc.GetByID(context.Background(), "t-1"); err != nil || txn.ID != "t-1" {
		t.Fatalf("expected t-1, got %v, %v", txn, err)
	}
	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), ""); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound for empty id, got %v", err)
	}
}

func TestService_List_ValidatesFilter(t *testing.T) {
	svc := NewService(&MockRepository{})

	if _, err := svc.List(context.Background(), ListFilter{Status: "nope"}); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.List(context.Background(), ListFilter{Type: "nope"}); !errors.Is(err, ErrInvalidType) {
		t.Errorf("expected ErrInvalidType, got %v", err)
	}
	if _, err := svc.List(context.Background(), ListFilter{Limit: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Complete(t *testing.T) {
	var gotStatus string
	repo := &MockRepository{
		UpdateStatusFunc: func(ctx context.Context, ids []string, status string) ([]*Transaction, error) {
			gotStatus = status
			out := make([]*Transaction, len(ids))
			for i, id := range ids {
				out[i] = &Transaction{ID: id, Status: status}
			}
			return out, nil
		},
	}
	svc := NewService(repo)

	got, err := svc.Complete(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotStatus != StatusCompleted || len(got) != 2 {
		t.Errorf("expected 2 COMPLETED transactions, got %d with status %s", len(got), gotStatus)
	}

	none, err := svc.Complete(context.Background(), nil)
	if err != nil || len(none) != 0 {
		t.Errorf("expected empty result for no ids, got %v, %v", none, err)
	}
}

func TestUpdateParams_Validate(t *testing.T) {
	bad := "WRONG"
	if err := (UpdateParams{Type: &bad}).Validate(); !errors.Is(err, ErrInvalidType) {
		t.Errorf("expected ErrInvalidType, got %v", err)
	}
	if err := (UpdateParams{Status: &bad}).Validate(); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	if err := (UpdateParams{PaymentMethod: &bad}).Validate(); !errors.Is(err, ErrInvalidPayment) {
		t.Errorf("expected ErrInvalidPayment, got %v", err)
	}
	if err := (UpdateParams{}).Validate(); err != nil {
		t.Errorf("expected empty update to be valid, got %v", err)
	}
}
