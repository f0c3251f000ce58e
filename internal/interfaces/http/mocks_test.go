package http

import (
	"context"

	"cloud.google.com/go/civil"

	"atena/internal/domain/account"
	"atena/internal/domain/category"
	"atena/internal/domain/creditcard"
	"atena/internal/domain/installment"
	"atena/internal/domain/recurring"
	"atena/internal/domain/transaction"
	"atena/internal/interfaces/scheduler"
)

var testToday = civil.Date{Year: 2024, Month: 3, Day: 20}

func fixedToday() civil.Date { return testToday }

type MockAccountService struct {
	CreateAccountFunc func(ctx context.Context, params account.CreateParams) (*account.Account, error)
	GetAccountFunc    func(ctx context.Context, id string) (*account.Account, error)
	ListAccountsFunc  func(ctx context.Context) ([]*account.Account, error)
	UpdateAccountFunc func(ctx context.Context, id string, params account.UpdateParams) (*account.Account, error)
	DeleteAccountFunc func(ctx context.Context, id string) error
}

func (m *MockAccountService) CreateAccount(ctx context.Context, params account.CreateParams) (*account.Account, error) {
	if m.CreateAccountFunc != nil {
		return m.CreateAccountFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockAccountService) GetAccount(ctx context.Context, id string) (*account.Account, error) {
	if m.GetAccountFunc != nil {
		return m.GetAccountFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockAccountService) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	if m.ListAccountsFunc != nil {
		return m.ListAccountsFunc(ctx)
	}
	return nil, nil
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, id string, params account.UpdateParams) (*account.Account, error) {
	if m.UpdateAccountFunc != nil {
		return m.UpdateAccountFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, id string) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, id)
	}
	return nil
}

type MockCategoryService struct {
	CreateFunc  func(ctx context.Context, params category.CreateParams) (*category.Category, error)
	GetByIDFunc func(ctx context.Context, id string) (*category.Category, error)
	ListFunc    func(ctx context.Context) ([]*category.Category, error)
	UpdateFunc  func(ctx context.Context, id string, params category.UpdateParams) (*category.Category, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *MockCategoryService) Create(ctx context.Context, params category.CreateParams) (*category.Category, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockCategoryService) GetByID(ctx context.Context, id string) (*category.Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCategoryService) List(ctx context.Context) ([]*category.Category, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockCategoryService) Update(ctx context.Context, id string, params category.UpdateParams) (*category.Category, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockCategoryService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type MockCreditCardService struct {
	CreateFunc    func(ctx context.Context, params creditcard.CreateParams) (*creditcard.CreditCard, error)
	GetByIDFunc   func(ctx context.Context, id string) (*creditcard.CreditCard, error)
	ListFunc      func(ctx context.Context) ([]*creditcard.CreditCard, error)
	UpdateFunc    func(ctx context.Context, id string, params creditcard.UpdateParams) (*creditcard.CreditCard, error)
	DeleteFunc    func(ctx context.Context, id string) error
	StatementFunc func(ctx context.Context, cardID string, today civil.Date) (*creditcard.Statement, error)
	PayBillFunc   func(ctx context.Context, cardID string, today civil.Date) ([]*transaction.Transaction, error)
}

func (m *MockCreditCardService) Create(ctx context.Context, params creditcard.CreateParams) (*creditcard.CreditCard, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockCreditCardService) GetByID(ctx context.Context, id string) (*creditcard.CreditCard, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockCreditCardService) List(ctx context.Context) ([]*creditcard.CreditCard, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockCreditCardService) Update(ctx context.Context, id string, params creditcard.UpdateParams) (*creditcard.CreditCard, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockCreditCardService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockCreditCardService) Statement(ctx context.Context, cardID string, today civil.Date) (*creditcard.Statement, error) {
	if m.StatementFunc != nil {
		return m.StatementFunc(ctx, cardID, today)
	}
	return nil, nil
}

func (m *MockCreditCardService) PayBill(ctx context.Context, cardID string, today civil.Date) ([]*transaction.Transaction, error) {
	if m.PayBillFunc != nil {
		return m.PayBillFunc(ctx, cardID, today)
	}
	return nil, nil
}

type MockInstallmentService struct {
	PreviewFunc func(ctx context.Context, req installment.Request) ([]installment.Installment, error)
	CreateFunc  func(ctx context.Context, req installment.Request) ([]*transaction.Transaction, error)
}

func (m *MockInstallmentService) Preview(ctx context.Context, req installment.Request) ([]installment.Installment, error) {
	if m.PreviewFunc != nil {
		return m.PreviewFunc(ctx, req)
	}
	return nil, nil
}

func (m *MockInstallmentService) Create(ctx context.Context, req installment.Request) ([]*transaction.Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return nil, nil
}

type MockTransactionService struct {
	CreateFunc     func(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
	CreateManyFunc func(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error)
	GetByIDFunc    func(ctx context.Context, id string) (*transaction.Transaction, error)
	ListFunc       func(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
	UpdateFunc     func(ctx context.Context, id string, params transaction.UpdateParams) (*transaction.Transaction, error)
	DeleteFunc     func(ctx context.Context, id string) error
}

func (m *MockTransactionService) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockTransactionService) CreateMany(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error) {
	if m.CreateManyFunc != nil {
		return m.CreateManyFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockTransactionService) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTransactionService) List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, nil
}

func (m *MockTransactionService) Update(ctx context.Context, id string, params transaction.UpdateParams) (*transaction.Transaction, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockTransactionService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type MockRecurringService struct {
	CreateFunc  func(ctx context.Context, params recurring.CreateParams, today civil.Date) (*recurring.Schedule, error)
	GetByIDFunc func(ctx context.Context, id string) (*recurring.Schedule, error)
	ListFunc    func(ctx context.Context) ([]*recurring.Schedule, error)
	UpdateFunc  func(ctx context.Context, id string, params recurring.UpdateParams) (*recurring.Schedule, error)
	DeleteFunc  func(ctx context.Context, id string) error
}

func (m *MockRecurringService) Create(ctx context.Context, params recurring.CreateParams, today civil.Date) (*recurring.Schedule, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params, today)
	}
	return nil, nil
}

func (m *MockRecurringService) GetByID(ctx context.Context, id string) (*recurring.Schedule, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockRecurringService) List(ctx context.Context) ([]*recurring.Schedule, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockRecurringService) Update(ctx context.Context, id string, params recurring.UpdateParams) (*recurring.Schedule, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, params)
	}
	return nil, nil
}

func (m *MockRecurringService) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type MockCycleRunner struct {
	RunNowFunc func(ctx context.Context) (*scheduler.CycleSummary, error)
}

func (m *MockCycleRunner) RunNow(ctx context.Context) (*scheduler.CycleSummary, error) {
	if m.RunNowFunc != nil {
		return m.RunNowFunc(ctx)
	}
	return &scheduler.CycleSummary{}, nil
}
