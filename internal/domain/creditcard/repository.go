package creditcard

import (
	"context"

	"atena/internal/domain/transaction"
)

// Repository defines the interface for credit card data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*CreditCard, error)
	GetByID(ctx context.Context, id string) (*CreditCard, error)
	List(ctx context.Context) ([]*CreditCard, error)
	Update(ctx context.Context, id string, params UpdateParams) (*CreditCard, error)
	Delete(ctx context.Context, id string) error
}

// TransactionStore is the slice of the transaction service a statement needs
type TransactionStore interface {
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
	Complete(ctx context.Context, ids []string) ([]*transaction.Transaction, error)
}
