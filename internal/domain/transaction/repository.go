package transaction

import (
	"context"
)

// Repository defines the interface for transaction data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Transaction, error)
	// GetByID returns ErrTransactionNotFound when no row matches
	GetByID(ctx context.Context, id string) (*Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Transaction, error)
	// UpdateStatus sets the status of every listed transaction and returns the updated rows
	UpdateStatus(ctx context.Context, ids []string, status string) ([]*Transaction, error)
	Delete(ctx context.Context, id string) error
}
