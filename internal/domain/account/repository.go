package account

import (
	"context"
)

// Repository defines the interface for account data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	List(ctx context.Context) ([]*Account, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Account, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}
