package category

import (
	"context"
)

// Repository defines the interface for category data access
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Category, error)
	Delete(ctx context.Context, id string) error
}
