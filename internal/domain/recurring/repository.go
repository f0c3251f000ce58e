package recurring

import (
	"context"

	"cloud.google.com/go/civil"
)

// Store defines the interface for schedule persistence
type Store interface {
	Create(ctx context.Context, s *Schedule) (*Schedule, error)
	GetByID(ctx context.Context, id string) (*Schedule, error)
	List(ctx context.Context) ([]*Schedule, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Schedule, error)
	Delete(ctx context.Context, id string) error

	// Advance moves the generation pointers only if the stored version still
	// equals expectedVersion, bumping the version. A stale version yields
	// ErrScheduleConflict.
	Advance(ctx context.Context, id string, expectedVersion int64, last *civil.Date, next civil.Date) (*Schedule, error)
}
