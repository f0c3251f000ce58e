package category

import (
	"context"

	"github.com/google/uuid"
)

// Service contains the business logic for category operations
type Service struct {
	repo Repository
}

// NewService creates a new category service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Category, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.ID == "" {
		params.ID = uuid.New().String()
	}
	return s.repo.Create(ctx, params)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Category, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, params)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
