package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Service contains the business logic for account operations
type Service struct {
	repo Repository
}

// NewService creates a new account service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateAccount creates a new account with business validation
func (s *Service) CreateAccount(ctx context.Context, params CreateParams) (*Account, error) {
	if params.ID == "" {
		params.ID = uuid.New().String()
	}

	if err := params.Validate(); err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}

	return s.repo.Create(ctx, params)
}

// GetAccount retrieves an account by ID
func (s *Service) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts retrieves all accounts
func (s *Service) ListAccounts(ctx context.Context) ([]*Account, error) {
	return s.repo.List(ctx)
}

// UpdateAccount applies a partial update
func (s *Service) UpdateAccount(ctx context.Context, accountID string, params UpdateParams) (*Account, error) {
	if err := params.Validate(); err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}
	return s.repo.Update(ctx, accountID, params)
}

// DeleteAccount deletes an account after checking it exists
func (s *Service) DeleteAccount(ctx context.Context, accountID string) error {
	exists, err := s.repo.Exists(ctx, accountID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrAccountNotFound
	}
	return s.repo.Delete(ctx, accountID)
}

// AccountExists checks if an account exists
func (s *Service) AccountExists(ctx context.Context, accountID string) (bool, error) {
	return s.repo.Exists(ctx, accountID)
}
