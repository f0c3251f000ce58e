package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Service contains the business logic for transaction operations
type Service struct {
	repo Repository
}

// NewService creates a new transaction service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create validates and persists a single transaction
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if params.ID == "" {
		params.ID = uuid.New().String()
	}
	if params.Status == "" {
		params.Status = StatusPending
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, params)
}

// CreateMany persists transactions in order. On failure it returns the ones
// already created together with the error.
func (s *Service) CreateMany(ctx context.Context, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("%w: no transactions given", ErrInvalidInput)
	}

	created := make([]*Transaction, 0, len(params))
	for i, p := range params {
		txn, err := s.Create(ctx, p)
		if err != nil {
			return created, fmt.Errorf("failed to create transaction %d of %d: %w", i+1, len(params), err)
		}
		created = append(created, txn)
	}
	return created, nil
}

// GetByID retrieves a transaction by ID
func (s *Service) GetByID(ctx context.Context, id string) (*Transaction, error) {
	if id == "" {
		return nil, ErrTransactionNotFound
	}
	txn, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return txn, nil
}

// List returns transactions matching the filter, newest payment date first
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	if filter.Status != "" && !IsValidStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	if filter.Type != "" && !IsValidType(filter.Type) {
		return nil, ErrInvalidType
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, fmt.Errorf("%w: negative pagination", ErrInvalidInput)
	}
	return s.repo.List(ctx, filter)
}

// Update applies a partial update
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, params)
}

// Complete marks the given transactions as COMPLETED
func (s *Service) Complete(ctx context.Context, ids []string) ([]*Transaction, error) {
	if len(ids) == 0 {
		return []*Transaction{}, nil
	}
	return s.repo.UpdateStatus(ctx, ids, StatusCompleted)
}

// Delete removes a transaction
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
