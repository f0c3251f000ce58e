package recurring

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"atena/internal/domain/calendar"
	"atena/internal/domain/transaction"
)

// Service handles schedule CRUD
type Service struct {
	store     Store
	templates TemplateLookup
}

// NewService creates a new recurring schedule service
func NewService(store Store, templates TemplateLookup) *Service {
	return &Service{store: store, templates: templates}
}

// Create registers a schedule for an existing transaction. Without an explicit
// next due date the first occurrence is one cadence step after today.
func (s *Service) Create(ctx context.Context, params CreateParams, today civil.Date) (*Schedule, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.templates.GetByID(ctx, params.OriginalTransactionID); err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to load template transaction: %w", err)
	}

	sched := &Schedule{
		ID:                    params.ID,
		OriginalTransactionID: params.OriginalTransactionID,
		Cadence:               params.Cadence,
		EndDate:               params.EndDate,
		IsActive:              true,
	}
	if sched.ID == "" {
		sched.ID = uuid.New().String()
	}
	if params.IsActive != nil {
		sched.IsActive = *params.IsActive
	}
	if params.NextDueDate != nil {
		sched.NextDueDate = *params.NextDueDate
	} else {
		sched.NextDueDate = calendar.Advance(today, params.Cadence)
	}

	return s.store.Create(ctx, sched)
}

func (s *Service) GetByID(ctx context.Context, id string) (*Schedule, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Schedule, error) {
	return s.store.List(ctx)
}

func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*Schedule, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, params)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
