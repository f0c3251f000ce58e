package recurring

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"atena/internal/domain/calendar"
	"atena/internal/domain/transaction"
)

// Domain errors
var (
	ErrScheduleNotFound = errors.New("recurring schedule not found")
	ErrScheduleConflict = errors.New("recurring schedule was modified concurrently")
	ErrTemplateNotFound = errors.New("template transaction not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidCadence   = calendar.ErrInvalidCadence
)

// Schedule drives the periodic materialization of a template transaction
type Schedule struct {
	ID                    string           `json:"id"`
	OriginalTransactionID string           `json:"originalTransactionId"`
	Cadence               calendar.Cadence `json:"recurrenceType"`
	NextDueDate           civil.Date       `json:"nextPaymentDate"`
	EndDate               *civil.Date      `json:"recurrenceEndDate,omitempty"`
	IsActive              bool             `json:"isActive"`
	LastGeneratedDate     *civil.Date      `json:"lastGeneratedDate,omitempty"`
	Version               int64            `json:"version"`
	CreatedAt             time.Time        `json:"createdAt"`
	UpdatedAt             time.Time        `json:"updatedAt"`
}

// IsDue reports whether the schedule should generate on today
func (s *Schedule) IsDue(today civil.Date) bool {
	return !s.NextDueDate.After(today)
}

type CreateParams struct {
	ID                    string
	OriginalTransactionID string
	Cadence               calendar.Cadence
	// NextDueDate defaults to one cadence step after today
	NextDueDate *civil.Date
	EndDate     *civil.Date
	IsActive    *bool
}

func (p CreateParams) Validate() error {
	if p.OriginalTransactionID == "" {
		return fmt.Errorf("%w: original transaction is required", ErrInvalidInput)
	}
	if err := p.Cadence.Validate(); err != nil {
		return err
	}
	if p.NextDueDate != nil && !p.NextDueDate.IsValid() {
		return fmt.Errorf("%w: invalid next due date", ErrInvalidInput)
	}
	if p.EndDate != nil && !p.EndDate.IsValid() {
		return fmt.Errorf("%w: invalid end date", ErrInvalidInput)
	}
	return nil
}

type UpdateParams struct {
	Cadence     *calendar.Cadence
	NextDueDate *civil.Date
	EndDate     *civil.Date
	IsActive    *bool
}

func (p UpdateParams) Validate() error {
	if p.Cadence != nil {
		if err := p.Cadence.Validate(); err != nil {
			return err
		}
	}
	if p.NextDueDate != nil && !p.NextDueDate.IsValid() {
		return fmt.Errorf("%w: invalid next due date", ErrInvalidInput)
	}
	if p.EndDate != nil && !p.EndDate.IsValid() {
		return fmt.Errorf("%w: invalid end date", ErrInvalidInput)
	}
	return nil
}

// TickResult is the outcome of evaluating one schedule
type TickResult struct {
	Generated   bool                     `json:"generated"`
	Transaction *transaction.Transaction `json:"transaction,omitempty"`
	Schedule    *Schedule                `json:"schedule"`
	// Skipped names the gate that suppressed generation, if any
	Skipped string `json:"skipped,omitempty"`
}
