package recurring

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"

	"atena/internal/domain/calendar"
	"atena/internal/domain/transaction"
	"atena/internal/shared/logger"
)

// TemplateLookup resolves the transaction a schedule copies from
type TemplateLookup interface {
	GetByID(ctx context.Context, id string) (*transaction.Transaction, error)
}

// TransactionCreator persists generated transactions
type TransactionCreator interface {
	Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
}

// Notifier is told about every generated transaction
type Notifier interface {
	RecurringGenerated(ctx context.Context, s *Schedule, txn *transaction.Transaction) error
}

// Options gates generation on fields the schedule carries but that are
// ignored by default.
type Options struct {
	// HonorEndDate skips schedules whose due date is past their end date
	HonorEndDate bool
	// SkipInactive skips schedules with IsActive=false
	SkipInactive bool
}

// Skip reasons reported in TickResult.Skipped
const (
	SkipInactive = "inactive"
	SkipEnded    = "ended"
)

// Engine evaluates schedules against a calendar day and materializes the due ones
type Engine struct {
	store     Store
	templates TemplateLookup
	creator   TransactionCreator
	notifier  Notifier
	opts      Options
}

// NewEngine creates a recurrence engine. notifier may be nil.
func NewEngine(store Store, templates TemplateLookup, creator TransactionCreator, notifier Notifier, opts Options) *Engine {
	return &Engine{
		store:     store,
		templates: templates,
		creator:   creator,
		notifier:  notifier,
		opts:      opts,
	}
}

// NextDueDate computes where the schedule pointer moves after generating for
// its current due date. MONTHLY keeps the due date's day of month, stepping
// from the due date or, when that is not after today, from today's month;
// DAILY and WEEKLY step from the later of the due date and today. A result
// that is not after today is recomputed from today.
func NextDueDate(s *Schedule, today civil.Date) civil.Date {
	var next civil.Date
	if s.Cadence == calendar.Monthly {
		next = calendar.Advance(s.NextDueDate, calendar.Monthly)
		if !next.After(today) {
			next = calendar.AddMonths(today, 1, s.NextDueDate.Day)
		}
	} else {
		next = calendar.Advance(calendar.Max(s.NextDueDate, today), s.Cadence)
	}

	if !next.After(today) {
		next = calendar.Advance(today, s.Cadence)
	}
	return next
}

// GeneratedParams builds the transaction a schedule produces for dueDate
func GeneratedParams(tmpl *transaction.Transaction, dueDate civil.Date) transaction.CreateParams {
	return transaction.CreateParams{
		AccountID:     tmpl.AccountID,
		CategoryID:    tmpl.CategoryID,
		Description:   tmpl.Description,
		Type:          transaction.TypeExpense,
		Amount:        tmpl.Amount,
		PaymentMethod: tmpl.PaymentMethod,
		Status:        transaction.StatusPending,
		PaymentDate:   dueDate,
		CreditCardID:  tmpl.CreditCardID,
	}
}

// Tick evaluates one schedule. When it is due, the schedule pointer is
// claimed first and a transaction dated on the due date is created; a failed
// creation puts the pointer back. Not-due schedules are returned untouched.
func (e *Engine) Tick(ctx context.Context, s *Schedule, today civil.Date) (*TickResult, error) {
	if !s.IsDue(today) {
		return &TickResult{Schedule: s}, nil
	}
	if e.opts.SkipInactive && !s.IsActive {
		return &TickResult{Schedule: s, Skipped: SkipInactive}, nil
	}
	if e.opts.HonorEndDate && s.EndDate != nil && s.NextDueDate.After(*s.EndDate) {
		return &TickResult{Schedule: s, Skipped: SkipEnded}, nil
	}
	if err := s.Cadence.Validate(); err != nil {
		return nil, fmt.Errorf("schedule %s: %w", s.ID, err)
	}

	log := logger.FromContext(ctx).With().Str("schedule_id", s.ID).Logger()

	tmpl, err := e.templates.GetByID(ctx, s.OriginalTransactionID)
	if err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound) {
			return nil, fmt.Errorf("schedule %s references %s: %w", s.ID, s.OriginalTransactionID, ErrTemplateNotFound)
		}
		return nil, fmt.Errorf("failed to load template for schedule %s: %w", s.ID, err)
	}

	due := s.NextDueDate
	next := NextDueDate(s, today)

	claimed, err := e.store.Advance(ctx, s.ID, s.Version, &due, next)
	if err != nil {
		return nil, fmt.Errorf("failed to advance schedule %s: %w", s.ID, err)
	}

	txn, err := e.creator.Create(ctx, GeneratedParams(tmpl, due))
	if err != nil {
		// the create may have failed because ctx is done; the revert must still land
		revertCtx := context.WithoutCancel(ctx)
		if _, rerr := e.store.Advance(revertCtx, s.ID, claimed.Version, s.LastGeneratedDate, s.NextDueDate); rerr != nil {
			log.Error().Err(rerr).Str("due_date", due.String()).Msg("Failed to revert schedule after creation error")
		}
		return nil, fmt.Errorf("failed to create transaction for schedule %s: %w", s.ID, err)
	}

	log.Info().
		Str("due_date", due.String()).
		Str("next_due_date", next.String()).
		Str("transaction_id", txn.ID).
		Msg("Generated recurring transaction")

	if e.notifier != nil {
		if err := e.notifier.RecurringGenerated(ctx, claimed, txn); err != nil {
			log.Warn().Err(err).Msg("Failed to send recurring notification")
		}
	}

	return &TickResult{Generated: true, Transaction: txn, Schedule: claimed}, nil
}
