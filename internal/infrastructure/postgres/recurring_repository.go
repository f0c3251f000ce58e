package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"

	"atena/internal/domain/calendar"
	"atena/internal/domain/recurring"
)

const scheduleColumns = `id, original_transaction_id, recurrence_type, next_payment_date, recurrence_end_date,
	is_active, last_generated_date, version, created_at, updated_at`

// RecurringRepository implements recurring.Store
type RecurringRepository struct {
	db *DB
}

func NewRecurringRepository(db *DB) *RecurringRepository {
	return &RecurringRepository{db: db}
}

func scanSchedule(row rowScanner) (*recurring.Schedule, error) {
	var s recurring.Schedule
	var cadence string
	var next sql.NullTime
	var end, last sql.NullTime

	err := row.Scan(
		&s.ID, &s.OriginalTransactionID, &cadence, &next, &end,
		&s.IsActive, &last, &s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Cadence = calendar.Cadence(cadence)
	if next.Valid {
		s.NextDueDate = civil.DateOf(next.Time)
	}
	s.EndDate = scanNullDate(end)
	s.LastGeneratedDate = scanNullDate(last)
	return &s, nil
}

func (r *RecurringRepository) Create(ctx context.Context, s *recurring.Schedule) (*recurring.Schedule, error) {
	query := `
		INSERT INTO recurring_transactions (id, original_transaction_id, recurrence_type, next_payment_date,
		                                    recurrence_end_date, is_active, last_generated_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + scheduleColumns

	created, err := scanSchedule(r.db.QueryRowContext(
		ctx, query,
		s.ID, s.OriginalTransactionID, string(s.Cadence), dateArg(s.NextDueDate),
		nullDateArg(s.EndDate), s.IsActive, nullDateArg(s.LastGeneratedDate),
	))
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %v", recurring.ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("failed to create recurring schedule: %w", err)
	}
	return created, nil
}

func (r *RecurringRepository) GetByID(ctx context.Context, id string) (*recurring.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM recurring_transactions WHERE id = $1`

	s, err := scanSchedule(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, recurring.ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recurring schedule: %w", err)
	}
	return s, nil
}

// List returns every schedule, active or not, oldest due first
func (r *RecurringRepository) List(ctx context.Context) ([]*recurring.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM recurring_transactions ORDER BY next_payment_date, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring schedules: %w", err)
	}
	defer rows.Close()

	schedules := []*recurring.Schedule{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recurring schedules: %w", err)
	}
	return schedules, nil
}

// Update applies a CRUD edit. It bumps the version so an in-flight tick
// working from the old row loses its claim.
func (r *RecurringRepository) Update(ctx context.Context, id string, params recurring.UpdateParams) (*recurring.Schedule, error) {
	var u updateBuilder
	if params.Cadence != nil {
		u.add("recurrence_type", string(*params.Cadence))
	}
	if params.NextDueDate != nil {
		u.add("next_payment_date", dateArg(*params.NextDueDate))
	}
	if params.EndDate != nil {
		u.add("recurrence_end_date", dateArg(*params.EndDate))
	}
	if params.IsActive != nil {
		u.add("is_active", *params.IsActive)
	}
	if u.empty() {
		return r.GetByID(ctx, id)
	}
	u.sets = append(u.sets, "version = version + 1")

	query, args := u.build("recurring_transactions", id, scheduleColumns)
	s, err := scanSchedule(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, recurring.ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update recurring schedule: %w", err)
	}
	return s, nil
}

// Advance moves the generation pointers with an optimistic version check
func (r *RecurringRepository) Advance(ctx context.Context, id string, expectedVersion int64, last *civil.Date, next civil.Date) (*recurring.Schedule, error) {
	query := `
		UPDATE recurring_transactions
		SET last_generated_date = $1, next_payment_date = $2, version = version + 1, updated_at = NOW()
		WHERE id = $3 AND version = $4
		RETURNING ` + scheduleColumns

	s, err := scanSchedule(r.db.QueryRowContext(ctx, query, nullDateArg(last), dateArg(next), id, expectedVersion))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to advance recurring schedule: %w", err)
	}

	// no row matched: tell a missing schedule apart from a lost race
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM recurring_transactions WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check recurring schedule: %w", err)
	}
	if !exists {
		return nil, recurring.ErrScheduleNotFound
	}
	return nil, recurring.ErrScheduleConflict
}

func (r *RecurringRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM recurring_transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recurring schedule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return recurring.ErrScheduleNotFound
	}
	return nil
}
