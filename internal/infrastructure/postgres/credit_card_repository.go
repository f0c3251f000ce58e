package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"atena/internal/domain/creditcard"
)

const creditCardColumns = `id, name, credit_limit, closing_day, due_day, limit_history, created_at, updated_at`

type CreditCardRepository struct {
	db *DB
}

func NewCreditCardRepository(db *DB) *CreditCardRepository {
	return &CreditCardRepository{db: db}
}

func scanCreditCard(row rowScanner) (*creditcard.CreditCard, error) {
	var c creditcard.CreditCard
	var history []byte

	err := row.Scan(&c.ID, &c.Name, &c.Limit, &c.ClosingDay, &c.DueDay, &history, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.LimitHistory = []creditcard.LimitRecord{}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &c.LimitHistory); err != nil {
			return nil, fmt.Errorf("failed to decode limit history: %w", err)
		}
	}
	return &c, nil
}

func encodeLimitHistory(history []creditcard.LimitRecord) ([]byte, error) {
	if history == nil {
		history = []creditcard.LimitRecord{}
	}
	b, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("failed to encode limit history: %w", err)
	}
	return b, nil
}

func (r *CreditCardRepository) Create(ctx context.Context, params creditcard.CreateParams) (*creditcard.CreditCard, error) {
	history, err := encodeLimitHistory(params.LimitHistory)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO credit_cards (id, name, credit_limit, closing_day, due_day, limit_history)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + creditCardColumns

	c, err := scanCreditCard(r.db.QueryRowContext(ctx, query,
		params.ID, params.Name, params.Limit, params.ClosingDay, params.DueDay, history))
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %v", creditcard.ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("failed to create credit card: %w", err)
	}
	return c, nil
}

func (r *CreditCardRepository) GetByID(ctx context.Context, id string) (*creditcard.CreditCard, error) {
	query := `SELECT ` + creditCardColumns + ` FROM credit_cards WHERE id = $1`

	c, err := scanCreditCard(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, creditcard.ErrCreditCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credit card: %w", err)
	}
	return c, nil
}

func (r *CreditCardRepository) List(ctx context.Context) ([]*creditcard.CreditCard, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+creditCardColumns+` FROM credit_cards ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list credit cards: %w", err)
	}
	defer rows.Close()

	cards := []*creditcard.CreditCard{}
	for rows.Next() {
		c, err := scanCreditCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit card: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating credit cards: %w", err)
	}
	return cards, nil
}

func (r *CreditCardRepository) Update(ctx context.Context, id string, params creditcard.UpdateParams) (*creditcard.CreditCard, error) {
	var u updateBuilder
	if params.Name != nil {
		u.add("name", *params.Name)
	}
	if params.Limit != nil {
		u.add("credit_limit", *params.Limit)
	}
	if params.ClosingDay != nil {
		u.add("closing_day", *params.ClosingDay)
	}
	if params.DueDay != nil {
		u.add("due_day", *params.DueDay)
	}
	if params.LimitHistory != nil {
		history, err := encodeLimitHistory(params.LimitHistory)
		if err != nil {
			return nil, err
		}
		u.add("limit_history", history)
	}
	if u.empty() {
		return r.GetByID(ctx, id)
	}

	query, args := u.build("credit_cards", id, creditCardColumns)
	c, err := scanCreditCard(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, creditcard.ErrCreditCardNotFound
	}
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %v", creditcard.ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("failed to update credit card: %w", err)
	}
	return c, nil
}

func (r *CreditCardRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM credit_cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete credit card: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return creditcard.ErrCreditCardNotFound
	}
	return nil
}
