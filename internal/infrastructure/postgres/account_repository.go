package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"atena/internal/domain/account"
)

const accountColumns = `id, institution, type, description, created_at, updated_at`

type AccountRepository struct {
	db *DB
}

func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func scanAccount(row rowScanner) (*account.Account, error) {
	var a account.Account
	var description sql.NullString

	if err := row.Scan(&a.ID, &a.Institution, &a.Type, &description, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Description = description.String
	return &a, nil
}

func (r *AccountRepository) Create(ctx context.Context, params account.CreateParams) (*account.Account, error) {
	query := `
		INSERT INTO accounts (id, institution, type, description)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + accountColumns

	a, err := scanAccount(r.db.QueryRowContext(ctx, query,
		params.ID, params.Institution, params.Type, nullString(&params.Description)))
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %v", account.ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) List(ctx context.Context) ([]*account.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY institution, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []*account.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) Update(ctx context.Context, id string, params account.UpdateParams) (*account.Account, error) {
	var u updateBuilder
	if params.Institution != nil {
		u.add("institution", *params.Institution)
	}
	if params.Type != nil {
		u.add("type", *params.Type)
	}
	if params.Description != nil {
		u.add("description", nullString(params.Description))
	}
	if u.empty() {
		return r.GetByID(ctx, id)
	}

	query, args := u.build("accounts", id, accountColumns)
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return a, nil
}

func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: account still has transactions", account.ErrInvalidInput)
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return account.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return exists, nil
}
