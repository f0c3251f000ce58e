package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/lib/pq"

	"atena/internal/domain/transaction"
)

const transactionColumns = `id, account_id, description, type, category_id, amount, payment_method, status,
	payment_date, from_account_id, to_account_id, credit_card_id, created_at, updated_at`

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func scanTransaction(row rowScanner) (*transaction.Transaction, error) {
	var t transaction.Transaction
	var paymentDate sql.NullTime
	var fromAccount, toAccount, card sql.NullString

	err := row.Scan(
		&t.ID, &t.AccountID, &t.Description, &t.Type, &t.CategoryID, &t.Amount,
		&t.PaymentMethod, &t.Status, &paymentDate, &fromAccount, &toAccount, &card,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paymentDate.Valid {
		t.PaymentDate = civil.DateOf(paymentDate.Time)
	}
	t.FromAccountID = stringPtr(fromAccount)
	t.ToAccountID = stringPtr(toAccount)
	t.CreditCardID = stringPtr(card)
	return &t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (id, account_id, description, type, category_id, amount, payment_method,
		                          status, payment_date, from_account_id, to_account_id, credit_card_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + transactionColumns

	t, err := scanTransaction(r.db.QueryRowContext(
		ctx, query,
		params.ID, params.AccountID, params.Description, params.Type, params.CategoryID, params.Amount,
		params.PaymentMethod, params.Status, dateArg(params.PaymentDate),
		nullString(params.FromAccountID), nullString(params.ToAccountID), nullString(params.CreditCardID),
	))
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %v", transaction.ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return t, nil
}

// listQuery builds the filtered SELECT for List
func listQuery(filter transaction.ListFilter) (string, []any) {
	var where []string
	var args []any

	addCond := func(column string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if filter.CreditCardID != "" {
		addCond("credit_card_id", filter.CreditCardID)
	}
	if filter.Status != "" {
		addCond("status", filter.Status)
	}
	if filter.Type != "" {
		addCond("type", filter.Type)
	}

	var b strings.Builder
	b.WriteString("SELECT " + transactionColumns + " FROM transactions")
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY payment_date DESC, created_at DESC")

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}
	return b.String(), args
}

func (r *TransactionRepository) List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query, args := listQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows *sql.Rows) ([]*transaction.Transaction, error) {
	txns := []*transaction.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return txns, nil
}

func (r *TransactionRepository) Update(ctx context.Context, id string, params transaction.UpdateParams) (*transaction.Transaction, error) {
	var u updateBuilder
	if params.AccountID != nil {
		u.add("account_id", *params.AccountID)
	}
	if params.Description != nil {
		u.add("description", *params.Description)
	}
	if params.Type != nil {
		u.add("type", *params.Type)
	}
	if params.CategoryID != nil {
		u.add("category_id", *params.CategoryID)
	}
	if params.Amount != nil {
		u.add("amount", *params.Amount)
	}
	if params.PaymentMethod != nil {
		u.add("payment_method", *params.PaymentMethod)
	}
	if params.Status != nil {
		u.add("status", *params.Status)
	}
	if params.PaymentDate != nil {
		u.add("payment_date", dateArg(*params.PaymentDate))
	}
	if params.CreditCardID != nil {
		u.add("credit_card_id", nullString(params.CreditCardID))
	}
	if u.empty() {
		return r.GetByID(ctx, id)
	}

	query, args := u.build("transactions", id, transactionColumns)
	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, transaction.ErrTransactionNotFound
	}
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %v", transaction.ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, ids []string, status string) ([]*transaction.Transaction, error) {
	query := `
		UPDATE transactions SET status = $1, updated_at = NOW()
		WHERE id = ANY($2)
		RETURNING ` + transactionColumns

	rows, err := r.db.QueryContext(ctx, query, status, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction status: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return transaction.ErrTransactionNotFound
	}
	return nil
}
