package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"atena/internal/domain/category"
)

const categoryColumns = `id, name, icon, color, type, monthly_budget_amount, monthly_budget_percentage, created_at, updated_at`

type CategoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func scanCategory(row rowScanner) (*category.Category, error) {
	var c category.Category
	var icon sql.NullString

	err := row.Scan(&c.ID, &c.Name, &icon, &c.Color, &c.Type,
		&c.MonthlyBudgetAmount, &c.MonthlyBudgetPercentage, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Icon = icon.String
	return &c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, params category.CreateParams) (*category.Category, error) {
	query := `
		INSERT INTO categories (id, name, icon, color, type, monthly_budget_amount, monthly_budget_percentage)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + categoryColumns

	c, err := scanCategory(r.db.QueryRowContext(ctx, query,
		params.ID, params.Name, nullString(&params.Icon), params.Color, params.Type,
		params.MonthlyBudgetAmount, params.MonthlyBudgetPercentage))
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("%w: %v", category.ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*category.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY type, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*category.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id string, params category.UpdateParams) (*category.Category, error) {
	var u updateBuilder
	if params.Name != nil {
		u.add("name", *params.Name)
	}
	if params.Icon != nil {
		u.add("icon", nullString(params.Icon))
	}
	if params.Color != nil {
		u.add("color", *params.Color)
	}
	if params.Type != nil {
		u.add("type", *params.Type)
	}
	if params.MonthlyBudgetAmount != nil {
		u.add("monthly_budget_amount", *params.MonthlyBudgetAmount)
	}
	if params.MonthlyBudgetPercentage != nil {
		u.add("monthly_budget_percentage", *params.MonthlyBudgetPercentage)
	}
	if u.empty() {
		return r.GetByID(ctx, id)
	}

	query, args := u.build("categories", id, categoryColumns)
	c, err := scanCategory(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return c, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: category is still in use", category.ErrInvalidInput)
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return category.ErrCategoryNotFound
	}
	return nil
}
