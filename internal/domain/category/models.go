package category

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Category types
const (
	TypeIncome  = "INCOME"
	TypeExpense = "EXPENSE"
)

// Domain errors
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidType      = errors.New("category type must be INCOME or EXPENSE")
)

var hundred = decimal.NewFromInt(100)

type Category struct {
	ID                      string          `json:"id"`
	Name                    string          `json:"name"`
	Icon                    string          `json:"icon,omitempty"`
	Color                   string          `json:"color"`
	Type                    string          `json:"type"`
	MonthlyBudgetAmount     decimal.Decimal `json:"monthlyBudgetAmount"`
	MonthlyBudgetPercentage decimal.Decimal `json:"monthlyBudgetPercentage"`
	CreatedAt               time.Time       `json:"createdAt"`
	UpdatedAt               time.Time       `json:"updatedAt"`
}

type CreateParams struct {
	ID                      string
	Name                    string
	Icon                    string
	Color                   string
	Type                    string
	MonthlyBudgetAmount     decimal.Decimal
	MonthlyBudgetPercentage decimal.Decimal
}

func (p CreateParams) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if p.Color == "" {
		return fmt.Errorf("%w: color is required", ErrInvalidInput)
	}
	if p.Type != TypeIncome && p.Type != TypeExpense {
		return ErrInvalidType
	}
	return validateBudget(p.MonthlyBudgetAmount, p.MonthlyBudgetPercentage)
}

type UpdateParams struct {
	Name                    *string
	Icon                    *string
	Color                   *string
	Type                    *string
	MonthlyBudgetAmount     *decimal.Decimal
	MonthlyBudgetPercentage *decimal.Decimal
}

func (p UpdateParams) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	if p.Color != nil && *p.Color == "" {
		return fmt.Errorf("%w: color must not be empty", ErrInvalidInput)
	}
	if p.Type != nil && *p.Type != TypeIncome && *p.Type != TypeExpense {
		return ErrInvalidType
	}
	amount, pct := decimal.Zero, decimal.Zero
	if p.MonthlyBudgetAmount != nil {
		amount = *p.MonthlyBudgetAmount
	}
	if p.MonthlyBudgetPercentage != nil {
		pct = *p.MonthlyBudgetPercentage
	}
	return validateBudget(amount, pct)
}

func validateBudget(amount, pct decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: monthly budget must not be negative", ErrInvalidInput)
	}
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return fmt.Errorf("%w: monthly budget percentage must be between 0 and 100", ErrInvalidInput)
	}
	return nil
}
