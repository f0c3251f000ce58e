// Package installment splits a credit-card purchase into monthly installments
// aligned with the card's billing cycle.
package installment

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"atena/internal/domain/calendar"
)

// Domain errors
var (
	ErrInvalidInstallmentCount = errors.New("installment count must be between 1 and 120")
	ErrInvalidClosingDay       = errors.New("closing day must be between 1 and 31")
	ErrInvalidInterest         = errors.New("interest multiplier must be positive")
	ErrInvalidAmount           = errors.New("total amount must be positive")
)

// MaxInstallments caps how many installments a single purchase can be split into
const MaxInstallments = 120

// PlanInput describes a purchase to split
type PlanInput struct {
	Description string
	TotalAmount decimal.Decimal
	Count       int
	// InterestMultiplier scales the total. Zero means 1.
	InterestMultiplier decimal.Decimal
	ClosingDay         int
	Today              civil.Date
}

// Installment is one slice of a plan
type Installment struct {
	Sequence int             `json:"sequence"`
	Count    int             `json:"count"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  civil.Date      `json:"dueDate"`
	Label    string          `json:"label"`
}

func (in PlanInput) multiplier() decimal.Decimal {
	if in.InterestMultiplier.IsZero() {
		return decimal.NewFromInt(1)
	}
	return in.InterestMultiplier
}

// Validate checks the input without computing the plan
func (in PlanInput) Validate() error {
	if in.Count < 1 || in.Count > MaxInstallments {
		return ErrInvalidInstallmentCount
	}
	if in.ClosingDay < 1 || in.ClosingDay > 31 {
		return ErrInvalidClosingDay
	}
	if in.InterestMultiplier.IsNegative() {
		return ErrInvalidInterest
	}
	if !in.TotalAmount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// Plan splits the grand total into Count installments. Every installment but
// the last is the grand total divided by Count and truncated to cents; the last
// one absorbs the remainder so the amounts sum to the rounded grand total.
func Plan(in PlanInput) ([]Installment, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	grand := in.TotalAmount.Mul(in.multiplier())
	count := decimal.NewFromInt(int64(in.Count))
	base := grand.Div(count).Truncate(2)
	last := grand.Sub(base.Mul(decimal.NewFromInt(int64(in.Count - 1)))).Round(2)

	first := calendar.FirstBillingDate(in.Today, in.ClosingDay)

	plan := make([]Installment, in.Count)
	for i := range plan {
		amount := base
		if i == in.Count-1 {
			amount = last
		}
		plan[i] = Installment{
			Sequence: i + 1,
			Count:    in.Count,
			Amount:   amount,
			DueDate:  calendar.AddMonths(first, i, in.ClosingDay),
			Label:    label(in.Description, i+1, in.Count),
		}
	}
	return plan, nil
}

// Total sums the plan's amounts
func Total(plan []Installment) decimal.Decimal {
	sum := decimal.Zero
	for _, inst := range plan {
		sum = sum.Add(inst.Amount)
	}
	return sum
}

func label(description string, seq, count int) string {
	if count <= 1 {
		return description
	}
	return fmt.Sprintf("%s (%d/%d)", description, seq, count)
}
