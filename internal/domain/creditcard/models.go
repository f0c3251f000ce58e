package creditcard

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"atena/internal/domain/transaction"
)

// Domain errors
var (
	ErrCreditCardNotFound = errors.New("credit card not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidClosingDay  = errors.New("closing day must be between 1 and 31")
	ErrInvalidDueDay      = errors.New("due day must be between 1 and 31")
	ErrInvalidLimit       = errors.New("limit must not be negative")
)

// LimitRecord is one entry of a card's limit history
type LimitRecord struct {
	Date  civil.Date      `json:"date"`
	Limit decimal.Decimal `json:"limit"`
}

type CreditCard struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Limit        decimal.Decimal `json:"limit"`
	ClosingDay   int             `json:"closingDay"`
	DueDay       int             `json:"dueDay"`
	LimitHistory []LimitRecord   `json:"limitHistory"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type CreateParams struct {
	ID           string
	Name         string
	Limit        decimal.Decimal
	ClosingDay   int
	DueDay       int
	LimitHistory []LimitRecord
}

func (p CreateParams) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if p.Limit.IsNegative() {
		return ErrInvalidLimit
	}
	if !validDay(p.ClosingDay) {
		return ErrInvalidClosingDay
	}
	if !validDay(p.DueDay) {
		return ErrInvalidDueDay
	}
	return nil
}

// UpdateParams holds a partial update. LimitHistory is maintained by the service.
type UpdateParams struct {
	Name         *string
	Limit        *decimal.Decimal
	ClosingDay   *int
	DueDay       *int
	LimitHistory []LimitRecord
}

func (p UpdateParams) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	if p.Limit != nil && p.Limit.IsNegative() {
		return ErrInvalidLimit
	}
	if p.ClosingDay != nil && !validDay(*p.ClosingDay) {
		return ErrInvalidClosingDay
	}
	if p.DueDay != nil && !validDay(*p.DueDay) {
		return ErrInvalidDueDay
	}
	return nil
}

// Statement summarizes the card's current billing cycle
type Statement struct {
	CardID         string                     `json:"cardId"`
	ClosingDate    civil.Date                 `json:"closingDate"`
	DueDate        civil.Date                 `json:"dueDate"`
	BillTotal      decimal.Decimal            `json:"billTotal"`
	PendingTotal   decimal.Decimal            `json:"pendingTotal"`
	Limit          decimal.Decimal            `json:"limit"`
	AvailableLimit decimal.Decimal            `json:"availableLimit"`
	UsedPercentage decimal.Decimal            `json:"usedPercentage"`
	Transactions   []*transaction.Transaction `json:"transactions"`
}

func validDay(d int) bool {
	return d >= 1 && d <= 31
}
