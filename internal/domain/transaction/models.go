package transaction

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Type values
const (
	TypeIncome     = "INCOME"
	TypeExpense    = "EXPENSE"
	TypeTransfer   = "TRANSFER"
	TypeInvestment = "INVESTMENT"
)

// Status values
const (
	StatusPending   = "PENDING"
	StatusCompleted = "COMPLETED"
	StatusCanceled  = "CANCELED"
)

// Payment method values
const (
	PaymentCash         = "CASH"
	PaymentCreditCard   = "CREDIT_CARD"
	PaymentDebitCard    = "DEBIT_CARD"
	PaymentBankTransfer = "BANK_TRANSFER"
	PaymentPix          = "PIX"
	PaymentOther        = "OTHER"
)

var transactionTypes = map[string]struct{}{
	TypeIncome:     {},
	TypeExpense:    {},
	TypeTransfer:   {},
	TypeInvestment: {},
}

var transactionStatuses = map[string]struct{}{
	StatusPending:   {},
	StatusCompleted: {},
	StatusCanceled:  {},
}

var paymentMethods = map[string]struct{}{
	PaymentCash:         {},
	PaymentCreditCard:   {},
	PaymentDebitCard:    {},
	PaymentBankTransfer: {},
	PaymentPix:          {},
	PaymentOther:        {},
}

// Domain errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidStatus       = errors.New("invalid transaction status")
	ErrInvalidPayment      = errors.New("invalid payment method")
)

type Transaction struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"accountId"`
	Description   string          `json:"description"`
	Type          string          `json:"type"`
	CategoryID    string          `json:"categoryId"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status"`
	PaymentDate   civil.Date      `json:"paymentDate"`
	FromAccountID *string         `json:"fromAccountId,omitempty"`
	ToAccountID   *string         `json:"toAccountId,omitempty"`
	CreditCardID  *string         `json:"creditCardId,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type CreateParams struct {
	ID            string
	AccountID     string
	Description   string
	Type          string
	CategoryID    string
	Amount        decimal.Decimal
	PaymentMethod string
	Status        string
	PaymentDate   civil.Date
	FromAccountID *string
	ToAccountID   *string
	CreditCardID  *string
}

// Validate checks required fields and enum values
func (p CreateParams) Validate() error {
	if p.AccountID == "" {
		return fmt.Errorf("%w: account is required", ErrInvalidInput)
	}
	if p.CategoryID == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if !IsValidType(p.Type) {
		return ErrInvalidType
	}
	if !IsValidStatus(p.Status) {
		return ErrInvalidStatus
	}
	if !IsValidPaymentMethod(p.PaymentMethod) {
		return ErrInvalidPayment
	}
	if !p.PaymentDate.IsValid() {
		return fmt.Errorf("%w: payment date is required", ErrInvalidInput)
	}
	return nil
}

type UpdateParams struct {
	AccountID     *string
	Description   *string
	Type          *string
	CategoryID    *string
	Amount        *decimal.Decimal
	PaymentMethod *string
	Status        *string
	PaymentDate   *civil.Date
	CreditCardID  *string
}

// Validate checks enum values of the fields being changed
func (p UpdateParams) Validate() error {
	if p.Type != nil && !IsValidType(*p.Type) {
		return ErrInvalidType
	}
	if p.Status != nil && !IsValidStatus(*p.Status) {
		return ErrInvalidStatus
	}
	if p.PaymentMethod != nil && !IsValidPaymentMethod(*p.PaymentMethod) {
		return ErrInvalidPayment
	}
	if p.PaymentDate != nil && !p.PaymentDate.IsValid() {
		return fmt.Errorf("%w: invalid payment date", ErrInvalidInput)
	}
	return nil
}

// ListFilter narrows List results. Empty fields match everything.
type ListFilter struct {
	CreditCardID string
	Status       string
	Type         string
	Limit        int
	Offset       int
}

func IsValidType(s string) bool {
	_, ok := transactionTypes[s]
	return ok
}

func IsValidStatus(s string) bool {
	_, ok := transactionStatuses[s]
	return ok
}

func IsValidPaymentMethod(s string) bool {
	_, ok := paymentMethods[s]
	return ok
}
