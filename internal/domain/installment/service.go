package installment

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"atena/internal/domain/creditcard"
	"atena/internal/domain/transaction"
)

// CardLookup resolves the card a purchase is charged to
type CardLookup interface {
	GetByID(ctx context.Context, id string) (*creditcard.CreditCard, error)
}

// TransactionCreator persists one installment
type TransactionCreator interface {
	Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
}

// Request is an installment purchase as received from a caller
type Request struct {
	CreditCardID       string
	AccountID          string
	CategoryID         string
	Description        string
	TotalAmount        decimal.Decimal
	Count              int
	InterestMultiplier decimal.Decimal
	// Status and PaymentMethod default to PENDING and CREDIT_CARD
	Status        string
	PaymentMethod string
	Today         civil.Date
}

// Service persists installment plans as individual transactions
type Service struct {
	cards CardLookup
	txns  TransactionCreator
}

// NewService creates a new installment service
func NewService(cards CardLookup, txns TransactionCreator) *Service {
	return &Service{cards: cards, txns: txns}
}

// Preview computes the plan for a card without persisting anything
func (s *Service) Preview(ctx context.Context, req Request) ([]Installment, error) {
	if req.Count < 1 || req.Count > MaxInstallments {
		return nil, ErrInvalidInstallmentCount
	}

	card, err := s.cards.GetByID(ctx, req.CreditCardID)
	if err != nil {
		return nil, fmt.Errorf("failed to load credit card %s: %w", req.CreditCardID, err)
	}

	return Plan(PlanInput{
		Description:        req.Description,
		TotalAmount:        req.TotalAmount,
		Count:              req.Count,
		InterestMultiplier: req.InterestMultiplier,
		ClosingDay:         card.ClosingDay,
		Today:              req.Today,
	})
}

// Create computes the plan and stores each installment as an EXPENSE on the
// card. Installments are written one by one; if one fails, the ones
// already stored are returned along with the error.
func (s *Service) Create(ctx context.Context, req Request) ([]*transaction.Transaction, error) {
	plan, err := s.Preview(ctx, req)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = transaction.StatusPending
	}
	method := req.PaymentMethod
	if method == "" {
		method = transaction.PaymentCreditCard
	}

	cardID := req.CreditCardID
	created := make([]*transaction.Transaction, 0, len(plan))
	for _, inst := range plan {
		txn, err := s.txns.Create(ctx, transaction.CreateParams{
			AccountID:     req.AccountID,
			CategoryID:    req.CategoryID,
			Description:   inst.Label,
			Type:          transaction.TypeExpense,
			Amount:        inst.Amount,
			PaymentMethod: method,
			Status:        status,
			PaymentDate:   inst.DueDate,
			CreditCardID:  &cardID,
		})
		if err != nil {
			return created, fmt.Errorf("failed to create installment %d/%d: %w", inst.Sequence, inst.Count, err)
		}
		created = append(created, txn)
	}

	return created, nil
}
