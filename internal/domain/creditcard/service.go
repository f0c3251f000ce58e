package creditcard

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"atena/internal/domain/calendar"
	"atena/internal/domain/transaction"
)

var hundred = decimal.NewFromInt(100)

// Service contains the business logic for credit card operations
type Service struct {
	repo Repository
	txns TransactionStore
	loc  *time.Location
	now  func() time.Time
}

// NewService creates a new credit card service. loc decides which calendar
// day a limit change is recorded on.
func NewService(repo Repository, txns TransactionStore, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{repo: repo, txns: txns, loc: loc, now: time.Now}
}

func (s *Service) today() civil.Date {
	return calendar.Today(s.now(), s.loc)
}

// Create registers a card and seeds its limit history with the initial limit
func (s *Service) Create(ctx context.Context, params CreateParams) (*CreditCard, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.ID == "" {
		params.ID = uuid.New().String()
	}
	if len(params.LimitHistory) == 0 {
		params.LimitHistory = []LimitRecord{{Date: s.today(), Limit: params.Limit}}
	}
	return s.repo.Create(ctx, params)
}

// GetByID retrieves a card. Satisfies the installment card lookup.
func (s *Service) GetByID(ctx context.Context, id string) (*CreditCard, error) {
	card, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCreditCardNotFound) {
			return nil, ErrCreditCardNotFound
		}
		return nil, err
	}
	return card, nil
}

func (s *Service) List(ctx context.Context) ([]*CreditCard, error) {
	return s.repo.List(ctx)
}

// Update applies a partial update. A changed limit appends a history record.
func (s *Service) Update(ctx context.Context, id string, params UpdateParams) (*CreditCard, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	if params.Limit != nil {
		card, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if !card.Limit.Equal(*params.Limit) {
			history := make([]LimitRecord, 0, len(card.LimitHistory)+1)
			history = append(history, card.LimitHistory...)
			params.LimitHistory = append(history, LimitRecord{Date: s.today(), Limit: *params.Limit})
		}
	}

	return s.repo.Update(ctx, id, params)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Statement computes the open bill of a card as seen on today
func (s *Service) Statement(ctx context.Context, cardID string, today civil.Date) (*Statement, error) {
	card, err := s.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}

	pending, err := s.txns.List(ctx, transaction.ListFilter{
		CreditCardID: card.ID,
		Status:       transaction.StatusPending,
		Type:         transaction.TypeExpense,
	})
	if err != nil {
		return nil, err
	}

	closing := calendar.FirstBillingDate(today, card.ClosingDay)
	st := &Statement{
		CardID:       card.ID,
		ClosingDate:  closing,
		DueDate:      calendar.NextDayOfMonth(closing, card.DueDay),
		BillTotal:    decimal.Zero,
		PendingTotal: decimal.Zero,
		Limit:        card.Limit,
		Transactions: []*transaction.Transaction{},
	}

	for _, txn := range pending {
		st.PendingTotal = st.PendingTotal.Add(txn.Amount)
		if !txn.PaymentDate.After(closing) {
			st.BillTotal = st.BillTotal.Add(txn.Amount)
			st.Transactions = append(st.Transactions, txn)
		}
	}

	st.AvailableLimit = card.Limit.Sub(st.PendingTotal)
	st.UsedPercentage = decimal.Zero
	if card.Limit.IsPositive() {
		st.UsedPercentage = st.PendingTotal.Div(card.Limit).Mul(hundred).Round(2)
	}

	return st, nil
}

// PayBill marks every transaction of the current statement as COMPLETED
func (s *Service) PayBill(ctx context.Context, cardID string, today civil.Date) ([]*transaction.Transaction, error) {
	st, err := s.Statement(ctx, cardID, today)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(st.Transactions))
	for _, txn := range st.Transactions {
		ids = append(ids, txn.ID)
	}
	return s.txns.Complete(ctx, ids)
}
