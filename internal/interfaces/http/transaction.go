package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"atena/internal/domain/calendar"
	"atena/internal/domain/installment"
	"atena/internal/domain/recurring"
	"atena/internal/domain/transaction"
	"atena/internal/shared/logger"
)

type TransactionService interface {
	Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error)
	CreateMany(ctx context.Context, params []transaction.CreateParams) ([]*transaction.Transaction, error)
	GetByID(ctx context.Context, id string) (*transaction.Transaction, error)
	List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error)
	Update(ctx context.Context, id string, params transaction.UpdateParams) (*transaction.Transaction, error)
	Delete(ctx context.Context, id string) error
}

// RecurringService manages recurring schedules
type RecurringService interface {
	Create(ctx context.Context, params recurring.CreateParams, today civil.Date) (*recurring.Schedule, error)
	GetByID(ctx context.Context, id string) (*recurring.Schedule, error)
	List(ctx context.Context) ([]*recurring.Schedule, error)
	Update(ctx context.Context, id string, params recurring.UpdateParams) (*recurring.Schedule, error)
	Delete(ctx context.Context, id string) error
}

type TransactionHandler struct {
	transactions TransactionService
	schedules    RecurringService
	installments InstallmentService
	today        Today
}

func NewTransactionHandler(transactions TransactionService, schedules RecurringService, installments InstallmentService, today Today) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		schedules:    schedules,
		installments: installments,
		today:        today,
	}
}

type CreateTransactionRequest struct {
	AccountID     string          `json:"accountId"`
	Description   string          `json:"description"`
	Type          string          `json:"type"`
	CategoryID    string          `json:"categoryId"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	Status        string          `json:"status,omitempty"`      // defaults to PENDING
	PaymentDate   *civil.Date     `json:"paymentDate,omitempty"` // defaults to today
	FromAccountID *string         `json:"fromAccountId,omitempty"`
	ToAccountID   *string         `json:"toAccountId,omitempty"`
	CreditCardID  *string         `json:"creditCardId,omitempty"`
	// Recurrence opts the new transaction into a recurring schedule
	Recurrence *RecurrenceRequest `json:"recurrence,omitempty"`
}

type RecurrenceRequest struct {
	Type        calendar.Cadence `json:"recurrenceType"`
	NextDueDate *civil.Date      `json:"nextPaymentDate,omitempty"`
	EndDate     *civil.Date      `json:"recurrenceEndDate,omitempty"`
}

type UpdateTransactionRequest struct {
	AccountID     *string          `json:"accountId,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Type          *string          `json:"type,omitempty"`
	CategoryID    *string          `json:"categoryId,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	PaymentMethod *string          `json:"paymentMethod,omitempty"`
	Status        *string          `json:"status,omitempty"`
	PaymentDate   *civil.Date      `json:"paymentDate,omitempty"`
	CreditCardID  *string          `json:"creditCardId,omitempty"`
}

// TransactionResponse is a transaction plus the schedule created with it
type TransactionResponse struct {
	*transaction.Transaction
	Recurring *recurring.Schedule `json:"recurring,omitempty"`
}

func (req CreateTransactionRequest) params(today civil.Date) transaction.CreateParams {
	paymentDate := today
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}
	return transaction.CreateParams{
		AccountID:     req.AccountID,
		Description:   req.Description,
		Type:          req.Type,
		CategoryID:    req.CategoryID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Status:        req.Status,
		PaymentDate:   paymentDate,
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		CreditCardID:  req.CreditCardID,
	}
}

// HandleTransactions lists or creates transactions
func (h *TransactionHandler) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleListTransactions(w, r)
	case http.MethodPost:
		h.handleCreateTransaction(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *TransactionHandler) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	txns, err := h.transactions.List(r.Context(), transaction.ListFilter{
		CreditCardID: q.Get("creditCardId"),
		Status:       q.Get("status"),
		Type:         q.Get("type"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if txns == nil {
		txns = []*transaction.Transaction{}
	}
	writeJSON(w, http.StatusOK, txns)
}

// handleCreateTransaction stores a transaction and, when asked, a schedule
// that repeats it. A failed schedule leaves the transaction in place.
func (h *TransactionHandler) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req CreateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Recurrence != nil {
		if err := req.Recurrence.Type.Validate(); err != nil {
			writeError(w, r, err)
			return
		}
	}

	today := h.today()
	txn, err := h.transactions.Create(r.Context(), req.params(today))
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := TransactionResponse{Transaction: txn}
	if req.Recurrence != nil {
		sched, err := h.schedules.Create(r.Context(), recurring.CreateParams{
			OriginalTransactionID: txn.ID,
			Cadence:               req.Recurrence.Type,
			NextDueDate:           req.Recurrence.NextDueDate,
			EndDate:               req.Recurrence.EndDate,
		}, today)
		if err != nil {
			log := logger.FromContext(r.Context())
			log.Warn().Err(err).Str("transaction_id", txn.ID).Msg("Transaction created but recurring schedule failed")
			writeErrorWithCreated(w, r, fmt.Errorf("failed to create recurring schedule: %w", err), []*transaction.Transaction{txn})
			return
		}
		resp.Recurring = sched
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleBulkTransactions creates many transactions in order
func (h *TransactionHandler) HandleBulkTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var reqs []CreateTransactionRequest
	if err := decodeJSON(r, &reqs); err != nil {
		writeError(w, r, err)
		return
	}

	today := h.today()
	params := make([]transaction.CreateParams, len(reqs))
	for i, req := range reqs {
		params[i] = req.params(today)
	}

	created, err := h.transactions.CreateMany(r.Context(), params)
	if err != nil {
		writeErrorWithCreated(w, r, err, nonEmpty(created))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleInstallment splits a card purchase into {installment} monthly
// transactions, optionally scaled by the {interest} multiplier.
func (h *TransactionHandler) HandleInstallment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	count, err := strconv.Atoi(r.PathValue("installment"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: installment count must be an integer", errBadRequest))
		return
	}
	interest, err := parseInterest(r.PathValue("interest"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req CreateTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.CreditCardID == nil || *req.CreditCardID == "" {
		writeError(w, r, fmt.Errorf("%w: creditCardId is required", errBadRequest))
		return
	}

	created, err := h.installments.Create(r.Context(), installment.Request{
		CreditCardID:       *req.CreditCardID,
		AccountID:          req.AccountID,
		CategoryID:         req.CategoryID,
		Description:        req.Description,
		TotalAmount:        req.Amount,
		Count:              count,
		InterestMultiplier: interest,
		Status:             req.Status,
		PaymentMethod:      req.PaymentMethod,
		Today:              h.today(),
	})
	if err != nil {
		writeErrorWithCreated(w, r, err, nonEmpty(created))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// HandleTransactionByID handles operations on a specific transaction
func (h *TransactionHandler) HandleTransactionByID(w http.ResponseWriter, r *http.Request) {
	transactionID := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		txn, err := h.transactions.GetByID(r.Context(), transactionID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, txn)
	case http.MethodPatch:
		var req UpdateTransactionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		txn, err := h.transactions.Update(r.Context(), transactionID, transaction.UpdateParams{
			AccountID:     req.AccountID,
			Description:   req.Description,
			Type:          req.Type,
			CategoryID:    req.CategoryID,
			Amount:        req.Amount,
			PaymentMethod: req.PaymentMethod,
			Status:        req.Status,
			PaymentDate:   req.PaymentDate,
			CreditCardID:  req.CreditCardID,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, txn)
	case http.MethodDelete:
		if err := h.transactions.Delete(r.Context(), transactionID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

// nonEmpty drops empty partial results so they are omitted from error bodies
func nonEmpty(created []*transaction.Transaction) any {
	if len(created) == 0 {
		return nil
	}
	return created
}
