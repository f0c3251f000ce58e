package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"atena/internal/domain/creditcard"
	"atena/internal/domain/installment"
	"atena/internal/domain/transaction"
)

type CreditCardService interface {
	Create(ctx context.Context, params creditcard.CreateParams) (*creditcard.CreditCard, error)
	GetByID(ctx context.Context, id string) (*creditcard.CreditCard, error)
	List(ctx context.Context) ([]*creditcard.CreditCard, error)
	Update(ctx context.Context, id string, params creditcard.UpdateParams) (*creditcard.CreditCard, error)
	Delete(ctx context.Context, id string) error
	Statement(ctx context.Context, cardID string, today civil.Date) (*creditcard.Statement, error)
	PayBill(ctx context.Context, cardID string, today civil.Date) ([]*transaction.Transaction, error)
}

// InstallmentService plans and stores installment purchases
type InstallmentService interface {
	Preview(ctx context.Context, req installment.Request) ([]installment.Installment, error)
	Create(ctx context.Context, req installment.Request) ([]*transaction.Transaction, error)
}

// Today returns the current calendar day
type Today func() civil.Date

type CreditCardHandler struct {
	cards        CreditCardService
	installments InstallmentService
	today        Today
}

func NewCreditCardHandler(cards CreditCardService, installments InstallmentService, today Today) *CreditCardHandler {
	return &CreditCardHandler{cards: cards, installments: installments, today: today}
}

type CreateCreditCardRequest struct {
	Name       string          `json:"name"`
	Limit      decimal.Decimal `json:"limit"`
	ClosingDay int             `json:"closingDay"`
	DueDay     int             `json:"dueDay"`
}

type UpdateCreditCardRequest struct {
	Name       *string          `json:"name,omitempty"`
	Limit      *decimal.Decimal `json:"limit,omitempty"`
	ClosingDay *int             `json:"closingDay,omitempty"`
	DueDay     *int             `json:"dueDay,omitempty"`
}

// InstallmentPreviewResponse is a computed plan that was not stored
type InstallmentPreviewResponse struct {
	CardID       string                    `json:"cardId"`
	Total        decimal.Decimal           `json:"total"`
	Installments []installment.Installment `json:"installments"`
}

// HandleCreditCards lists or creates cards
func (h *CreditCardHandler) HandleCreditCards(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cards, err := h.cards.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		if cards == nil {
			cards = []*creditcard.CreditCard{}
		}
		writeJSON(w, http.StatusOK, cards)
	case http.MethodPost:
		var req CreateCreditCardRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		card, err := h.cards.Create(r.Context(), creditcard.CreateParams{
			Name:       req.Name,
			Limit:      req.Limit,
			ClosingDay: req.ClosingDay,
			DueDay:     req.DueDay,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, card)
	default:
		methodNotAllowed(w)
	}
}

// HandleCreditCardByID handles operations on a specific card
func (h *CreditCardHandler) HandleCreditCardByID(w http.ResponseWriter, r *http.Request) {
	cardID := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		card, err := h.cards.GetByID(r.Context(), cardID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, card)
	case http.MethodPatch:
		var req UpdateCreditCardRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		card, err := h.cards.Update(r.Context(), cardID, creditcard.UpdateParams{
			Name:       req.Name,
			Limit:      req.Limit,
			ClosingDay: req.ClosingDay,
			DueDay:     req.DueDay,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, card)
	case http.MethodDelete:
		if err := h.cards.Delete(r.Context(), cardID); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

// HandleStatement returns the card's current billing cycle
func (h *CreditCardHandler) HandleStatement(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	stmt, err := h.cards.Statement(r.Context(), r.PathValue("id"), h.today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stmt)
}

// HandlePayBill marks the current bill as paid
func (h *CreditCardHandler) HandlePayBill(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	paid, err := h.cards.PayBill(r.Context(), r.PathValue("id"), h.today())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if paid == nil {
		paid = []*transaction.Transaction{}
	}
	writeJSON(w, http.StatusOK, paid)
}

// HandleInstallmentPreview computes an installment plan for the card
// from the amount, count and interest query parameters.
func (h *CreditCardHandler) HandleInstallmentPreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	q := r.URL.Query()
	amount, err := decimal.NewFromString(q.Get("amount"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: amount must be a number", errBadRequest))
		return
	}
	count, err := strconv.Atoi(q.Get("count"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: count must be an integer", errBadRequest))
		return
	}
	interest, err := parseInterest(q.Get("interest"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	cardID := r.PathValue("id")
	plan, err := h.installments.Preview(r.Context(), installment.Request{
		CreditCardID:       cardID,
		Description:        q.Get("description"),
		TotalAmount:        amount,
		Count:              count,
		InterestMultiplier: interest,
		Today:              h.today(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, InstallmentPreviewResponse{
		CardID:       cardID,
		Total:        installment.Total(plan),
		Installments: plan,
	})
}

// parseInterest reads an optional interest multiplier. Empty means none.
func parseInterest(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: interest must be a number", errBadRequest)
	}
	return d, nil
}
