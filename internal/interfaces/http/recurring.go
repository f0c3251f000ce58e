package http

import (
	"context"
	"net/http"

	"cloud.google.com/go/civil"

	"atena/internal/domain/calendar"
	"atena/internal/domain/recurring"
	"atena/internal/interfaces/scheduler"
)

// CycleRunner runs one scheduler cycle on demand
type CycleRunner interface {
	RunNow(ctx context.Context) (*scheduler.CycleSummary, error)
}

type RecurringHandler struct {
	schedules RecurringService
	runner    CycleRunner
	today     Today
}

func NewRecurringHandler(schedules RecurringService, runner CycleRunner, today Today) *RecurringHandler {
	return &RecurringHandler{schedules: schedules, runner: runner, today: today}
}

type CreateRecurringRequest struct {
	OriginalTransactionID string           `json:"originalTransactionId"`
	Type                  calendar.Cadence `json:"recurrenceType"`
	NextDueDate           *civil.Date      `json:"nextPaymentDate,omitempty"`
	EndDate               *civil.Date      `json:"recurrenceEndDate,omitempty"`
	IsActive              *bool            `json:"isActive,omitempty"`
}

type UpdateRecurringRequest struct {
	Type        *calendar.Cadence `json:"recurrenceType,omitempty"`
	NextDueDate *civil.Date       `json:"nextPaymentDate,omitempty"`
	EndDate     *civil.Date       `json:"recurrenceEndDate,omitempty"`
	IsActive    *bool             `json:"isActive,omitempty"`
}

// HandleRecurring lists or creates schedules
func (h *RecurringHandler) HandleRecurring(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		schedules, err := h.schedules.List(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		if schedules == nil {
			schedules = []*recurring.Schedule{}
		}
		writeJSON(w, http.StatusOK, schedules)
	case http.MethodPost:
		var req CreateRecurringRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		sched, err := h.schedules.Create(r.Context(), recurring.CreateParams{
			OriginalTransactionID: req.OriginalTransactionID,
			Cadence:               req.Type,
			NextDueDate:           req.NextDueDate,
			EndDate:               req.EndDate,
			IsActive:              req.IsActive,
		}, h.today())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, sched)
	default:
		methodNotAllowed(w)
	}
}

// HandleRecurringByID handles operations on a specific schedule
func (h *RecurringHandler) HandleRecurringByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	switch r.Method {
	case http.MethodGet:
		sched, err := h.schedules.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sched)
	case http.MethodPatch:
		var req UpdateRecurringRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		sched, err := h.schedules.Update(r.Context(), id, recurring.UpdateParams{
			Cadence:     req.Type,
			NextDueDate: req.NextDueDate,
			EndDate:     req.EndDate,
			IsActive:    req.IsActive,
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sched)
	case http.MethodDelete:
		if err := h.schedules.Delete(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w)
	}
}

// HandleRunNow runs one generation cycle and returns its summary.
// A cycle already in progress yields 409.
func (h *RecurringHandler) HandleRunNow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	summary, err := h.runner.RunNow(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
