package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"atena/internal/domain/account"
	"atena/internal/domain/calendar"
	"atena/internal/domain/category"
	"atena/internal/domain/creditcard"
	"atena/internal/domain/installment"
	"atena/internal/domain/recurring"
	"atena/internal/domain/transaction"
	"atena/internal/interfaces/scheduler"
	"atena/internal/shared/logger"
)

// errBadRequest marks malformed requests caught in the transport layer
var errBadRequest = errors.New("bad request")

var notFoundErrors = []error{
	account.ErrAccountNotFound,
	category.ErrCategoryNotFound,
	creditcard.ErrCreditCardNotFound,
	transaction.ErrTransactionNotFound,
	recurring.ErrScheduleNotFound,
	recurring.ErrTemplateNotFound,
}

var validationErrors = []error{
	errBadRequest,
	account.ErrInvalidInput,
	account.ErrInvalidAccountType,
	category.ErrInvalidInput,
	category.ErrInvalidType,
	creditcard.ErrInvalidInput,
	creditcard.ErrInvalidClosingDay,
	creditcard.ErrInvalidDueDay,
	creditcard.ErrInvalidLimit,
	transaction.ErrInvalidInput,
	transaction.ErrInvalidType,
	transaction.ErrInvalidStatus,
	transaction.ErrInvalidPayment,
	recurring.ErrInvalidInput,
	calendar.ErrInvalidCadence,
	installment.ErrInvalidInstallmentCount,
	installment.ErrInvalidClosingDay,
	installment.ErrInvalidInterest,
	installment.ErrInvalidAmount,
}

var conflictErrors = []error{
	recurring.ErrScheduleConflict,
	scheduler.ErrCycleRunning,
	scheduler.ErrLeaseHeld,
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
	// Created lists what was stored before a multi-item operation failed
	Created any `json:"created,omitempty"`
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	case isAny(err, validationErrors):
		return http.StatusBadRequest
	case isAny(err, conflictErrors):
		return http.StatusConflict
	case errors.Is(err, scheduler.ErrStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes err with the status it maps to. Internal errors are
// logged and hidden from the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	writeErrorWithCreated(w, r, err, nil)
}

func writeErrorWithCreated(w http.ResponseWriter, r *http.Request, err error, created any) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log := logger.FromContext(r.Context())
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("Request failed")
		msg = "internal server error"
	}
	writeJSON(w, status, ErrorResponse{Error: msg, Created: created})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}

// queryInt parses an optional non-negative integer query parameter
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errBadRequest, name)
	}
	return n, nil
}
