package main

import (
	"net/http"

	"github.com/rs/zerolog"

	httphandlers "atena/internal/interfaces/http"
	"atena/internal/shared/config"
	"atena/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Transactions
	mux.HandleFunc("/api/transactions", deps.TransactionHandler.HandleTransactions)
	mux.HandleFunc("/api/transactions/bulk", deps.TransactionHandler.HandleBulkTransactions)
	mux.HandleFunc("/api/transactions/installment/{installment}", deps.TransactionHandler.HandleInstallment)
	mux.HandleFunc("/api/transactions/installment/{installment}/{interest}", deps.TransactionHandler.HandleInstallment)
	mux.HandleFunc("/api/transactions/{id}", deps.TransactionHandler.HandleTransactionByID)

	// Recurring schedules
	mux.HandleFunc("/api/recurring-transactions", deps.RecurringHandler.HandleRecurring)
	mux.HandleFunc("/api/recurring-transactions/run", deps.RecurringHandler.HandleRunNow)
	mux.HandleFunc("/api/recurring-transactions/{id}", deps.RecurringHandler.HandleRecurringByID)

	// Credit cards
	mux.HandleFunc("/api/credit-cards", deps.CreditCardHandler.HandleCreditCards)
	mux.HandleFunc("/api/credit-cards/{id}", deps.CreditCardHandler.HandleCreditCardByID)
	mux.HandleFunc("/api/credit-cards/{id}/statement", deps.CreditCardHandler.HandleStatement)
	mux.HandleFunc("/api/credit-cards/{id}/pay-bill", deps.CreditCardHandler.HandlePayBill)
	mux.HandleFunc("/api/credit-cards/{id}/installments/preview", deps.CreditCardHandler.HandleInstallmentPreview)

	// Accounts and categories
	mux.HandleFunc("/api/accounts", deps.AccountHandler.HandleAccounts)
	mux.HandleFunc("/api/accounts/{id}", deps.AccountHandler.HandleAccountByID)
	mux.HandleFunc("/api/categories", deps.CategoryHandler.HandleCategories)
	mux.HandleFunc("/api/categories/{id}", deps.CategoryHandler.HandleCategoryByID)

	var handler http.Handler = middleware.Tracing(mux)
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(handler)
	}

	// Apply global middleware
	return middleware.Logging(log)(middleware.CORS(cfg.Server.AllowedOrigins)(handler))
}
