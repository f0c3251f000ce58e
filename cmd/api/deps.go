package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"atena/internal/domain/account"
	"atena/internal/domain/category"
	"atena/internal/domain/creditcard"
	"atena/internal/domain/installment"
	"atena/internal/domain/notification"
	"atena/internal/domain/recurring"
	"atena/internal/domain/transaction"
	"atena/internal/infrastructure/firebase"
	"atena/internal/infrastructure/postgres"
	"atena/internal/infrastructure/redis"
	httphandlers "atena/internal/interfaces/http"
	"atena/internal/interfaces/scheduler"
	"atena/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB    *postgres.DB
	Lease *redis.Lease

	// Handlers
	AccountHandler     *httphandlers.AccountHandler
	CategoryHandler    *httphandlers.CategoryHandler
	CreditCardHandler  *httphandlers.CreditCardHandler
	TransactionHandler *httphandlers.TransactionHandler
	RecurringHandler   *httphandlers.RecurringHandler

	Scheduler *scheduler.Scheduler
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Dependencies, error) {
	db, err := postgres.New(cfg.Database.ConnectionString(), postgres.PoolOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("connected to database")

	deps := &Dependencies{DB: db}

	if cfg.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := db.Migrate(migrateCtx); err != nil {
			deps.Close()
			return nil, err
		}
		log.Info().Msg("database schema applied")
	}

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	creditCardRepo := postgres.NewCreditCardRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	recurringRepo := postgres.NewRecurringRepository(db)

	// Initialize domain services
	accountService := account.NewService(accountRepo)
	categoryService := category.NewService(categoryRepo)
	transactionService := transaction.NewService(transactionRepo)
	creditCardService := creditcard.NewService(creditCardRepo, transactionService, cfg.Scheduler.Location)
	installmentService := installment.NewService(creditCardService, transactionService)
	recurringService := recurring.NewService(recurringRepo, transactionService)

	notifier, err := newNotifier(ctx, cfg.Firebase, log)
	if err != nil {
		deps.Close()
		return nil, err
	}

	engine := recurring.NewEngine(recurringRepo, transactionService, transactionService, notifier, recurring.Options{
		HonorEndDate: cfg.Recurring.HonorEndDate,
		SkipInactive: cfg.Recurring.SkipInactive,
	})

	schedCfg := scheduler.Config{
		Interval:     cfg.Scheduler.Interval,
		WorkerCount:  cfg.Scheduler.WorkerCount,
		QueueSize:    cfg.Scheduler.QueueSize,
		JobDelay:     cfg.Scheduler.JobDelay,
		JobTimeout:   cfg.Scheduler.JobTimeout,
		CycleTimeout: cfg.Scheduler.CycleTimeout,
		RunOnStartup: cfg.Scheduler.RunOnStartup,
		Location:     cfg.Scheduler.Location,
		Logger:       log,
	}

	if cfg.Redis.Enabled() {
		lease, err := redis.NewLease(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Key:      cfg.Redis.LeaseKey,
			TTL:      cfg.Redis.LeaseTTL,
		})
		if err != nil {
			deps.Close()
			return nil, err
		}
		deps.Lease = lease
		schedCfg.Lease = lease
		log.Info().Str("addr", cfg.Redis.Addr).Msg("scheduler lease enabled")
	}

	sched, err := scheduler.New(schedCfg, recurringRepo, engine)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	deps.Scheduler = sched

	today := httphandlers.Today(sched.Today)

	deps.AccountHandler = httphandlers.NewAccountHandler(accountService)
	deps.CategoryHandler = httphandlers.NewCategoryHandler(categoryService)
	deps.CreditCardHandler = httphandlers.NewCreditCardHandler(creditCardService, installmentService, today)
	deps.TransactionHandler = httphandlers.NewTransactionHandler(transactionService, recurringService, installmentService, today)
	deps.RecurringHandler = httphandlers.NewRecurringHandler(recurringService, sched, today)

	return deps, nil
}

// newNotifier returns nil when Firebase is not configured so the engine
// skips notifications entirely.
func newNotifier(ctx context.Context, cfg config.FirebaseConfig, log zerolog.Logger) (recurring.Notifier, error) {
	if !cfg.Enabled() {
		log.Info().Msg("firebase not configured, push notifications disabled")
		return nil, nil
	}

	client, err := firebase.NewClient(ctx, cfg.CredentialsFile, log.With().Str("component", "fcm").Logger())
	if err != nil {
		return nil, err
	}

	svc, err := notification.NewService(client, cfg.Topic)
	if err != nil {
		return nil, err
	}
	log.Info().Str("topic", cfg.Topic).Msg("push notifications enabled")
	return svc, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Lease != nil {
		d.Lease.Close()
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
