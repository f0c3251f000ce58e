package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"
	_ "time/tzdata"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"atena/internal/domain/calendar"
	"atena/internal/domain/installment"
	"atena/internal/domain/recurring"
	"atena/internal/domain/transaction"
	"atena/internal/infrastructure/postgres"
	"atena/internal/interfaces/scheduler"
	"atena/internal/shared/config"
	"atena/internal/shared/logger"
)

const usage = `Atena Admin CLI - Management commands for the Atena API

Usage:
  admin <command> [options]

Commands:
  migrate              Apply the database schema
  run-recurring        Run one recurring-transaction cycle and print its summary
  plan-installments    Print the installment plan for a purchase (no database needed)

Examples:
  # Generate every due recurring transaction once
  admin run-recurring

  # Use a longer cycle timeout and more workers
  admin run-recurring --timeout=15m --workers=4

  # Preview a 1000.00 purchase in 3 installments on a card closing on the 10th
  admin plan-installments --amount=1000 --count=3 --closing-day=10

  # Same purchase with 5% interest as of a fixed day
  admin plan-installments --amount=1000 --count=3 --interest=1.05 --closing-day=10 --today=2024-03-20
`

var errUsage = errors.New("invalid usage")

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage + "\n")
		os.Exit(1)
	}

	decimal.MarshalJSONWithoutQuotes = true
	log := logger.NewWithOptions(os.Stderr, logger.Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
	})

	var err error
	switch command := os.Args[1]; command {
	case "migrate":
		err = runMigrate(os.Args[2:], log)
	case "run-recurring":
		err = runRecurring(os.Args[2:], os.Stdout, log)
	case "plan-installments":
		err = planInstallments(os.Args[2:], os.Stdout)
	case "help", "-h", "--help":
		fmt.Print(usage + "\n")
		return
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Print(usage + "\n")
		os.Exit(1)
	}

	if err != nil {
		if !errors.Is(err, errUsage) {
			log.Error().Err(err).Msg("command failed")
		}
		os.Exit(1)
	}
}

func connect(cfg *config.Config, log zerolog.Logger) (*postgres.DB, error) {
	db, err := postgres.New(cfg.Database.ConnectionString(), postgres.PoolOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Msg("connected to database")
	return db, nil
}

func runMigrate(args []string, log zerolog.Logger) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	timeout := fs.Duration("timeout", time.Minute, "Timeout for applying the schema")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := connect(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		return err
	}
	log.Info().Msg("schema applied")
	return nil
}

func runRecurring(args []string, out io.Writer, log zerolog.Logger) error {
	fs := flag.NewFlagSet("run-recurring", flag.ContinueOnError)
	timeout := fs.Duration("timeout", 0, "Cycle timeout (defaults to SCHEDULER_CYCLE_TIMEOUT)")
	workers := fs.Int("workers", 0, "Number of concurrent workers (defaults to SCHEDULER_WORKERS)")

	fs.Usage = func() {
		fmt.Println("Usage: admin run-recurring [options]")
		fmt.Println("\nOptions:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := connect(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	transactionService := transaction.NewService(postgres.NewTransactionRepository(db))
	recurringRepo := postgres.NewRecurringRepository(db)
	engine := recurring.NewEngine(recurringRepo, transactionService, transactionService, nil, recurring.Options{
		HonorEndDate: cfg.Recurring.HonorEndDate,
		SkipInactive: cfg.Recurring.SkipInactive,
	})

	schedCfg := scheduler.Config{
		WorkerCount:  cfg.Scheduler.WorkerCount,
		QueueSize:    cfg.Scheduler.QueueSize,
		JobTimeout:   cfg.Scheduler.JobTimeout,
		CycleTimeout: cfg.Scheduler.CycleTimeout,
		Location:     cfg.Scheduler.Location,
		Logger:       log,
	}
	if *timeout > 0 {
		schedCfg.CycleTimeout = *timeout
	}
	if *workers > 0 {
		schedCfg.WorkerCount = *workers
	}

	sched, err := scheduler.New(schedCfg, recurringRepo, engine)
	if err != nil {
		return err
	}
	sched.StartWorkers()
	defer sched.Shutdown(10 * time.Second)

	summary, err := sched.RunNow(context.Background())
	if err != nil {
		return err
	}
	return writeJSON(out, summary)
}

// planOutput is what plan-installments prints
type planOutput struct {
	Total        decimal.Decimal           `json:"total"`
	Installments []installment.Installment `json:"installments"`
}

func planInstallments(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("plan-installments", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	amount := fs.String("amount", "", "Total purchase amount (required)")
	count := fs.Int("count", 1, "Number of installments")
	interest := fs.String("interest", "", "Interest multiplier applied to the total, e.g. 1.05")
	closingDay := fs.Int("closing-day", 0, "Card closing day of month, 1-31 (required)")
	todayStr := fs.String("today", "", "Purchase day as YYYY-MM-DD (defaults to the current day)")
	tz := fs.String("timezone", "UTC", "IANA timezone used when --today is omitted")
	description := fs.String("description", "", "Purchase description used in labels")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	total, err := decimal.NewFromString(*amount)
	if err != nil {
		return fmt.Errorf("%w: --amount must be a number", errUsage)
	}

	multiplier := decimal.Zero
	if *interest != "" {
		if multiplier, err = decimal.NewFromString(*interest); err != nil {
			return fmt.Errorf("%w: --interest must be a number", errUsage)
		}
	}

	var today civil.Date
	if *todayStr != "" {
		if today, err = civil.ParseDate(*todayStr); err != nil {
			return fmt.Errorf("%w: --today must be YYYY-MM-DD", errUsage)
		}
	} else {
		loc, err := time.LoadLocation(*tz)
		if err != nil {
			return fmt.Errorf("%w: unknown timezone %q", errUsage, *tz)
		}
		today = calendar.Today(time.Now(), loc)
	}

	plan, err := installment.Plan(installment.PlanInput{
		Description:        *description,
		TotalAmount:        total,
		Count:              *count,
		InterestMultiplier: multiplier,
		ClosingDay:         *closingDay,
		Today:              today,
	})
	if err != nil {
		return err
	}

	return writeJSON(out, planOutput{Total: installment.Total(plan), Installments: plan})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
