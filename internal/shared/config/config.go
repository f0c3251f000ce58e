package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Scheduler SchedulerConfig
	Recurring RecurringConfig
	Redis     RedisConfig
	Firebase  FirebaseConfig
	Telemetry TelemetryConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type SchedulerConfig struct {
	Enabled      bool
	Interval     time.Duration
	WorkerCount  int
	QueueSize    int
	JobDelay     time.Duration
	JobTimeout   time.Duration
	CycleTimeout time.Duration
	RunOnStartup bool
	// Location decides which calendar day the scheduler treats as today
	Location *time.Location
}

// RecurringConfig toggles the optional generation gates
type RecurringConfig struct {
	HonorEndDate bool
	SkipInactive bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LeaseKey string
	LeaseTTL time.Duration
}

// Enabled reports whether a Redis lease should guard scheduler cycles
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type FirebaseConfig struct {
	CredentialsFile string
	Topic           string
}

// Enabled reports whether push notifications are configured
func (c FirebaseConfig) Enabled() bool {
	return c.CredentialsFile != ""
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	var errs []string
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	dbPort, err := getIntEnv("DB_PORT", 5432)
	collect(err)
	dbMaxOpen, err := getIntEnv("DB_MAX_OPEN_CONNS", 25)
	collect(err)
	dbMaxIdle, err := getIntEnv("DB_MAX_IDLE_CONNS", 5)
	collect(err)

	schedulerInterval, err := getDurationEnv("SCHEDULER_INTERVAL", time.Minute)
	collect(err)
	schedulerWorkers, err := getIntEnv("SCHEDULER_WORKERS", 1)
	collect(err)
	schedulerQueueSize, err := getIntEnv("SCHEDULER_QUEUE_SIZE", 100)
	collect(err)
	schedulerJobDelay, err := getDurationEnv("SCHEDULER_JOB_DELAY", 0)
	collect(err)
	schedulerJobTimeout, err := getDurationEnv("SCHEDULER_JOB_TIMEOUT", 30*time.Second)
	collect(err)
	schedulerCycleTimeout, err := getDurationEnv("SCHEDULER_CYCLE_TIMEOUT", 5*time.Minute)
	collect(err)

	timezone := getEnv("SCHEDULER_TIMEZONE", "UTC")
	location, err := time.LoadLocation(timezone)
	if err != nil {
		collect(fmt.Errorf("invalid SCHEDULER_TIMEZONE %q: %w", timezone, err))
	}

	redisDB, err := getIntEnv("REDIS_DB", 0)
	collect(err)
	leaseTTL, err := getDurationEnv("SCHEDULER_LEASE_TTL", 5*time.Minute)
	collect(err)

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Host:           getEnv("HOST", "0.0.0.0"),
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         dbPort,
			User:         getEnv("DB_USER", "atena"),
			Password:     getEnv("DB_PASSWORD", ""),
			DBName:       getEnv("DB_NAME", "atena"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: dbMaxOpen,
			MaxIdleConns: dbMaxIdle,
			AutoMigrate:  getBoolEnv("DB_AUTO_MIGRATE", true),
		},
		Scheduler: SchedulerConfig{
			Enabled:      getBoolEnv("SCHEDULER_ENABLED", true),
			Interval:     schedulerInterval,
			WorkerCount:  schedulerWorkers,
			QueueSize:    schedulerQueueSize,
			JobDelay:     schedulerJobDelay,
			JobTimeout:   schedulerJobTimeout,
			CycleTimeout: schedulerCycleTimeout,
			RunOnStartup: getBoolEnv("SCHEDULER_RUN_ON_STARTUP", false),
			Location:     location,
		},
		Recurring: RecurringConfig{
			HonorEndDate: getBoolEnv("RECURRING_HONOR_END_DATE", false),
			SkipInactive: getBoolEnv("RECURRING_SKIP_INACTIVE", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
			LeaseKey: getEnv("SCHEDULER_LEASE_KEY", "atena:scheduler:recurring"),
			LeaseTTL: leaseTTL,
		},
		Firebase: FirebaseConfig{
			CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
			Topic:           getEnv("FIREBASE_TOPIC", "recurring-transactions"),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "atena-api"),
			Environment:  getEnv("APP_ENV", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9090"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	if cfg.Scheduler.Interval <= 0 {
		return nil, fmt.Errorf("SCHEDULER_INTERVAL must be positive")
	}
	if cfg.Scheduler.WorkerCount < 1 {
		return nil, fmt.Errorf("SCHEDULER_WORKERS must be at least 1")
	}
	if cfg.Scheduler.QueueSize < 1 {
		return nil, fmt.Errorf("SCHEDULER_QUEUE_SIZE must be at least 1")
	}
	if cfg.Redis.Enabled() && cfg.Redis.LeaseTTL <= 0 {
		return nil, fmt.Errorf("SCHEDULER_LEASE_TTL must be positive when REDIS_ADDR is set")
	}
	if cfg.Log.Format != "console" && cfg.Log.Format != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be console or json, got %q", cfg.Log.Format)
	}

	return cfg, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// splitList parses a comma-separated list, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
