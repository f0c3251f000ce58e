package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}
	if cfg.Scheduler.Interval != time.Minute {
		t.Errorf("Scheduler.Interval = %s, want 1m", cfg.Scheduler.Interval)
	}
	if cfg.Scheduler.WorkerCount != 1 {
		t.Errorf("Scheduler.WorkerCount = %d, want 1", cfg.Scheduler.WorkerCount)
	}
	if cfg.Scheduler.Location != time.UTC {
		t.Errorf("Scheduler.Location = %s, want UTC", cfg.Scheduler.Location)
	}
	if cfg.Recurring.HonorEndDate || cfg.Recurring.SkipInactive {
		t.Error("recurring gates must be off by default")
	}
	if cfg.Redis.Enabled() {
		t.Error("Redis lease should be disabled without REDIS_ADDR")
	}
	if cfg.Firebase.Enabled() {
		t.Error("Firebase should be disabled without credentials")
	}
}

func TestLoad_InvalidDBPort(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-number")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for invalid DB_PORT, got nil")
	}
}

func TestLoad_CollectsAllErrors(t *testing.T) {
	t.Setenv("DB_PORT", "x")
	t.Setenv("SCHEDULER_INTERVAL", "soon")
	t.Setenv("SCHEDULER_TIMEZONE", "Mars/Olympus_Mons")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, key := range []string{"DB_PORT", "SCHEDULER_INTERVAL", "SCHEDULER_TIMEZONE"} {
		if !strings.Contains(err.Error(), key) {
			t.Errorf("error %q does not mention %s", err, key)
		}
	}
}

func TestLoad_SchedulerConfig(t *testing.T) {
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("SCHEDULER_WORKERS", "4")
	t.Setenv("SCHEDULER_INTERVAL", "30s")
	t.Setenv("SCHEDULER_JOB_TIMEOUT", "10s")
	t.Setenv("SCHEDULER_RUN_ON_STARTUP", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Scheduler.Enabled {
		t.Error("Scheduler.Enabled should be false")
	}
	if cfg.Scheduler.WorkerCount != 4 {
		t.Errorf("Scheduler.WorkerCount = %d, want 4", cfg.Scheduler.WorkerCount)
	}
	if cfg.Scheduler.Interval != 30*time.Second {
		t.Errorf("Scheduler.Interval = %s, want 30s", cfg.Scheduler.Interval)
	}
	if cfg.Scheduler.JobTimeout != 10*time.Second {
		t.Errorf("Scheduler.JobTimeout = %s, want 10s", cfg.Scheduler.JobTimeout)
	}
	if !cfg.Scheduler.RunOnStartup {
		t.Error("Scheduler.RunOnStartup should be true")
	}
}

func TestLoad_SchedulerValidation(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SCHEDULER_WORKERS", "0"},
		{"SCHEDULER_INTERVAL", "-1m"},
		{"SCHEDULER_QUEUE_SIZE", "0"},
		{"LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load() expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_RecurringGates(t *testing.T) {
	t.Setenv("RECURRING_HONOR_END_DATE", "true")
	t.Setenv("RECURRING_SKIP_INACTIVE", "yes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !cfg.Recurring.HonorEndDate || !cfg.Recurring.SkipInactive {
		t.Errorf("gates = %+v, want both enabled", cfg.Recurring)
	}
}

func TestLoad_Redis(t *testing.T) {
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SCHEDULER_LEASE_TTL", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !cfg.Redis.Enabled() || cfg.Redis.DB != 2 || cfg.Redis.LeaseTTL != 90*time.Second {
		t.Errorf("unexpected redis config %+v", cfg.Redis)
	}

	t.Setenv("SCHEDULER_LEASE_TTL", "0s")
	if _, err := Load(); err == nil {
		t.Error("expected error for zero lease TTL with redis enabled")
	}
}

func TestLoad_AllowedOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, http://localhost:3000, ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("AllowedOrigins = %v, want 2 entries", cfg.Server.AllowedOrigins)
	}
}

func TestGetBoolEnv(t *testing.T) {
	tests := []struct {
		value    string
		defVal   bool
		expected bool
	}{
		{"true", false, true},
		{"TRUE", false, true},
		{"1", false, true},
		{"yes", false, true},
		{"false", true, false},
		{"0", true, false},
		{"no", true, false},
		{"invalid", true, true},   // returns default
		{"invalid", false, false}, // returns default
		{"", true, true},          // empty returns default
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			key := "TEST_BOOL_ENV"
			if tt.value == "" {
				os.Unsetenv(key)
			} else {
				t.Setenv(key, tt.value)
			}

			got := getBoolEnv(key, tt.defVal)
			if got != tt.expected {
				t.Errorf("getBoolEnv(%q, %v) = %v, want %v", tt.value, tt.defVal, got, tt.expected)
			}
		})
	}
}

func TestGetDurationEnv(t *testing.T) {
	t.Setenv("TEST_DURATION_ENV", "1h30m")
	d, err := getDurationEnv("TEST_DURATION_ENV", time.Second)
	if err != nil || d != 90*time.Minute {
		t.Errorf("getDurationEnv = %s, %v", d, err)
	}

	t.Setenv("TEST_DURATION_ENV", "90")
	if _, err := getDurationEnv("TEST_DURATION_ENV", time.Second); err == nil {
		t.Error("expected error for duration without unit")
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	got := cfg.ConnectionString()
	if got != expected {
		t.Errorf("ConnectionString() = %q, want %q", got, expected)
	}
}
