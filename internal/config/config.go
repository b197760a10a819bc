package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads the .env file named by PLACARD_ENV (or .env by default), then
// its .secret sidecar if present. All config is flat env vars read via
// os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("PLACARD_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// ReconcileSchedule is the five-field cron expression for the daily
// reconciliation run. Defaults to 03:00 UTC.
func ReconcileSchedule() string {
	expr := os.Getenv("RECONCILE_SCHEDULE")
	if expr == "" {
		return "0 3 * * *"
	}
	return expr
}

// BackupSchedule is the five-field cron expression for the weekly backup
// job. Defaults to Sunday 04:00 UTC.
func BackupSchedule() string {
	expr := os.Getenv("BACKUP_SCHEDULE")
	if expr == "" {
		return "0 4 * * 0"
	}
	return expr
}

// ReconcileConcurrency bounds parallel per-asset writes during a
// reconciliation pass. Defaults to 8.
func ReconcileConcurrency() int {
	n, err := strconv.Atoi(os.Getenv("RECONCILE_CONCURRENCY"))
	if err != nil || n <= 0 {
		return 8
	}
	return n
}

// RateLimitRPS returns requests per second per client IP. Defaults to 100.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting. Defaults to 20.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}
