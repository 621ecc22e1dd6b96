// Package cli consolidates the initialization steps shared by
// cmd/expensed, cmd/expense-cli, and cmd/sync-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"expensetrack/internal/config"
	"expensetrack/internal/log"
)

// Setup loads the optional .env file, installs the default logger for
// the component, and returns a validated config. Exits the process on
// validation failure.
func Setup(component string) (*config.Config, *log.Logger) {
	// .env is for local development; absence is fine.
	_ = godotenv.Load()

	logger := log.Setup(component)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}
