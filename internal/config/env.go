package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
)

// loadEnvFile loads environment variables from the first of .env/.env.local
// that parses. Variables already present in the process environment win.
func loadEnvFile() error {
	envPaths := []string{".env", ".env.local"}
	for _, envPath := range envPaths {
		if err := godotenv.Load(envPath); err == nil {
			slog.Debug("Loaded environment variables", "path", envPath)
			return nil
		}
	}
	return fmt.Errorf("no .env file found")
}
