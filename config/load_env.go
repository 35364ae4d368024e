package config

import (
	"log/slog"

	"github.com/subosito/gotenv"
)

// LoadEnv loads environment variables from an env-specific dotenv file,
// falling back to a plain .env and finally the OS environment.
func LoadEnv(env string) {
	if err := gotenv.Load(".env." + env); err == nil {
		return
	}
	if err := gotenv.Load(".env"); err != nil {
		slog.Warn("No .env file found, using OS environment")
	}
}
