// Package config loads pageproof configuration from the environment.
package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable name, so MaxTokens
// reads PAGEPROOF_MAX_TOKENS. Explicitly tagged names also resolve without
// the prefix, which keeps GEMINI_API_KEY working under its canonical name.
const Prefix = "pageproof"

// Config holds the environment-driven settings. CLI flags override these
// per command.
type Config struct {
	// GeminiAPIKey authenticates correction calls.
	GeminiAPIKey string `envconfig:"GEMINI_API_KEY"`

	// Model is the Gemini model reviewing the text.
	Model string `envconfig:"MODEL"`

	// TokenizerModel sizes batches locally. It must belong to the same
	// model family as Model or budgets will drift from the service's
	// real limits.
	TokenizerModel string `envconfig:"TOKENIZER_MODEL"`

	// MaxTokens is the per-batch token budget.
	MaxTokens int `envconfig:"MAX_TOKENS" default:"100000"`

	// Headless runs Chrome without a window.
	Headless bool `envconfig:"HEADLESS" default:"true"`

	// DB is the run history database path. Empty selects the default
	// under the user's home directory.
	DB string `envconfig:"DB"`

	// Addr is the dashboard server listen address.
	Addr string `envconfig:"ADDR" default:":8090"`

	// Rate paces correction requests per second. Zero disables pacing.
	Rate float64 `envconfig:"RATE" default:"0"`

	// Concurrency bounds parallel batch dispatch. One keeps dispatch
	// sequential.
	Concurrency int `envconfig:"CONCURRENCY" default:"1"`
}

// Load reads .env if present, then populates Config from the environment.
// A missing .env file is not an error: in deployed environments variables
// are injected directly.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			slog.Warn(".env file found but could not be loaded", "error", err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
