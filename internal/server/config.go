package server

import (
	"github.com/prospectscan/prospectscan/internal/logging"
)

// Config for the HTTP server.
type Config struct {
	// ListenAddr is the address ListenAndServe binds to, e.g. ":8080".
	ListenAddr string

	// DatabasePath is the SQLite file backing the store. Empty defaults to
	// "prospectscan.db" in the working directory.
	DatabasePath string

	// RuleTablePath and CatalogPath optionally point at YAML files replacing
	// the built-in rule table and commercial catalog.
	RuleTablePath string
	CatalogPath   string

	// Concurrency is the batch worker-pool size; 0 uses the batch default.
	Concurrency int

	// GeminiAPIKey enables the reformulation endpoint when non-empty.
	GeminiAPIKey string
	GeminiModel  string

	// Logger is optional; nil gets a stdout logger.
	Logger logging.Logger
}

// DefaultConfig returns development defaults.
func DefaultConfig() Config {
	return Config{
		ListenAddr:   ":8080",
		DatabasePath: "prospectscan.db",
		Concurrency:  4,
	}
}
