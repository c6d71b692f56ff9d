package cli

import (
	"flag"
	"fmt"
	"strings"
)

// CLIArgs are the command-line arguments that control the server process.
// Keep this small for now — add fields as modules need them.
type CLIArgs struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string

	// DatabasePath is the SQLite file backing the store.
	DatabasePath string

	// RuleTablePath and CatalogPath optionally point at YAML files replacing
	// the built-in decision data.
	RuleTablePath string
	CatalogPath   string

	// Concurrency overrides the batch worker-pool size; 0 means "use default".
	Concurrency int

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by
// passing arbitrary slices. The function is deterministic and does not read
// os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs := flag.NewFlagSet("prospectscan", flag.ContinueOnError)
	var (
		listen      = fs.String("listen", ":8080", "HTTP listen address")
		db          = fs.String("db", "prospectscan.db", "SQLite database path")
		rulesPath   = fs.String("rules", "", "YAML rule table path (empty = built-in)")
		catalogPath = fs.String("catalog", "", "YAML commercial catalog path (empty = built-in)")
		concurrency = fs.Int("concurrency", 0, "Batch worker-pool size (0=use default)")
	)

	// Ensure Parse doesn't write to stdout/stderr in tests
	fs.SetOutput(nil)

	if err := fs.Parse(args); err != nil {
		// Flag parsing errors are useful to return to caller
		return nil, err
	}

	if strings.TrimSpace(*listen) == "" {
		return nil, fmt.Errorf("missing required -listen argument")
	}

	return &CLIArgs{
		ListenAddr:    *listen,
		DatabasePath:  *db,
		RuleTablePath: *rulesPath,
		CatalogPath:   *catalogPath,
		Concurrency:   *concurrency,
		RawArgs:       args,
	}, nil
}
