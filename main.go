// Command prospectscan runs the cross-reference scoring API.
package main

import (
	"log"
	"os"

	"github.com/prospectscan/prospectscan/internal/cli"
	"github.com/prospectscan/prospectscan/internal/logging"
	"github.com/prospectscan/prospectscan/internal/server"
)

func main() {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("parsing arguments: %v", err)
	}

	logger := logging.NewStdoutLogger("prospectscan")

	srv, err := server.NewServer(server.Config{
		ListenAddr:    args.ListenAddr,
		DatabasePath:  args.DatabasePath,
		RuleTablePath: args.RuleTablePath,
		CatalogPath:   args.CatalogPath,
		Concurrency:   args.Concurrency,
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   os.Getenv("GEMINI_MODEL"),
		Logger:        logger,
	})
	if err != nil {
		log.Fatalf("starting server: %v", err)
	}
	defer srv.Close()

	logger.Info("listening", logging.Field{Key: "addr", Value: args.ListenAddr})
	if err := srv.HTTPServer().ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
