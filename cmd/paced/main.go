// Command paced is the pace backend: it serves release metadata for update
// checks and proxies chat requests to an LLM provider.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jacksmith/pace/internal/server"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "paced:", err)
		os.Exit(1)
	}
}

func run() error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg := server.LoadConfig()

	srv, err := server.New(cfg, logger)
	if err != nil {
		return err
	}
	defer srv.Close()

	return srv.Run(context.Background())
}
