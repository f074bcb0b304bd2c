// Package main implements recruitctl, the operator CLI for the hiring
// pipeline store.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/hiring-pipeline/internal/config"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
	"alfredoptarigan/hiring-pipeline/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "recruitctl",
	Short: "Hiring pipeline operator CLI",
	Long:  "recruitctl migrates the pipeline store, seeds demonstration recruitments and inspects recorded processes.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openServices loads configuration and opens the configured store.
func openServices() (*services.Services, repositories.Store, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	tieBreak, err := services.ParseTieBreakPolicy(cfg.Pipeline.TieBreak)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid RANKING_TIE_BREAK: %w", err)
	}

	logger := cfg.NewLogger()
	store, err := config.OpenStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return services.New(store, logger, services.Options{TieBreak: tieBreak}), store, nil
}
