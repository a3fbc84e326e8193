// Package main is an operator CLI for querying the course catalog and the
// Z-Score cutoff table from a terminal.
package main

import (
	"fmt"
	"os"

	"coursefinder/internal/backend"
	"coursefinder/internal/config"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	backendURL string
	jsonOutput bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "coursectl",
	Short: "Query the CourseFinder catalog",
	Long:  "coursectl searches active courses, shows one course and looks up university Z-Score cutoffs using the same filters as the web gateway.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "Marketplace backend base URL (defaults to BACKEND_BASE_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of a table")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log backend requests")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if backendURL != "" {
		cfg.BackendBaseURL = backendURL
	}
	return cfg, nil
}

func cliLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)
}

func newBackendClient(cfg *config.Config, logger zerolog.Logger) *backend.Client {
	return backend.New(cfg.BackendBaseURL, cfg.BackendTimeout(), cfg.BackendMaxAttempts, logger)
}
