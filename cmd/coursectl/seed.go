package main

import (
	"errors"
	"fmt"

	"coursefinder/internal/repository"

	"github.com/spf13/cobra"
)

var seedZScoresCmd = &cobra.Command{
	Use:   "seed-zscores",
	Short: "Load the built-in Z-Score cutoffs into Postgres",
	Long:  "Creates the zscore_cutoffs table if needed and replaces the rows of the built-in academic year. Requires DB_CONNECTION_STRING.",
	Args:  cobra.NoArgs,
	RunE:  runSeedZScores,
}

func init() {
	rootCmd.AddCommand(seedZScoresCmd)
}

func runSeedZScores(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DBConnectionString == "" {
		return errors.New("DB_CONNECTION_STRING is not set")
	}
	logger := cliLogger()

	pool, err := repository.OpenPool(cmd.Context(), cfg.DBConnectionString, cfg.IsDevelopment(), logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	n, err := repository.SeedCutoffs(cmd.Context(), pool, repository.DefaultCutoffs())
	if err != nil {
		return fmt.Errorf("failed to seed Z-Score cutoffs: %w", err)
	}
	fmt.Printf("Loaded %d cutoffs for %s\n", n, repository.DefaultAcademicYear)
	return nil
}
