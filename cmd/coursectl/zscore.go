package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"coursefinder/internal/catalog"
	"coursefinder/internal/repository"
	"coursefinder/internal/service"

	"github.com/spf13/cobra"
)

var zscoreCmd = &cobra.Command{
	Use:   "zscore [text]",
	Short: "Look up university Z-Score cutoffs",
	Long:  "Searches the published minimum Z-Scores by course, university or location. Reads Postgres when DB_CONNECTION_STRING is set, the built-in table otherwise.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runZScore,
}

var (
	zscoreStream string
	zscoreScore  string
)

func init() {
	zscoreCmd.Flags().StringVar(&zscoreStream, "stream", catalog.All, "A/L stream")
	zscoreCmd.Flags().StringVarP(&zscoreScore, "zscore", "z", "", "Student Z-Score")

	rootCmd.AddCommand(zscoreCmd)
}

func runZScore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := cliLogger()

	repo := repository.NewStaticZScoreRepo()
	if cfg.DBConnectionString != "" {
		pool, err := repository.OpenPool(cmd.Context(), cfg.DBConnectionString, cfg.IsDevelopment(), logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
		repo = repository.NewZScoreRepo(pool, logger)
	}

	query := ""
	if len(args) == 1 {
		query = args[0]
	}
	res, err := service.NewZScoreService(repo, logger).Lookup(cmd.Context(), query, zscoreStream, catalog.ParseScore(zscoreScore))
	if err != nil {
		return fmt.Errorf("failed to look up Z-Scores: %w", err)
	}

	if jsonOutput {
		return writeJSON(os.Stdout, res)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COURSE\tUNIVERSITY\tSTREAM\tZ-SCORE\tELIGIBILITY")
	for _, row := range res.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.4f\t%s\n", row.Course, row.University, row.Stream, row.ZScore, row.Eligibility)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d eligible of %d\n", res.Eligible, res.Total)
	return nil
}
