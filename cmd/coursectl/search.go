package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"coursefinder/internal/api/v1/dto"
	"coursefinder/internal/catalog"
	"coursefinder/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search active courses",
	Long:  "Fetches the active courses, applies the filters and marks each course eligible, not eligible or not applicable for the given Z-Score.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSearch,
}

var (
	searchLevel           string
	searchAgeGroup        string
	searchCategory        string
	searchInstitutionType string
	searchLocation        string
	searchStream          string
	searchZScore          string
	searchEligibleOnly    bool
)

func init() {
	searchCmd.Flags().StringVar(&searchLevel, "level", catalog.All, "Course level")
	searchCmd.Flags().StringVar(&searchAgeGroup, "age-group", catalog.All, "Age group")
	searchCmd.Flags().StringVar(&searchCategory, "category", catalog.All, "Category")
	searchCmd.Flags().StringVar(&searchInstitutionType, "institution-type", catalog.All, "Institution type")
	searchCmd.Flags().StringVar(&searchLocation, "location", catalog.All, "Location")
	searchCmd.Flags().StringVar(&searchStream, "stream", catalog.All, "A/L stream")
	searchCmd.Flags().StringVarP(&searchZScore, "zscore", "z", "", "Student Z-Score")
	searchCmd.Flags().BoolVar(&searchEligibleOnly, "eligible-only", false, "Hide courses the Z-Score does not reach")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := cliLogger()

	var score *float64
	if searchZScore != "" {
		if score = catalog.ParseScore(searchZScore); score == nil {
			return fmt.Errorf("invalid Z-Score %q", searchZScore)
		}
	}

	criteria := catalog.Criteria{
		Level:           searchLevel,
		AgeGroup:        searchAgeGroup,
		Category:        searchCategory,
		InstitutionType: searchInstitutionType,
		Location:        searchLocation,
		Stream:          searchStream,
		Score:           score,
		EligibleOnly:    searchEligibleOnly,
	}
	if len(args) == 1 {
		criteria.Query = args[0]
	}

	client := newBackendClient(cfg, logger)
	courses := service.NewCourseService(client, nil, "", validator.New(validator.WithRequiredStructEnabled()), cfg.CatalogTTL(), logger)

	res, err := courses.Search(cmd.Context(), "", criteria)
	if err != nil {
		return fmt.Errorf("failed to search courses: %w", err)
	}

	cards := make([]dto.CourseCardDTO, len(res.Results))
	for i, r := range res.Results {
		cards[i] = dto.NewCourseCard(r.Course, r.Eligibility, client.MediaURL)
	}

	if jsonOutput {
		return writeJSON(os.Stdout, dto.CourseListResponseDTO{
			Courses:   cards,
			Total:     res.Total,
			Matched:   res.Matched,
			Eligible:  res.Eligible,
			Stats:     res.Stats,
			ZScore:    score,
			FetchedAt: res.FetchedAt,
		})
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tLEVEL\tDURATION\tFEE\tMIN Z\tELIGIBILITY")
	for _, c := range cards {
		minZ := "-"
		if c.MinimumZScore != nil {
			minZ = strconv.FormatFloat(*c.MinimumZScore, 'f', 4, 64)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.Title, c.Level, c.DurationLabel, c.FeeLabel, minZ, c.Eligibility)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d of %d courses", res.Matched, res.Total)
	if score != nil {
		fmt.Printf(", %d eligible", res.Eligible)
	}
	fmt.Printf(" (university %d, school %d, anyone %d)\n", res.Stats.University, res.Stats.School, res.Stats.Anyone)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
