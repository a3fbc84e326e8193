package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"coursefinder/internal/api/v1/dto"
	"coursefinder/internal/catalog"
	"coursefinder/internal/model"
	"coursefinder/internal/rotation"
	"coursefinder/internal/service"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <course-id>",
	Short: "Show one course",
	Long:  "Prints a course with its media. With --rotate the media carousel is played in the terminal until interrupted.",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var (
	showZScore   string
	showRotate   bool
	showInterval time.Duration
)

func init() {
	showCmd.Flags().StringVarP(&showZScore, "zscore", "z", "", "Student Z-Score")
	showCmd.Flags().BoolVar(&showRotate, "rotate", false, "Play the media rotation")
	showCmd.Flags().DurationVar(&showInterval, "interval", rotation.DefaultInterval, "Rotation interval")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid course id %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := cliLogger()
	client := newBackendClient(cfg, logger)
	courses := service.NewCourseService(client, nil, "", nil, cfg.CatalogTTL(), logger)

	course, err := courses.Get(cmd.Context(), "", id)
	if err != nil {
		return fmt.Errorf("failed to load course %d: %w", id, err)
	}
	card := dto.NewCourseCard(*course, catalog.Classify(*course, catalog.ParseScore(showZScore)), client.MediaURL)

	if jsonOutput {
		return writeJSON(os.Stdout, card)
	}

	fmt.Printf("%s (#%d)\n", card.Title, card.ID)
	fmt.Printf("  Level:       %s\n", card.Level)
	fmt.Printf("  Institution: %s\n", card.InstitutionType)
	fmt.Printf("  Category:    %s\n", card.Category)
	fmt.Printf("  Duration:    %s\n", card.DurationLabel)
	fmt.Printf("  Fee:         %s\n", card.FeeLabel)
	fmt.Printf("  Streams:     %s\n", orDash(card.StreamsLabel))
	fmt.Printf("  Locations:   %s\n", orDash(card.LocationsLabel))
	fmt.Printf("  Modes:       %s\n", orDash(card.EducationModesLabel))
	fmt.Printf("  Eligibility: %s\n", card.Eligibility)
	for i, m := range card.Media {
		fmt.Printf("  [%d] %-5s %s\n", i, m.Kind, m.URL)
	}

	if !showRotate {
		return nil
	}
	return playRotation(cmd.Context(), course.CarouselMedia(), showInterval, client.MediaURL)
}

func playRotation(ctx context.Context, media []model.MediaItem, interval time.Duration, mediaURL func(string) string) error {
	rot := rotation.New(media)
	current, ok := rot.Current()
	if !ok {
		fmt.Println("No media to rotate")
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	show := func(idx int, item model.MediaItem) {
		fmt.Printf("%s  %d/%d  %s\n", time.Now().Format("15:04:05"), idx+1, rot.Len(), mediaURL(item.URL))
	}
	show(rot.Cursor(), current)

	err := rot.Run(ctx, interval, show)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
