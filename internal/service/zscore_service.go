package service

import (
	"context"
	"strings"

	"coursefinder/internal/catalog"
	"coursefinder/internal/model"
	"coursefinder/internal/repository"

	"github.com/rs/zerolog"
)

// ZScoreRow is one cutoff annotated against the student's Z-Score.
type ZScoreRow struct {
	model.ZScoreCutoff
	Eligibility catalog.Eligibility `json:"eligibility"`
}

// ZScoreLookup is the filtered cutoff table. Without a score every row
// counts as eligible.
type ZScoreLookup struct {
	Rows     []ZScoreRow `json:"rows"`
	Eligible int         `json:"eligible"`
	Total    int         `json:"total"`
	Streams  []string    `json:"streams"`
}

type ZScoreService interface {
	Lookup(ctx context.Context, query, stream string, score *float64) (*ZScoreLookup, error)
}

type zscoreService struct {
	repo   repository.ZScoreRepository
	logger zerolog.Logger
}

func NewZScoreService(repo repository.ZScoreRepository, logger zerolog.Logger) ZScoreService {
	return &zscoreService{repo: repo, logger: logger}
}

func (s *zscoreService) Lookup(ctx context.Context, query, stream string, score *float64) (*ZScoreLookup, error) {
	cutoffs, err := s.repo.ListCutoffs(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	stream = strings.TrimSpace(stream)

	out := &ZScoreLookup{Rows: []ZScoreRow{}, Streams: repository.Streams}
	for _, c := range cutoffs {
		if !matchCutoff(c, query, stream) {
			continue
		}
		minimum := c.ZScore
		row := ZScoreRow{ZScoreCutoff: c, Eligibility: catalog.ClassifyScore(&minimum, score)}
		out.Rows = append(out.Rows, row)
		if score == nil || row.Eligibility == catalog.Eligible {
			out.Eligible++
		}
	}
	out.Total = len(out.Rows)
	return out, nil
}

func matchCutoff(c model.ZScoreCutoff, query, stream string) bool {
	if stream != "" && stream != catalog.All && c.Stream != stream {
		return false
	}
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Course), query) ||
		strings.Contains(strings.ToLower(c.University), query) ||
		strings.Contains(strings.ToLower(c.Location), query)
}
