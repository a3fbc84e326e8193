package repository

import (
	"context"
	"fmt"

	"coursefinder/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// DefaultAcademicYear labels the built-in cutoff table.
const DefaultAcademicYear = "2023/2024"

// Streams are the A/L subject streams used by the cutoff table.
var Streams = []string{"Physical Science", "Biological Science", "Commerce", "Arts"}

// ZScoreRepository reads published university cutoffs.
type ZScoreRepository interface {
	// ListCutoffs returns all cutoffs ordered by Z-Score, highest first.
	ListCutoffs(ctx context.Context) ([]model.ZScoreCutoff, error)
}

type zscoreRepo struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// NewZScoreRepo creates a ZScoreRepository backed by the zscore_cutoffs table.
func NewZScoreRepo(db *pgxpool.Pool, logger zerolog.Logger) ZScoreRepository {
	return &zscoreRepo{db: db, logger: logger}
}

func (r *zscoreRepo) ListCutoffs(ctx context.Context) ([]model.ZScoreCutoff, error) {
	query := `
		SELECT course, university, location, stream, z_score, academic_year
		FROM zscore_cutoffs
		ORDER BY z_score DESC, course ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query zscore cutoffs")
		return nil, fmt.Errorf("query zscore cutoffs: %w", err)
	}
	cutoffs, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.ZScoreCutoff])
	if err != nil {
		return nil, fmt.Errorf("scan zscore cutoffs: %w", err)
	}
	if len(cutoffs) == 0 {
		return []model.ZScoreCutoff{}, nil
	}
	return cutoffs, nil
}

type staticZScoreRepo struct {
	cutoffs []model.ZScoreCutoff
}

// NewStaticZScoreRepo serves the built-in 2023/2024 cutoff table.
func NewStaticZScoreRepo() ZScoreRepository {
	return &staticZScoreRepo{cutoffs: defaultCutoffs}
}

func (r *staticZScoreRepo) ListCutoffs(context.Context) ([]model.ZScoreCutoff, error) {
	out := make([]model.ZScoreCutoff, len(r.cutoffs))
	copy(out, r.cutoffs)
	return out, nil
}

var defaultCutoffs = []model.ZScoreCutoff{
	{Course: "Medicine (MBBS)", University: "University of Colombo", Location: "Colombo", ZScore: 1.9876, Stream: "Biological Science", Year: DefaultAcademicYear},
	{Course: "Dental Surgery", University: "University of Peradeniya", Location: "Peradeniya", ZScore: 1.8542, Stream: "Biological Science", Year: DefaultAcademicYear},
	{Course: "Computer Science", University: "University of Colombo", Location: "Colombo", ZScore: 1.8542, Stream: "Physical Science", Year: DefaultAcademicYear},
	{Course: "Engineering - Civil", University: "University of Moratuwa", Location: "Moratuwa", ZScore: 1.7665, Stream: "Physical Science", Year: DefaultAcademicYear},
	{Course: "Engineering - Electrical", University: "University of Peradeniya", Location: "Peradeniya", ZScore: 1.7247, Stream: "Physical Science", Year: DefaultAcademicYear},
	{Course: "Veterinary Science", University: "University of Peradeniya", Location: "Peradeniya", ZScore: 1.6023, Stream: "Biological Science", Year: DefaultAcademicYear},
	{Course: "Architecture", University: "University of Moratuwa", Location: "Moratuwa", ZScore: 1.5560, Stream: "Physical Science", Year: DefaultAcademicYear},
	{Course: "Pharmacy", University: "University of Colombo", Location: "Colombo", ZScore: 1.5367, Stream: "Biological Science", Year: DefaultAcademicYear},
	{Course: "Surveying Science", University: "Sabaragamuwa University", Location: "Sabaragamuwa", ZScore: 1.4829, Stream: "Physical Science", Year: DefaultAcademicYear},
	{Course: "Physical Science", University: "University of Kelaniya", Location: "Kelaniya", ZScore: 1.4153, Stream: "Physical Science", Year: DefaultAcademicYear},
	{Course: "Business Administration", University: "University of Colombo", Location: "Colombo", ZScore: 1.3426, Stream: "Commerce", Year: DefaultAcademicYear},
	{Course: "Law (LLB)", University: "University of Colombo", Location: "Colombo", ZScore: 1.2794, Stream: "Arts", Year: DefaultAcademicYear},
}
