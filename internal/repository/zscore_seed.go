package repository

import (
	"context"
	"fmt"

	"coursefinder/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const zscoreSchema = `
	CREATE TABLE IF NOT EXISTS zscore_cutoffs (
		id            BIGSERIAL PRIMARY KEY,
		course        TEXT NOT NULL,
		university    TEXT NOT NULL,
		location      TEXT NOT NULL,
		stream        TEXT NOT NULL,
		z_score       DOUBLE PRECISION NOT NULL,
		academic_year TEXT NOT NULL,
		UNIQUE (course, university, academic_year)
	)
`

// DefaultCutoffs returns a copy of the built-in cutoff table.
func DefaultCutoffs() []model.ZScoreCutoff {
	out := make([]model.ZScoreCutoff, len(defaultCutoffs))
	copy(out, defaultCutoffs)
	return out
}

// SeedCutoffs creates zscore_cutoffs when missing and replaces every row of
// the academic years present in cutoffs, all in one transaction.
func SeedCutoffs(ctx context.Context, pool *pgxpool.Pool, cutoffs []model.ZScoreCutoff) (int64, error) {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("starting transaction for zscore seed: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, zscoreSchema); err != nil {
		return 0, fmt.Errorf("creating zscore_cutoffs: %w", err)
	}

	years := make([]string, 0, 1)
	seen := map[string]bool{}
	for _, c := range cutoffs {
		if !seen[c.Year] {
			seen[c.Year] = true
			years = append(years, c.Year)
		}
	}
	const deleteQ = `DELETE FROM zscore_cutoffs WHERE academic_year = ANY($1)`
	if _, err := tx.Exec(ctx, deleteQ, years); err != nil {
		return 0, fmt.Errorf("clearing zscore cutoffs for %v: %w", years, err)
	}

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"zscore_cutoffs"},
		[]string{"course", "university", "location", "stream", "z_score", "academic_year"},
		pgx.CopyFromSlice(len(cutoffs), func(i int) ([]any, error) {
			c := cutoffs[i]
			return []any{c.Course, c.University, c.Location, c.Stream, c.ZScore, c.Year}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copying zscore cutoffs: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing zscore seed: %w", err)
	}
	return n, nil
}
