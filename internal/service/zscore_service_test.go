package service

import (
	"context"
	"testing"

	"coursefinder/internal/catalog"
	"coursefinder/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZScoreLookup(t *testing.T) {
	svc := NewZScoreService(repository.NewStaticZScoreRepo(), zerolog.Nop())
	ctx := context.Background()

	t.Run("no filters no score", func(t *testing.T) {
		res, err := svc.Lookup(ctx, "", "all", nil)
		require.NoError(t, err)
		assert.Equal(t, 12, res.Total)
		assert.Equal(t, 12, res.Eligible)
		assert.Equal(t, catalog.NotApplicable, res.Rows[0].Eligibility)
		assert.Equal(t, repository.Streams, res.Streams)
	})

	t.Run("score classifies rows", func(t *testing.T) {
		score := 1.8542
		res, err := svc.Lookup(ctx, "", "", &score)
		require.NoError(t, err)
		assert.Equal(t, 12, res.Total)
		assert.Equal(t, 11, res.Eligible)
		assert.Equal(t, catalog.NotEligible, res.Rows[0].Eligibility)
		assert.Equal(t, catalog.Eligible, res.Rows[1].Eligibility)
	})

	t.Run("query matches university and location", func(t *testing.T) {
		res, err := svc.Lookup(ctx, "moratuwa", "", nil)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)

		res, err = svc.Lookup(ctx, "COLOMBO", "Biological Science", nil)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Total)
	})

	t.Run("stream filter", func(t *testing.T) {
		score := 1.3
		res, err := svc.Lookup(ctx, "", "Commerce", &score)
		require.NoError(t, err)
		require.Equal(t, 1, res.Total)
		assert.Equal(t, "Business Administration", res.Rows[0].Course)
		assert.Equal(t, 0, res.Eligible)
	})

	t.Run("no match", func(t *testing.T) {
		res, err := svc.Lookup(ctx, "astronomy", "", nil)
		require.NoError(t, err)
		assert.NotNil(t, res.Rows)
		assert.Equal(t, 0, res.Total)
	})
}
