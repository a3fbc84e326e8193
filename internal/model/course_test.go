package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasMinimumScore(t *testing.T) {
	minimum := 1.5
	assert.True(t, Course{MinimumScore: &minimum}.HasMinimumScore())
	assert.False(t, Course{}.HasMinimumScore())
}

func TestRotatingMediaDropsVideos(t *testing.T) {
	c := Course{Media: []MediaItem{
		{ID: 1, Kind: MediaVideo},
		{ID: 2, Kind: MediaImage},
		{ID: 3, Kind: MediaVideo},
		{ID: 4, Kind: MediaImage},
	}}
	got := c.RotatingMedia()
	assert.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(4), got[1].ID)

	assert.Empty(t, Course{}.RotatingMedia())
}

func TestCarouselMediaFallsBackToAllMedia(t *testing.T) {
	videoOnly := Course{Media: []MediaItem{{ID: 7, Kind: MediaVideo}}}
	assert.Equal(t, videoOnly.Media, videoOnly.CarouselMedia())

	mixed := Course{Media: []MediaItem{{ID: 1, Kind: MediaVideo}, {ID: 2, Kind: MediaImage}}}
	assert.Equal(t, []MediaItem{{ID: 2, Kind: MediaImage}}, mixed.CarouselMedia())
}
