package dto

import (
	"testing"

	"coursefinder/internal/catalog"
	"coursefinder/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestNewCourseCard(t *testing.T) {
	z := 1.5
	c := model.Course{
		ID:             7,
		Title:          "Diploma in IT",
		DurationMonths: 12,
		Fee:            150000,
		Streams:        []string{"Physical Science", "Commerce"},
		Locations:      []string{"Colombo"},
		MinimumScore:   &z,
		Media: []model.MediaItem{
			{ID: 1, Kind: model.MediaVideo, Type: "mp4", URL: "uploads/7/intro.mp4"},
			{ID: 2, Kind: model.MediaImage, Type: "png", URL: "uploads/7/cover.png"},
		},
	}
	card := NewCourseCard(c, catalog.Eligible, func(p string) string { return "http://b/media/" + p })

	assert.Equal(t, "12 months", card.DurationLabel)
	assert.Equal(t, "Rs. 150,000", card.FeeLabel)
	assert.Equal(t, "Physical Science, Commerce", card.StreamsLabel)
	assert.Equal(t, "Colombo", card.LocationsLabel)
	assert.Equal(t, []string{}, card.EducationModes)
	assert.Equal(t, "", card.EducationModesLabel)
	assert.Equal(t, "eligible", card.Eligibility)
	assert.Equal(t, "http://b/media/uploads/7/cover.png", card.CoverURL)
	assert.Len(t, card.Media, 2)
	assert.Equal(t, "video", card.Media[0].Kind)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "1 month", DurationLabel(1))
	assert.Equal(t, "Rs. 0", FeeLabel(0))
	assert.Equal(t, "Rs. 1,250.50", FeeLabel(1250.5))
}
