package catalog

import (
	"math"
	"testing"

	"coursefinder/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	withMin := model.Course{MinimumScore: ptr(1.5)}
	noMin := model.Course{}

	tests := []struct {
		name   string
		course model.Course
		score  *float64
		want   Eligibility
	}{
		{"no minimum, no score", noMin, nil, NotApplicable},
		{"no minimum, score", noMin, ptr(2.5), NotApplicable},
		{"no score", withMin, nil, NotApplicable},
		{"boundary inclusive", withMin, ptr(1.5), Eligible},
		{"just below", withMin, ptr(1.4999), NotEligible},
		{"above", withMin, ptr(2.1), Eligible},
		{"NaN score", withMin, ptr(math.NaN()), NotApplicable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.course, tt.score))
		})
	}
}

func TestAnnotateKeepsOrder(t *testing.T) {
	courses := []model.Course{
		{ID: 3, MinimumScore: ptr(2)},
		{ID: 1},
		{ID: 2, MinimumScore: ptr(1)},
	}
	results := Annotate(courses, ptr(1.5))

	assert.Len(t, results, 3)
	assert.Equal(t, int64(3), results[0].Course.ID)
	assert.Equal(t, NotEligible, results[0].Eligibility)
	assert.Equal(t, NotApplicable, results[1].Eligibility)
	assert.Equal(t, Eligible, results[2].Eligibility)
	assert.Equal(t, 1, CountEligible(results))
}
