package catalog

import (
	"math"

	"coursefinder/internal/model"
)

// Eligibility is the tri-state outcome of comparing a Z-Score with a course minimum.
type Eligibility string

const (
	NotApplicable Eligibility = "not_applicable"
	Eligible      Eligibility = "eligible"
	NotEligible   Eligibility = "not_eligible"
)

// Classify compares score against the course minimum. Equality is eligible.
func Classify(c model.Course, score *float64) Eligibility {
	if !c.HasMinimumScore() {
		return NotApplicable
	}
	return ClassifyScore(c.MinimumScore, score)
}

// ClassifyScore is Classify for a bare minimum, shared with the cutoff table.
func ClassifyScore(minimum, score *float64) Eligibility {
	if minimum == nil || score == nil || math.IsNaN(*minimum) || math.IsNaN(*score) {
		return NotApplicable
	}
	if *score >= *minimum {
		return Eligible
	}
	return NotEligible
}

// Result pairs a course with its eligibility for one search.
type Result struct {
	Course      model.Course
	Eligibility Eligibility
}

// Annotate classifies every course without reordering.
func Annotate(courses []model.Course, score *float64) []Result {
	out := make([]Result, len(courses))
	for i, c := range courses {
		out[i] = Result{Course: c, Eligibility: Classify(c, score)}
	}
	return out
}

// CountEligible counts results tagged Eligible.
func CountEligible(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Eligibility == Eligible {
			n++
		}
	}
	return n
}
