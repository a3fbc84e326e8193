package catalog

import (
	"strings"

	"coursefinder/internal/model"
)

// Filter returns the courses satisfying every active predicate of c, in
// their input order. The result is never nil.
func Filter(courses []model.Course, c Criteria) []model.Course {
	out := make([]model.Course, 0, len(courses))
	for _, course := range courses {
		if Matches(course, c) {
			out = append(out, course)
		}
	}
	return out
}

// Matches evaluates the conjunction of all predicates for a single course.
func Matches(course model.Course, c Criteria) bool {
	return MatchQuery(course, c.Query) &&
		MatchLevel(course, c.Level) &&
		MatchAgeGroup(course, c.AgeGroup) &&
		MatchCategory(course, c.Category) &&
		MatchInstitutionType(course, c.InstitutionType) &&
		MatchLocation(course, c.Location) &&
		MatchStream(course, c.Stream) &&
		MatchScore(course, c.scoreFilter())
}

// QuickStats are the headline counts shown above the course grid.
type QuickStats struct {
	University int `json:"university"`
	School     int `json:"school"`
	Anyone     int `json:"anyone"`
}

// Stats counts university, school-age and open-to-anyone courses. The
// anyone count covers adult age ranges ("16-", "18-") only.
func Stats(courses []model.Course) QuickStats {
	var s QuickStats
	for _, c := range courses {
		if c.Level == "University" || c.InstitutionType == "University" {
			s.University++
		}
		if c.AgeGroup == nil {
			continue
		}
		if IsSchoolAge(*c.AgeGroup) {
			s.School++
		}
		if label := *c.AgeGroup; strings.Contains(label, "16-") || strings.Contains(label, "18-") {
			s.Anyone++
		}
	}
	return s
}
