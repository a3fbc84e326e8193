package catalog

import (
	"strings"

	"coursefinder/internal/model"
)

// Age-group selectors with extra matching rules.
const (
	AgeAnyone = "Anyone"
	AgeSchool = "10-16"
)

var schoolAgeGroups = map[string]struct{}{
	"5-16":  {},
	"8-16":  {},
	"10-16": {},
	"10-18": {},
}

// MatchQuery is a case-insensitive substring match over title, description,
// instructor and category. An empty query matches everything.
func MatchQuery(c model.Course, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	fields := []string{c.Title, c.Description, c.Category}
	if c.Instructor != nil {
		fields = append(fields, *c.Instructor)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func MatchLevel(c model.Course, level string) bool {
	return !active(level) || c.Level == level
}

func MatchCategory(c model.Course, category string) bool {
	return !active(category) || c.Category == category
}

func MatchInstitutionType(c model.Course, institutionType string) bool {
	return !active(institutionType) || c.InstitutionType == institutionType
}

// MatchLocation uses set containment, so "Colombo" never matches "Colombo 7".
func MatchLocation(c model.Course, location string) bool {
	return !active(location) || containsFold(c.Locations, location)
}

func MatchStream(c model.Course, stream string) bool {
	return !active(stream) || containsFold(c.Streams, stream)
}

// MatchAgeGroup matches age-group labels exactly, with two fixed aliases:
// "Anyone" also matches labels containing "16-" or "18-", and "10-16"
// (the school students shortcut) also matches 5-16, 8-16 and 10-18.
func MatchAgeGroup(c model.Course, ageGroup string) bool {
	if !active(ageGroup) {
		return true
	}
	if c.AgeGroup == nil {
		return false
	}
	label := *c.AgeGroup
	if label == ageGroup {
		return true
	}
	switch ageGroup {
	case AgeAnyone:
		return strings.Contains(label, "16-") || strings.Contains(label, "18-")
	case AgeSchool:
		return IsSchoolAge(label)
	}
	return false
}

// IsSchoolAge reports whether label is one of the school student age groups.
func IsSchoolAge(label string) bool {
	_, ok := schoolAgeGroups[label]
	return ok
}

// MatchScore passes courses without a minimum, and otherwise requires the
// score to reach the minimum. An absent score passes everything.
func MatchScore(c model.Course, score *float64) bool {
	if !c.HasMinimumScore() || score == nil {
		return true
	}
	return *score >= *c.MinimumScore
}

func containsFold(set []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}
