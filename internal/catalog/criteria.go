package catalog

import (
	"math"
	"strconv"
	"strings"
)

// All is the selector value meaning "no constraint on this dimension".
const All = "all"

// Criteria holds the active filters of one search. Empty strings and All
// both leave a dimension unconstrained. Score is the user's Z-Score; it
// always drives eligibility tagging but only removes courses from the
// result when EligibleOnly is set.
type Criteria struct {
	Query           string
	Level           string
	AgeGroup        string
	Category        string
	InstitutionType string
	Location        string
	Stream          string
	Score           *float64
	EligibleOnly    bool
}

// IsZero reports whether no predicate is active.
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Query) == "" &&
		!active(c.Level) && !active(c.AgeGroup) && !active(c.Category) &&
		!active(c.InstitutionType) && !active(c.Location) && !active(c.Stream) &&
		c.scoreFilter() == nil
}

func (c Criteria) scoreFilter() *float64 {
	if !c.EligibleOnly {
		return nil
	}
	return c.Score
}

func active(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && !strings.EqualFold(v, All)
}

// ParseScore parses a user supplied Z-Score. Empty, non-numeric, NaN and
// infinite inputs are treated as absent.
func ParseScore(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
