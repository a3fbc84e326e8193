package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"coursefinder/internal/model"
)

// rawCourse mirrors the JSON emitted by GET /api/courses/*.
type rawCourse struct {
	ID                  *int64     `json:"id"`
	Title               *string    `json:"title"`
	Description         *string    `json:"description"`
	SubContent          *string    `json:"sub_content"`
	InstituteType       *string    `json:"institute_type"`
	Category            *string    `json:"category"`
	CourseDuration      flexNumber `json:"course_duration"`
	CourseFee           flexNumber `json:"course_fee"`
	InstallAvailability flexBool   `json:"install_availability"`
	Instructor          *string    `json:"instructor"`
	CourseLevel         *string    `json:"course_level"`
	Streams             flexList   `json:"streams"`
	Locations           flexList   `json:"locations"`
	EducationModes      flexList   `json:"education_modes"`
	AgeGroup            *string    `json:"age_group"`
	MinimumZScore       flexNumber `json:"minimum_z_score"`
	ExamBoard           *string    `json:"exam_board"`
	MediaItems          []rawMedia `json:"media_items"`
	CreatedAt           *string    `json:"created_at"`
	UpdatedAt           *string    `json:"updated_at"`
}

type rawMedia struct {
	ID        int64  `json:"id"`
	CourseID  int64  `json:"course_id"`
	MediaType string `json:"media_type"`
	MediaURL  string `json:"media_url"`
}

// Normalize converts one backend course object into a model.Course.
// A record without an id or title is rejected with ErrMalformedRecord.
func Normalize(raw json.RawMessage) (*model.Course, error) {
	var rc rawCourse
	if err := json.Unmarshal(raw, &rc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if rc.ID == nil || *rc.ID == 0 {
		return nil, fmt.Errorf("%w: missing id", ErrMalformedRecord)
	}
	if rc.Title == nil || strings.TrimSpace(*rc.Title) == "" {
		return nil, fmt.Errorf("%w: course %d has no title", ErrMalformedRecord, *rc.ID)
	}

	c := &model.Course{
		ID:                   *rc.ID,
		Title:                strings.TrimSpace(*rc.Title),
		Description:          deref(rc.Description),
		SubContent:           optional(rc.SubContent),
		InstitutionType:      deref(rc.InstituteType),
		Category:             deref(rc.Category),
		InstallmentAvailable: bool(rc.InstallAvailability),
		Instructor:           optional(rc.Instructor),
		Level:                deref(rc.CourseLevel),
		Streams:              normalizeSet(rc.Streams),
		Locations:            normalizeSet(rc.Locations),
		EducationModes:       normalizeSet(rc.EducationModes),
		AgeGroup:             optional(rc.AgeGroup),
		MinimumScore:         rc.MinimumZScore.value(),
		ExamBoard:            optional(rc.ExamBoard),
		Media:                normalizeMedia(*rc.ID, rc.MediaItems),
		CreatedAt:            parseTime(rc.CreatedAt),
		UpdatedAt:            parseTime(rc.UpdatedAt),
	}
	if d := rc.CourseDuration.value(); d != nil {
		c.DurationMonths = int(*d)
	}
	if f := rc.CourseFee.value(); f != nil {
		c.Fee = *f
	}
	return c, nil
}

// NormalizeAll normalizes a batch. The first malformed record fails the whole
// batch so that no partially populated cards reach the caller.
func NormalizeAll(raws []json.RawMessage) ([]model.Course, error) {
	out := make([]model.Course, 0, len(raws))
	for i, raw := range raws {
		c, err := Normalize(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, *c)
	}
	return out, nil
}

func normalizeMedia(courseID int64, items []rawMedia) []model.MediaItem {
	out := make([]model.MediaItem, 0, len(items))
	for _, m := range items {
		owner := m.CourseID
		if owner == 0 {
			owner = courseID
		}
		out = append(out, model.MediaItem{
			ID:       m.ID,
			CourseID: owner,
			Type:     strings.ToLower(strings.TrimSpace(m.MediaType)),
			Kind:     model.KindOf(m.MediaType),
			URL:      model.NormalizeMediaPath(m.MediaURL),
		})
	}
	return out
}

// normalizeSet trims values, drops blanks and removes case-insensitive
// duplicates while keeping the first spelling and the original order.
func normalizeSet(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC1123,
}

func parseTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, *s); err == nil {
			return &t
		}
	}
	return nil
}

// flexNumber accepts a JSON number, a numeric string or null.
// Empty strings, non-numeric strings, NaN and infinities decode as absent.
type flexNumber struct {
	v     float64
	valid bool
}

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n.v, n.valid = f, true
	return nil
}

func (n flexNumber) value() *float64 {
	if !n.valid {
		return nil
	}
	v := n.v
	return &v
}

// flexBool accepts true/false, "true"/"false" and 0/1.
type flexBool bool

func (fb *flexBool) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.ToLower(string(bytes.TrimSpace(b))), `"`)
	*fb = s == "true" || s == "1" || s == "yes"
	return nil
}

// flexList accepts a JSON array of strings, a comma-joined string, a
// JSON-encoded array inside a string, or null.
type flexList []string

func (l *flexList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if b[0] == '[' {
		var items []string
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		var items []string
		if err := json.Unmarshal([]byte(s), &items); err == nil {
			*l = items
			return nil
		}
	}
	*l = strings.Split(s, ",")
	return nil
}
