package dto

import (
	"strings"
	"time"

	"coursefinder/internal/catalog"
	"coursefinder/internal/model"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MediaItemDTO is one course image or video with its public URL.
type MediaItemDTO struct {
	ID   int64  `json:"id"`
	Kind string `json:"kind"`
	Type string `json:"media_type"`
	URL  string `json:"url"`
}

// CourseCardDTO is a course as shown in the grid and detail views.
// Set-valued fields are also joined for display.
type CourseCardDTO struct {
	ID                   int64          `json:"id"`
	Title                string         `json:"title"`
	Description          string         `json:"description"`
	SubContent           *string        `json:"sub_content,omitempty"`
	InstitutionType      string         `json:"institute_type"`
	Category             string         `json:"category"`
	DurationMonths       int            `json:"course_duration"`
	DurationLabel        string         `json:"course_duration_label"`
	Fee                  float64        `json:"course_fee"`
	FeeLabel             string         `json:"course_fee_label"`
	InstallmentAvailable bool           `json:"install_availability"`
	Instructor           *string        `json:"instructor,omitempty"`
	Level                string         `json:"course_level"`
	Streams              []string       `json:"streams"`
	StreamsLabel         string         `json:"streams_label"`
	Locations            []string       `json:"locations"`
	LocationsLabel       string         `json:"locations_label"`
	EducationModes       []string       `json:"education_modes"`
	EducationModesLabel  string         `json:"education_modes_label"`
	AgeGroup             *string        `json:"age_group,omitempty"`
	MinimumZScore        *float64       `json:"minimum_z_score,omitempty"`
	ExamBoard            *string        `json:"exam_board,omitempty"`
	Eligibility          string         `json:"eligibility"`
	CoverURL             string         `json:"cover_url,omitempty"`
	Media                []MediaItemDTO `json:"media"`
	CreatedAt            *time.Time     `json:"created_at,omitempty"`
}

// CourseListResponseDTO is returned by the course search endpoint.
type CourseListResponseDTO struct {
	Courses   []CourseCardDTO    `json:"courses"`
	Total     int                `json:"total"`
	Matched   int                `json:"matched"`
	Eligible  int                `json:"eligible"`
	Stats     catalog.QuickStats `json:"stats"`
	ZScore    *float64           `json:"z_score,omitempty"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// CourseCreatedDTO acknowledges a new course.
type CourseCreatedDTO struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// FieldErrorsDTO is the 422 body of a rejected course form.
type FieldErrorsDTO struct {
	Errors map[string]string `json:"errors"`
}

// RotationEventDTO is one SSE frame of the media rotation stream.
type RotationEventDTO struct {
	Index int          `json:"index"`
	Total int          `json:"total"`
	Item  MediaItemDTO `json:"item"`
}

var printer = message.NewPrinter(language.English)

// NewCourseCard maps a course and its eligibility for display. mediaURL
// turns a stored media path into a public URL.
func NewCourseCard(c model.Course, eligibility catalog.Eligibility, mediaURL func(string) string) CourseCardDTO {
	card := CourseCardDTO{
		ID:                   c.ID,
		Title:                c.Title,
		Description:          c.Description,
		SubContent:           c.SubContent,
		InstitutionType:      c.InstitutionType,
		Category:             c.Category,
		DurationMonths:       c.DurationMonths,
		DurationLabel:        DurationLabel(c.DurationMonths),
		Fee:                  c.Fee,
		FeeLabel:             FeeLabel(c.Fee),
		InstallmentAvailable: c.InstallmentAvailable,
		Instructor:           c.Instructor,
		Level:                c.Level,
		Streams:              nonNil(c.Streams),
		StreamsLabel:         strings.Join(c.Streams, ", "),
		Locations:            nonNil(c.Locations),
		LocationsLabel:       strings.Join(c.Locations, ", "),
		EducationModes:       nonNil(c.EducationModes),
		EducationModesLabel:  strings.Join(c.EducationModes, ", "),
		AgeGroup:             c.AgeGroup,
		MinimumZScore:        c.MinimumScore,
		ExamBoard:            c.ExamBoard,
		Eligibility:          string(eligibility),
		Media:                make([]MediaItemDTO, 0, len(c.Media)),
		CreatedAt:            c.CreatedAt,
	}
	for _, m := range c.Media {
		item := NewMediaItem(m, mediaURL)
		card.Media = append(card.Media, item)
		if card.CoverURL == "" && m.Kind == model.MediaImage {
			card.CoverURL = item.URL
		}
	}
	return card
}

// NewMediaItem maps one media item.
func NewMediaItem(m model.MediaItem, mediaURL func(string) string) MediaItemDTO {
	return MediaItemDTO{ID: m.ID, Kind: string(m.Kind), Type: m.Type, URL: mediaURL(m.URL)}
}

// DurationLabel renders a duration in months.
func DurationLabel(months int) string {
	if months == 1 {
		return "1 month"
	}
	return printer.Sprintf("%d months", months)
}

// FeeLabel renders a fee in rupees with thousands separators.
func FeeLabel(fee float64) string {
	if fee == float64(int64(fee)) {
		return printer.Sprintf("Rs. %d", int64(fee))
	}
	return printer.Sprintf("Rs. %.2f", fee)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
