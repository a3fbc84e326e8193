package model

import "time"

// Course is the canonical course record produced by the catalog normalizer.
// Optional fields are pointers so that "absent" is never confused with zero.
type Course struct {
	ID                   int64       `json:"id"`
	Title                string      `json:"title"`
	Description          string      `json:"description"`
	SubContent           *string     `json:"sub_content,omitempty"`
	InstitutionType      string      `json:"institute_type"`
	Category             string      `json:"category"`
	DurationMonths       int         `json:"course_duration"`
	Fee                  float64     `json:"course_fee"`
	InstallmentAvailable bool        `json:"install_availability"`
	Instructor           *string     `json:"instructor,omitempty"`
	Level                string      `json:"course_level"`
	Streams              []string    `json:"streams"`
	Locations            []string    `json:"locations"`
	EducationModes       []string    `json:"education_modes"`
	AgeGroup             *string     `json:"age_group,omitempty"`
	MinimumScore         *float64    `json:"minimum_z_score,omitempty"`
	ExamBoard            *string     `json:"exam_board,omitempty"`
	Media                []MediaItem `json:"media_items"`
	CreatedAt            *time.Time  `json:"created_at,omitempty"`
	UpdatedAt            *time.Time  `json:"updated_at,omitempty"`
}

// HasMinimumScore reports whether the course carries a Z-Score requirement.
func (c Course) HasMinimumScore() bool {
	return c.MinimumScore != nil
}

// CarouselMedia is what a card's timer rotates over: the images in source
// order, or all media when the course has no images.
func (c Course) CarouselMedia() []MediaItem {
	if images := c.RotatingMedia(); len(images) > 0 {
		return images
	}
	return c.Media
}

// RotatingMedia returns the media items that take part in auto rotation.
func (c Course) RotatingMedia() []MediaItem {
	out := make([]MediaItem, 0, len(c.Media))
	for _, m := range c.Media {
		if m.Kind.Rotates() {
			out = append(out, m)
		}
	}
	return out
}
