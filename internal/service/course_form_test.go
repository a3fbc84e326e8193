package service

import (
	"bytes"
	"testing"

	"coursefinder/internal/backend"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseFormRules(t *testing.T) {
	png := backend.MediaFile{Name: "a.png", ContentType: "image/png", Data: []byte("x")}
	mp4 := backend.MediaFile{Name: "v.mp4", ContentType: "video/mp4", Data: []byte("x")}

	tests := []struct {
		name  string
		edit  func(f *CourseForm)
		field string
		want  string
	}{
		{"missing category", func(f *CourseForm) { f.Category = "" }, "category", "Category is required"},
		{"missing level", func(f *CourseForm) { f.CourseLevel = "" }, "course_level", "Course level is required"},
		{"missing duration", func(f *CourseForm) { f.CourseDuration = " " }, "course_duration", "Course duration is required"},
		{"zero duration", func(f *CourseForm) { f.CourseDuration = "0" }, "course_duration", "Course duration must be a positive integer"},
		{"fractional duration", func(f *CourseForm) { f.CourseDuration = "2.5" }, "course_duration", "Course duration must be a positive integer"},
		{"negative fee", func(f *CourseForm) { f.CourseFee = "-1" }, "course_fee", "Course fee must be a positive number"},
		{"text fee", func(f *CourseForm) { f.CourseFee = "free" }, "course_fee", "Course fee must be a positive number"},
		{"infinite fee", func(f *CourseForm) { f.CourseFee = "+Inf" }, "course_fee", "Course fee must be a positive number"},
		{"nan fee", func(f *CourseForm) { f.CourseFee = "NaN" }, "course_fee", "Course fee must be a positive number"},
		{"no modes", func(f *CourseForm) { f.EducationModes = nil }, "education_modes", "At least one education mode is required"},
		{"unknown mode", func(f *CourseForm) { f.EducationModes = []string{"hybrid"} }, "education_modes", "Education mode must be online or onsite"},
		{"z above 3", func(f *CourseForm) { f.MinimumZScore = "3.1" }, "minimum_z_score", "Z-Score must be between 0 and 3"},
		{"z below 0", func(f *CourseForm) { f.MinimumZScore = "-0.5" }, "minimum_z_score", "Z-Score must be between 0 and 3"},
		{"four photos", func(f *CourseForm) { f.MediaFiles = []backend.MediaFile{png, png, png, png} }, "media_files", "Maximum 3 photos allowed"},
		{"two videos", func(f *CourseForm) { f.MediaFiles = []backend.MediaFile{mp4, mp4} }, "media_files", "Maximum 1 video allowed"},
		{"oversized", func(f *CourseForm) {
			f.MediaFiles = []backend.MediaFile{{Name: "big.png", ContentType: "image/png", Data: bytes.Repeat([]byte("x"), MaxMediaBytes+1)}}
		}, "media_files", "Each file must be under 50MB"},
		{"pdf", func(f *CourseForm) {
			f.MediaFiles = []backend.MediaFile{{Name: "a.pdf", ContentType: "application/pdf", Data: []byte("x")}}
		}, "media_files", "Only JPEG, PNG, GIF images and MP4, AVI, MOV videos are allowed"},
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.edit(&f)
			_, ferr := f.Build(validate)
			require.NotNil(t, ferr)
			assert.Equal(t, tt.want, ferr.Fields[tt.field])
		})
	}
}

func TestCourseFormBoundaries(t *testing.T) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	for _, z := range []string{"", "0", "3", "2.9999"} {
		f := validForm()
		f.MinimumZScore = z
		_, ferr := f.Build(validate)
		assert.Nil(t, ferr, "z=%q", z)
	}

	f := validForm()
	f.CourseFee = "0"
	f.MediaFiles = nil
	nc, ferr := f.Build(validate)
	require.Nil(t, ferr)
	assert.Equal(t, 0.0, nc.CourseFee)
}

func TestFormErrorMessageIsSorted(t *testing.T) {
	err := &FormError{Fields: map[string]string{"title": "a", "category": "b"}}
	assert.Equal(t, "invalid course form: category: b; title: a", err.Error())
}
