package service

import (
	"errors"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"coursefinder/internal/backend"

	"github.com/go-playground/validator/v10"
)

const (
	MaxPhotos     = 3
	MaxVideos     = 1
	MaxMediaBytes = 50 << 20
	MaxZScore     = 3.0
)

// EducationModes are the accepted delivery modes of a course.
var EducationModes = []string{"online", "onsite"}

var allowedMediaTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"video/mp4":  true,
	"video/avi":  true,
	"video/mov":  true,
}

// FormError maps form inputs to the message shown next to them.
type FormError struct {
	Fields map[string]string
}

func (e *FormError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "invalid course form: " + strings.Join(parts, "; ")
}

// CourseForm is the raw create-course input. Numeric fields stay strings
// until validated so each failure can carry its own message.
type CourseForm struct {
	Title               string `form:"title" validate:"required"`
	Description         string `form:"description"`
	SubContent          string `form:"sub_content"`
	InstituteType       string `form:"institute_type" validate:"required"`
	Category            string `form:"category" validate:"required"`
	CourseDuration      string `form:"course_duration" validate:"required"`
	CourseFee           string `form:"course_fee" validate:"required"`
	InstallAvailability bool   `form:"install_availability"`
	Instructor          string `form:"instructor"`
	CourseLevel         string `form:"course_level" validate:"required"`
	AgeGroup            string `form:"age_group"`
	MinimumZScore       string `form:"minimum_z_score"`
	ExamBoard           string `form:"exam_board"`
	Streams             []string
	Locations           []string
	EducationModes      []string `form:"education_modes"`
	MediaFiles          []backend.MediaFile
}

var requiredMessages = map[string]string{
	"title":           "Title is required",
	"institute_type":  "Institution type is required",
	"category":        "Category is required",
	"course_level":    "Course level is required",
	"course_duration": "Course duration is required",
	"course_fee":      "Course fee is required",
}

// Build validates the form and converts it into a backend submission.
func (f CourseForm) Build(validate *validator.Validate) (backend.NewCourse, *FormError) {
	f.trim()
	fields := map[string]string{}

	if validate != nil {
		if err := validate.Struct(f); err != nil {
			var verrs validator.ValidationErrors
			if errors.As(err, &verrs) {
				for _, fe := range verrs {
					name := formName(fe)
					if msg, ok := requiredMessages[name]; ok {
						fields[name] = msg
					} else {
						fields[name] = fe.Error()
					}
				}
			}
		}
	}

	duration := 0
	if _, missing := fields["course_duration"]; !missing && f.CourseDuration != "" {
		d, err := strconv.Atoi(f.CourseDuration)
		if err != nil || d <= 0 {
			fields["course_duration"] = "Course duration must be a positive integer"
		}
		duration = d
	}

	fee := 0.0
	if _, missing := fields["course_fee"]; !missing && f.CourseFee != "" {
		v, err := strconv.ParseFloat(f.CourseFee, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			fields["course_fee"] = "Course fee must be a positive number"
		}
		fee = v
	}

	modes := lowerSet(f.EducationModes)
	for _, m := range modes {
		if !contains(EducationModes, m) {
			fields["education_modes"] = "Education mode must be online or onsite"
		}
	}
	if len(modes) == 0 {
		fields["education_modes"] = "At least one education mode is required"
	}

	if f.MinimumZScore != "" {
		z, err := strconv.ParseFloat(f.MinimumZScore, 64)
		if err != nil || math.IsNaN(z) || z < 0 || z > MaxZScore {
			fields["minimum_z_score"] = "Z-Score must be between 0 and 3"
		}
	}

	if msg := checkMedia(f.MediaFiles); msg != "" {
		fields["media_files"] = msg
	}

	if len(fields) > 0 {
		return backend.NewCourse{}, &FormError{Fields: fields}
	}

	return backend.NewCourse{
		Title:               f.Title,
		Description:         f.Description,
		SubContent:          f.SubContent,
		InstituteType:       f.InstituteType,
		Category:            f.Category,
		CourseDuration:      duration,
		CourseFee:           fee,
		InstallAvailability: f.InstallAvailability,
		Instructor:          f.Instructor,
		CourseLevel:         f.CourseLevel,
		AgeGroup:            f.AgeGroup,
		MinimumZScore:       f.MinimumZScore,
		ExamBoard:           f.ExamBoard,
		Streams:             lowerSet(f.Streams),
		Locations:           lowerSet(f.Locations),
		EducationModes:      modes,
		MediaFiles:          f.MediaFiles,
	}, nil
}

func (f *CourseForm) trim() {
	for _, p := range []*string{
		&f.Title, &f.Description, &f.SubContent, &f.InstituteType, &f.Category,
		&f.CourseDuration, &f.CourseFee, &f.Instructor, &f.CourseLevel,
		&f.AgeGroup, &f.MinimumZScore, &f.ExamBoard,
	} {
		*p = strings.TrimSpace(*p)
	}
}

// checkMedia applies the upload limits in order; the last failing rule
// decides the message.
func checkMedia(files []backend.MediaFile) string {
	photos, videos := 0, 0
	oversized, invalid := false, false
	for _, f := range files {
		ct := strings.ToLower(f.ContentType)
		switch {
		case strings.HasPrefix(ct, "image/"):
			photos++
		case strings.HasPrefix(ct, "video/"):
			videos++
		}
		if len(f.Data) > MaxMediaBytes {
			oversized = true
		}
		if !allowedMediaTypes[ct] {
			invalid = true
		}
	}

	msg := ""
	if photos > MaxPhotos {
		msg = "Maximum 3 photos allowed"
	}
	if videos > MaxVideos {
		msg = "Maximum 1 video allowed"
	}
	if oversized {
		msg = "Each file must be under 50MB"
	}
	if invalid {
		msg = "Only JPEG, PNG, GIF images and MP4, AVI, MOV videos are allowed"
	}
	return msg
}

// lowerSet lower-cases, trims and de-duplicates values keeping first-seen order.
func lowerSet(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func formName(fe validator.FieldError) string {
	if name := fe.Field(); name != "" && name != fe.StructField() {
		return name
	}
	if sf, ok := reflect.TypeOf(CourseForm{}).FieldByName(fe.StructField()); ok {
		if tag := sf.Tag.Get("form"); tag != "" {
			return tag
		}
	}
	return strings.ToLower(fe.StructField())
}
