package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
)

// ActiveCourses fetches the raw course objects from GET /api/courses/active.
func (c *Client) ActiveCourses(ctx context.Context, token string) ([]json.RawMessage, error) {
	body, err := c.get(ctx, "/api/courses/active", token)
	if err != nil {
		return nil, fmt.Errorf("fetch active courses: %w", err)
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, fmt.Errorf("decode active courses: %w", err)
	}
	return raws, nil
}

// FindCourse fetches one raw course object. A 404 yields ErrCourseNotFound.
func (c *Client) FindCourse(ctx context.Context, token string, id int64) (json.RawMessage, error) {
	body, err := c.get(ctx, "/api/courses/find/"+strconv.FormatInt(id, 10), token)
	if err != nil {
		var herr *HTTPError
		if errors.As(err, &herr) && herr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("course %d: %w", id, ErrCourseNotFound)
		}
		return nil, fmt.Errorf("find course %d: %w", id, err)
	}
	return json.RawMessage(body), nil
}

// MediaFile is one upload attached to a new course.
type MediaFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// NewCourse is the multipart submission for POST /api/courses/add.
type NewCourse struct {
	Title               string
	Description         string
	SubContent          string
	InstituteType       string
	Category            string
	CourseDuration      int
	CourseFee           float64
	InstallAvailability bool
	Instructor          string
	CourseLevel         string
	AgeGroup            string
	MinimumZScore       string
	ExamBoard           string
	Streams             []string
	Locations           []string
	EducationModes      []string
	MediaFiles          []MediaFile
}

// AddCourse submits a new course. A 400 with an errors list comes back as
// *ValidationError with messages already mapped to form fields.
func (c *Client) AddCourse(ctx context.Context, token string, nc NewCourse) (json.RawMessage, error) {
	contentType, payload, err := encodeNewCourse(nc)
	if err != nil {
		return nil, fmt.Errorf("encode course form: %w", err)
	}
	body, err := c.postBody(ctx, "/api/courses/add", token, contentType, payload)
	if err != nil {
		var herr *HTTPError
		if errors.As(err, &herr) && herr.StatusCode == http.StatusBadRequest {
			if verr := validationFromBody(herr.Body); verr != nil {
				return nil, verr
			}
		}
		return nil, fmt.Errorf("add course: %w", err)
	}
	return json.RawMessage(body), nil
}

// encodeNewCourse writes scalar fields as plain form fields, list fields as
// JSON-encoded strings and every file under a repeated media_files part.
func encodeNewCourse(nc NewCourse) (string, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	scalars := []struct{ key, value string }{
		{"title", nc.Title},
		{"description", nc.Description},
		{"sub_content", nc.SubContent},
		{"institute_type", nc.InstituteType},
		{"category", nc.Category},
		{"course_duration", strconv.Itoa(nc.CourseDuration)},
		{"course_fee", strconv.FormatFloat(nc.CourseFee, 'f', -1, 64)},
		{"install_availability", strconv.FormatBool(nc.InstallAvailability)},
		{"instructor", nc.Instructor},
		{"course_level", nc.CourseLevel},
		{"age_group", nc.AgeGroup},
		{"minimum_z_score", nc.MinimumZScore},
		{"exam_board", nc.ExamBoard},
	}
	for _, f := range scalars {
		if err := w.WriteField(f.key, f.value); err != nil {
			return "", nil, err
		}
	}

	lists := []struct {
		key    string
		values []string
	}{
		{"streams", nc.Streams},
		{"locations", nc.Locations},
		{"education_modes", nc.EducationModes},
	}
	for _, l := range lists {
		values := l.values
		if values == nil {
			values = []string{}
		}
		encoded, err := json.Marshal(values)
		if err != nil {
			return "", nil, err
		}
		if err := w.WriteField(l.key, string(encoded)); err != nil {
			return "", nil, err
		}
	}

	for _, f := range nc.MediaFiles {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="media_files"; filename=%q`, f.Name))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return "", nil, err
		}
		if _, err := io.Copy(part, bytes.NewReader(f.Data)); err != nil {
			return "", nil, err
		}
	}

	if err := w.Close(); err != nil {
		return "", nil, err
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}
