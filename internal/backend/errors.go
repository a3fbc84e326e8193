package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrCourseNotFound is returned when the backend answers 404 for a course lookup.
	ErrCourseNotFound = errors.New("course not found")
	// ErrUnauthorized is returned for 401/403 answers (missing or expired token).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnavailable wraps transport failures where no response was received.
	ErrUnavailable = errors.New("backend unavailable")
)

// HTTPError carries status and body for non-2xx responses.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("backend error: %s %s status=%d body=%s", e.Method, e.URL, e.StatusCode, snippet(e.Body, 300))
}

// Message extracts the human readable message from a backend error body,
// preferring "message" over "error".
func (e *HTTPError) Message() string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(e.Body, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return ""
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

// GeneralField collects validation messages that cannot be tied to an input.
const GeneralField = "general"

// ValidationError is a rejected course submission. Fields maps form inputs
// to the message shown next to them.
type ValidationError struct {
	Messages []string
	Fields   map[string]string
}

func (e *ValidationError) Error() string {
	return "course rejected: " + strings.Join(e.Messages, "; ")
}

var quotedField = regexp.MustCompile(`'([^']+)'`)

// MapFieldErrors attaches backend validation messages to form fields.
// "required" messages go to the quoted field name, photo and video limits
// go to media_files, and everything else is general. Later messages for
// the same field win.
func MapFieldErrors(messages []string) map[string]string {
	fields := make(map[string]string, len(messages))
	for _, msg := range messages {
		switch {
		case strings.Contains(msg, "required"):
			field := GeneralField
			if m := quotedField.FindStringSubmatch(msg); m != nil {
				field = m[1]
			}
			fields[field] = msg
		case strings.Contains(msg, "photos"), strings.Contains(msg, "video"):
			fields["media_files"] = msg
		default:
			fields[GeneralField] = msg
		}
	}
	return fields
}

// validationFromBody builds a ValidationError from a 400 response body of
// either {"errors": [...]} or {"error": "..."} shape.
func validationFromBody(body []byte) *ValidationError {
	var payload struct {
		Errors []string `json:"errors"`
		Error  string   `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	switch {
	case len(payload.Errors) > 0:
		return &ValidationError{Messages: payload.Errors, Fields: MapFieldErrors(payload.Errors)}
	case payload.Error != "":
		return &ValidationError{
			Messages: []string{payload.Error},
			Fields:   map[string]string{GeneralField: payload.Error},
		}
	}
	return nil
}
