package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapFieldErrors(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
		want     map[string]string
	}{
		{
			name:     "required with quoted field",
			messages: []string{"'title' is required"},
			want:     map[string]string{"title": "'title' is required"},
		},
		{
			name:     "required without field",
			messages: []string{"All fields are required"},
			want:     map[string]string{GeneralField: "All fields are required"},
		},
		{
			name:     "media limits",
			messages: []string{"Maximum 1 video allowed"},
			want:     map[string]string{"media_files": "Maximum 1 video allowed"},
		},
		{
			name:     "unmatched",
			messages: []string{"Database error"},
			want:     map[string]string{GeneralField: "Database error"},
		},
		{
			name:     "empty",
			messages: nil,
			want:     map[string]string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapFieldErrors(tt.messages))
		})
	}
}

func TestValidationFromBody(t *testing.T) {
	verr := validationFromBody([]byte(`{"error":"Invalid course level"}`))
	if assert.NotNil(t, verr) {
		assert.Equal(t, map[string]string{GeneralField: "Invalid course level"}, verr.Fields)
	}
	assert.Nil(t, validationFromBody([]byte(`not json`)))
	assert.Nil(t, validationFromBody([]byte(`{}`)))
}

func TestHTTPErrorMessage(t *testing.T) {
	e := &HTTPError{StatusCode: 400, Body: []byte(`{"error":"bad"}`)}
	assert.Equal(t, "bad", e.Message())
	assert.Contains(t, e.Error(), "status=400")

	e = &HTTPError{StatusCode: 500, Body: []byte(`<html>`)}
	assert.Empty(t, e.Message())
}
