package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// CourseCreated is the event type emitted after a course is accepted by the backend.
const CourseCreated = "course.created"

// CourseEvent is the JSON payload of course events.
type CourseEvent struct {
	Type       string    `json:"type"`
	CourseID   int64     `json:"course_id"`
	Title      string    `json:"title"`
	Category   string    `json:"category,omitempty"`
	Level      string    `json:"course_level,omitempty"`
	CreatedBy  int64     `json:"created_by,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PublishCourseEvent encodes ev and publishes it with its type and course id
// as message attributes.
func PublishCourseEvent(ctx context.Context, p Publisher, topic string, ev CourseEvent) (string, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("encode %s event: %w", ev.Type, err)
	}
	return p.Publish(ctx, topic, payload, map[string]string{
		"event_type": ev.Type,
		"course_id":  strconv.FormatInt(ev.CourseID, 10),
	})
}
