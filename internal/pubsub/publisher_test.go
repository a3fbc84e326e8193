package pubsub

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"coursefinder/internal/config"

	ps "cloud.google.com/go/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	topic      string
	payload    []byte
	attributes map[string]string
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, payload []byte, attributes map[string]string) (string, error) {
	r.topic, r.payload, r.attributes = topic, payload, attributes
	return "msg-1", nil
}

func TestNewPublisherInvalidProject(t *testing.T) {
	cfg := &config.Config{GCPProjectID: ""}
	_, err := NewPublisher(context.Background(), cfg)
	assert.Error(t, err, "expected error when project ID is empty")
}

func TestPublishCourseEvent(t *testing.T) {
	rec := &recordingPublisher{}
	ev := CourseEvent{
		Type:       CourseCreated,
		CourseID:   42,
		Title:      "Diploma in IT",
		OccurredAt: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}

	id, err := PublishCourseEvent(context.Background(), rec, "course-events", ev)
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	assert.Equal(t, "course-events", rec.topic)
	assert.Equal(t, map[string]string{"event_type": "course.created", "course_id": "42"}, rec.attributes)

	var decoded CourseEvent
	require.NoError(t, json.Unmarshal(rec.payload, &decoded))
	assert.Equal(t, ev, decoded)
}

func TestPublishWithEmulator(t *testing.T) {
	if os.Getenv("PUBSUB_EMULATOR_HOST") == "" {
		t.Skip("PUBSUB_EMULATOR_HOST is not set, skip emulator integration test")
	}

	ctx := context.Background()
	pub, err := NewPublisher(ctx, &config.Config{GCPProjectID: "test-project", PubSubEmulatorHost: os.Getenv("PUBSUB_EMULATOR_HOST")})
	require.NoError(t, err)
	defer pub.Close()

	topicName := "course-events-test"
	topic, err := pub.client.CreateTopic(ctx, topicName)
	require.NoError(t, err)
	sub, err := pub.client.CreateSubscription(ctx, "course-events-test-sub", ps.SubscriptionConfig{Topic: topic})
	require.NoError(t, err)

	msgID, err := PublishCourseEvent(ctx, pub, topicName, CourseEvent{Type: CourseCreated, CourseID: 7, Title: "Pharmacy"})
	require.NoError(t, err)
	require.NotEmpty(t, msgID)

	recvCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	got := make(chan *ps.Message, 1)
	go func() {
		sub.Receive(recvCtx, func(ctx context.Context, m *ps.Message) {
			got <- m
			m.Ack()
			cancel()
		})
	}()

	select {
	case m := <-got:
		assert.Equal(t, CourseCreated, m.Attributes["event_type"])
		assert.Equal(t, "7", m.Attributes["course_id"])
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message from emulator subscription")
	}
}
