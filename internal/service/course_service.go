package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"coursefinder/internal/backend"
	"coursefinder/internal/catalog"
	"coursefinder/internal/model"
	"coursefinder/internal/pubsub"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// CourseBackend is the slice of the backend client the catalog needs.
type CourseBackend interface {
	ActiveCourses(ctx context.Context, token string) ([]json.RawMessage, error)
	FindCourse(ctx context.Context, token string, id int64) (json.RawMessage, error)
	AddCourse(ctx context.Context, token string, nc backend.NewCourse) (json.RawMessage, error)
}

// SearchResult is one filtered and annotated view of the catalog.
type SearchResult struct {
	Results   []catalog.Result
	Total     int
	Matched   int
	Eligible  int
	Stats     catalog.QuickStats
	FetchedAt time.Time
}

// CreatedCourse is the backend's acknowledgement of a new course.
type CreatedCourse struct {
	ID      int64  `json:"id"`
	Message string `json:"message,omitempty"`
}

type CourseService interface {
	// Refresh refetches the active courses and replaces the snapshot unless
	// a newer fetch has already been applied.
	Refresh(ctx context.Context, token string) ([]model.Course, error)
	Search(ctx context.Context, token string, c catalog.Criteria) (*SearchResult, error)
	Get(ctx context.Context, token string, id int64) (*model.Course, error)
	Create(ctx context.Context, token string, author model.User, form CourseForm) (*CreatedCourse, error)
	// Invalidate drops the snapshot so the next search refetches.
	Invalidate()
}

type fetchResult struct {
	seq     uint64
	courses []model.Course
}

type courseService struct {
	backend   CourseBackend
	publisher pubsub.Publisher
	topic     string
	validate  *validator.Validate
	ttl       time.Duration
	logger    zerolog.Logger
	now       func() time.Time

	group singleflight.Group
	seq   atomic.Uint64

	mu        sync.RWMutex
	snapshot  []model.Course
	fetchedAt time.Time
	applied   uint64
}

// NewCourseService wires the catalog. publisher may be nil, in which case
// no course events are emitted.
func NewCourseService(b CourseBackend, publisher pubsub.Publisher, topic string, validate *validator.Validate, ttl time.Duration, logger zerolog.Logger) CourseService {
	return &courseService{
		backend:   b,
		publisher: publisher,
		topic:     topic,
		validate:  validate,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
	}
}

const activeKey = "active"

func (s *courseService) Refresh(ctx context.Context, token string) ([]model.Course, error) {
	ch := s.group.DoChan(activeKey, func() (any, error) {
		seq := s.seq.Add(1)
		// The shared fetch outlives any single caller's cancellation.
		raws, err := s.backend.ActiveCourses(context.WithoutCancel(ctx), token)
		if err != nil {
			return nil, err
		}
		courses, err := catalog.NormalizeAll(raws)
		if err != nil {
			return nil, err
		}
		return fetchResult{seq: seq, courses: courses}, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			s.logger.Error().Err(res.Err).Msg("failed to refresh course catalog")
			return nil, res.Err
		}
		fr := res.Val.(fetchResult)
		s.apply(fr)
		return fr.courses, nil
	}
}

// apply installs a fetch result only if it started after the last applied
// fetch and after the last invalidation.
func (s *courseService) apply(fr fetchResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fr.seq <= s.applied {
		s.logger.Debug().Uint64("seq", fr.seq).Uint64("applied", s.applied).Msg("discarding stale catalog fetch")
		return false
	}
	s.snapshot = fr.courses
	s.fetchedAt = s.now()
	s.applied = fr.seq
	return true
}

func (s *courseService) Invalidate() {
	s.group.Forget(activeKey)
	s.mu.Lock()
	s.applied = s.seq.Add(1)
	s.fetchedAt = time.Time{}
	s.mu.Unlock()
}

func (s *courseService) current() ([]model.Course, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fresh := !s.fetchedAt.IsZero() && (s.ttl <= 0 || s.now().Sub(s.fetchedAt) < s.ttl)
	return s.snapshot, s.fetchedAt, fresh
}

func (s *courseService) Search(ctx context.Context, token string, c catalog.Criteria) (*SearchResult, error) {
	courses, fetchedAt, fresh := s.current()
	if !fresh {
		refreshed, err := s.Refresh(ctx, token)
		switch {
		case err == nil:
			courses, fetchedAt, _ = s.current()
			if courses == nil {
				courses = refreshed
			}
		case courses != nil && !errors.Is(err, context.Canceled):
			s.logger.Warn().Err(err).Msg("serving stale course catalog")
		default:
			return nil, err
		}
	}

	matched := catalog.Filter(courses, c)
	results := catalog.Annotate(matched, c.Score)
	return &SearchResult{
		Results:   results,
		Total:     len(courses),
		Matched:   len(matched),
		Eligible:  catalog.CountEligible(results),
		Stats:     catalog.Stats(courses),
		FetchedAt: fetchedAt,
	}, nil
}

func (s *courseService) Get(ctx context.Context, token string, id int64) (*model.Course, error) {
	raw, err := s.backend.FindCourse(ctx, token, id)
	if err != nil {
		return nil, err
	}
	course, err := catalog.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("course %d: %w", id, err)
	}
	return course, nil
}

func (s *courseService) Create(ctx context.Context, token string, author model.User, form CourseForm) (*CreatedCourse, error) {
	nc, ferr := form.Build(s.validate)
	if ferr != nil {
		return nil, ferr
	}

	raw, err := s.backend.AddCourse(ctx, token, nc)
	if err != nil {
		return nil, err
	}
	created := decodeCreated(raw)
	s.Invalidate()

	s.logger.Info().Int64("course_id", created.ID).Str("title", nc.Title).Msg("course created")
	if s.publisher != nil {
		ev := pubsub.CourseEvent{
			Type:       pubsub.CourseCreated,
			CourseID:   created.ID,
			Title:      nc.Title,
			Category:   nc.Category,
			Level:      nc.CourseLevel,
			CreatedBy:  author.ID,
			OccurredAt: s.now().UTC(),
		}
		if _, err := pubsub.PublishCourseEvent(ctx, s.publisher, s.topic, ev); err != nil {
			s.logger.Error().Err(err).Int64("course_id", created.ID).Msg("failed to publish course event")
		}
	}
	return created, nil
}

// decodeCreated accepts either the created course object or a
// {"message", "course_id"} acknowledgement.
func decodeCreated(raw json.RawMessage) *CreatedCourse {
	var body struct {
		ID       int64  `json:"id"`
		CourseID int64  `json:"course_id"`
		Message  string `json:"message"`
	}
	_ = json.Unmarshal(raw, &body)
	id := body.ID
	if id == 0 {
		id = body.CourseID
	}
	return &CreatedCourse{ID: id, Message: body.Message}
}
