package service

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"coursefinder/internal/backend"
	"coursefinder/internal/model"
)

type fakeCourseBackend struct {
	mu      sync.Mutex
	courses []json.RawMessage
	err     error
	calls   atomic.Int32
	gate    chan struct{}

	found   map[int64]json.RawMessage
	added   []backend.NewCourse
	addResp json.RawMessage
	addErr  error
}

func (f *fakeCourseBackend) ActiveCourses(ctx context.Context, token string) ([]json.RawMessage, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.courses, f.err
}

func (f *fakeCourseBackend) FindCourse(ctx context.Context, token string, id int64) (json.RawMessage, error) {
	if raw, ok := f.found[id]; ok {
		return raw, nil
	}
	return nil, backend.ErrCourseNotFound
}

func (f *fakeCourseBackend) AddCourse(ctx context.Context, token string, nc backend.NewCourse) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, nc)
	return f.addResp, f.addErr
}

func (f *fakeCourseBackend) set(courses ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.courses = f.courses[:0]
	for _, c := range courses {
		f.courses = append(f.courses, json.RawMessage(c))
	}
}

type fakePublisher struct {
	mu       sync.Mutex
	messages [][]byte
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, topic string, payload []byte, attributes map[string]string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return "", p.err
	}
	p.messages = append(p.messages, payload)
	return "id", nil
}

type fakeAuthBackend struct {
	loginResult *backend.AuthResult
	loginErr    error
	registered  []backend.Registration
	firebase    []string
	profile     *model.StudentProfile
	tokenSeen   string
}

func (f *fakeAuthBackend) Login(ctx context.Context, email, password string) (*backend.AuthResult, error) {
	return f.loginResult, f.loginErr
}

func (f *fakeAuthBackend) Register(ctx context.Context, reg backend.Registration) (string, error) {
	f.registered = append(f.registered, reg)
	return "Registration successful", nil
}

func (f *fakeAuthBackend) FirebaseLogin(ctx context.Context, idToken string) (*backend.AuthResult, error) {
	f.firebase = append(f.firebase, idToken)
	return f.loginResult, f.loginErr
}

func (f *fakeAuthBackend) StudentProfile(ctx context.Context, token string) (*model.StudentProfile, error) {
	f.tokenSeen = token
	return f.profile, nil
}
