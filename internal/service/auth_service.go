package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coursefinder/internal/backend"
	"coursefinder/internal/model"
	"coursefinder/internal/session"

	"github.com/rs/zerolog"
	"google.golang.org/api/idtoken"
)

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrMissingFields    = errors.New("all fields are required")
	ErrMissingLogin     = errors.New("email and password are required")
	ErrInvalidIDToken   = errors.New("invalid Google ID token")
)

// DefaultUserType is assigned to registrations that do not pick one.
const DefaultUserType = "student"

// AuthBackend is the slice of the backend client used for authentication.
type AuthBackend interface {
	Login(ctx context.Context, email, password string) (*backend.AuthResult, error)
	Register(ctx context.Context, reg backend.Registration) (string, error)
	FirebaseLogin(ctx context.Context, idToken string) (*backend.AuthResult, error)
	StudentProfile(ctx context.Context, token string) (*model.StudentProfile, error)
}

// IDTokenValidator checks a Google ID token against an audience.
type IDTokenValidator func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

// RegisterForm is a sign-up request.
type RegisterForm struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	UserType        string `json:"user_type"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*session.Session, string, error)
	Register(ctx context.Context, form RegisterForm) (string, error)
	GoogleSignIn(ctx context.Context, idToken string) (*session.Session, string, error)
	Logout(ctx context.Context, sessionID string) error
	Profile(ctx context.Context, s *session.Session) (*model.StudentProfile, error)
}

type authService struct {
	backend        AuthBackend
	sessions       *session.Manager
	googleClientID string
	validateID     IDTokenValidator
	logger         zerolog.Logger
}

// NewAuthService creates an AuthService. When googleClientID is empty, ID
// tokens are forwarded to the backend without local verification.
func NewAuthService(b AuthBackend, sessions *session.Manager, googleClientID string, logger zerolog.Logger) AuthService {
	return &authService{
		backend:        b,
		sessions:       sessions,
		googleClientID: googleClientID,
		validateID:     idtoken.Validate,
		logger:         logger,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*session.Session, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", ErrMissingLogin
	}
	res, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	return s.start(ctx, res, "password")
}

func (s *authService) Register(ctx context.Context, form RegisterForm) (string, error) {
	if form.Password != form.ConfirmPassword {
		return "", ErrPasswordMismatch
	}
	reg := backend.Registration{
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Email:     strings.TrimSpace(form.Email),
		Password:  form.Password,
		UserType:  strings.TrimSpace(form.UserType),
	}
	if reg.FirstName == "" || reg.LastName == "" || reg.Email == "" || reg.Password == "" {
		return "", ErrMissingFields
	}
	if reg.UserType == "" {
		reg.UserType = DefaultUserType
	}
	msg, err := s.backend.Register(ctx, reg)
	if err != nil {
		return "", err
	}
	s.logger.Info().Str("email", reg.Email).Msg("user registered")
	return msg, nil
}

func (s *authService) GoogleSignIn(ctx context.Context, idToken string) (*session.Session, string, error) {
	if idToken == "" {
		return nil, "", ErrInvalidIDToken
	}
	if s.googleClientID != "" {
		if _, err := s.validateID(ctx, idToken, s.googleClientID); err != nil {
			s.logger.Warn().Err(err).Msg("rejected Google ID token")
			return nil, "", fmt.Errorf("%w: %w", ErrInvalidIDToken, err)
		}
	}
	res, err := s.backend.FirebaseLogin(ctx, idToken)
	if err != nil {
		return nil, "", err
	}
	return s.start(ctx, res, "google")
}

func (s *authService) start(ctx context.Context, res *backend.AuthResult, method string) (*session.Session, string, error) {
	sess, token, err := s.sessions.Create(ctx, res.Tokens, res.User)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info().Int64("user_id", res.User.ID).Str("method", method).Msg("session started")
	return sess, token, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Destroy(ctx, sessionID)
}

func (s *authService) Profile(ctx context.Context, sess *session.Session) (*model.StudentProfile, error) {
	if sess == nil {
		return nil, backend.ErrUnauthorized
	}
	return s.backend.StudentProfile(ctx, sess.AccessToken)
}
