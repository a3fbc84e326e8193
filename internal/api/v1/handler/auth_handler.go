package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"coursefinder/internal/api/v1/dto"
	"coursefinder/internal/middleware"
	"coursefinder/internal/service"
	"coursefinder/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// AuthHandler handles login, registration and session endpoints
type AuthHandler struct {
	authService  service.AuthService
	sessions     *session.Manager
	validate     *validator.Validate
	secureCookie bool
	logger       zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, sessions *session.Manager, validate *validator.Validate, secureCookie bool, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		sessions:     sessions,
		validate:     validate,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// RegisterRoutes mounts auth and session routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.login)
	r.Post("/auth/register", h.register)
	r.Post("/auth/google", h.googleSignIn)
	r.Post("/auth/logout", h.logout)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Get("/session", h.getSession)
		r.Put("/session/zscore", h.updateZScore)
		r.Get("/users/me/profile", h.getProfile)
	})
}

// login godoc
// @Summary Log in
// @Description Exchanges email and password for a session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginDTO true "Credentials"
// @Success 200 {object} dto.SessionResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Invalid email or password"
// @Router /auth/login [post]
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginDTO
	if !h.decode(w, r, &req) {
		return
	}
	sess, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, "Login failed", err)
		return
	}
	h.startSession(w, sess, token)
}

// register godoc
// @Summary Register
// @Description Creates an account. The backend emails a verification link, so no session is started.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RegisterDTO true "Registration"
// @Success 201 {object} dto.MessageDTO
// @Failure 400 {string} string "Passwords do not match or fields missing"
// @Router /auth/register [post]
func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	// Password mismatch is reported before field validation.
	if req.Password != req.ConfirmPassword {
		http.Error(w, service.ErrPasswordMismatch.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	msg, err := h.authService.Register(r.Context(), service.RegisterForm{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		UserType:        req.UserType,
	})
	if err != nil {
		writeError(w, h.logger, "Registration failed", err)
		return
	}
	if msg == "" {
		msg = "Registration successful. Please check your email to verify your account."
	}
	writeJSON(w, http.StatusCreated, dto.MessageDTO{Message: msg})
}

// googleSignIn godoc
// @Summary Sign in with Google
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.GoogleSignInDTO true "Google ID token"
// @Success 200 {object} dto.SessionResponseDTO
// @Failure 401 {string} string "Invalid Google ID token"
// @Router /auth/google [post]
func (h *AuthHandler) googleSignIn(w http.ResponseWriter, r *http.Request) {
	var req dto.GoogleSignInDTO
	if !h.decode(w, r, &req) {
		return
	}
	sess, token, err := h.authService.GoogleSignIn(r.Context(), req.IDToken)
	if err != nil {
		writeError(w, h.logger, "Google sign-in failed", err)
		return
	}
	h.startSession(w, sess, token)
}

// logout godoc
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MessageDTO
// @Router /auth/logout [post]
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.SessionFrom(r.Context()); ok {
		if err := h.authService.Logout(r.Context(), sess.ID); err != nil {
			writeError(w, h.logger, "Logout failed", err)
			return
		}
	}
	http.SetCookie(w, h.cookie("", -1))
	writeJSON(w, http.StatusOK, dto.MessageDTO{Message: "Logged out"})
}

// getSession godoc
// @Summary Current session
// @Tags auth
// @Produce json
// @Success 200 {object} dto.SessionResponseDTO
// @Failure 401 {string} string "Unauthorized: please log in"
// @Router /session [get]
func (h *AuthHandler) getSession(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFrom(r.Context())
	writeJSON(w, http.StatusOK, sessionResponse(sess, ""))
}

// updateZScore godoc
// @Summary Set the session Z-Score
// @Description Stores the student's Z-Score so searches are annotated without a zscore parameter. A null value clears it.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.ZScoreUpdateDTO true "Z-Score"
// @Success 200 {object} dto.SessionResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "Unauthorized: please log in"
// @Router /session/zscore [put]
func (h *AuthHandler) updateZScore(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFrom(r.Context())
	var req dto.ZScoreUpdateDTO
	if !h.decode(w, r, &req) {
		return
	}
	sess.ZScore = req.ZScore
	if err := h.sessions.Update(r.Context(), sess); err != nil {
		writeError(w, h.logger, "Failed to update session", err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(sess, ""))
}

// getProfile godoc
// @Summary Student profile
// @Tags users
// @Produce json
// @Success 200 {object} dto.ProfileResponseDTO
// @Failure 401 {string} string "Unauthorized: please log in"
// @Router /users/me/profile [get]
func (h *AuthHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFrom(r.Context())
	p, err := h.authService.Profile(r.Context(), sess)
	if err != nil {
		writeError(w, h.logger, "Failed to retrieve profile", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ProfileResponseDTO{
		Email:              p.Email,
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Age:                p.Age,
		QualificationLevel: p.QualificationLevel,
		Avatar:             p.Avatar,
	})
}

func (h *AuthHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *AuthHandler) startSession(w http.ResponseWriter, sess *session.Session, token string) {
	http.SetCookie(w, h.cookie(token, int(h.sessions.TTL()/time.Second)))
	writeJSON(w, http.StatusOK, sessionResponse(sess, token))
}

func (h *AuthHandler) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func sessionResponse(sess *session.Session, token string) dto.SessionResponseDTO {
	return dto.SessionResponseDTO{
		Token:     token,
		User:      dto.NewUserResponse(sess.User),
		ZScore:    sess.ZScore,
		ExpiresAt: sess.ExpiresAt.Unix(),
	}
}
