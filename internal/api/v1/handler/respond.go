package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"coursefinder/internal/api/v1/dto"
	"coursefinder/internal/backend"
	"coursefinder/internal/middleware"
	"coursefinder/internal/service"
	"coursefinder/internal/session"

	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps service and backend errors onto HTTP statuses.
func writeError(w http.ResponseWriter, logger zerolog.Logger, action string, err error) {
	var (
		ferr *service.FormError
		verr *backend.ValidationError
		herr *backend.HTTPError
	)
	switch {
	case errors.As(err, &ferr):
		writeJSON(w, http.StatusUnprocessableEntity, dto.FieldErrorsDTO{Errors: ferr.Fields})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, dto.FieldErrorsDTO{Errors: verr.Fields})
	case errors.Is(err, backend.ErrCourseNotFound):
		http.Error(w, "Course not found", http.StatusNotFound)
	case errors.Is(err, service.ErrMediaNotFound):
		http.Error(w, "Media not found", http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidMediaPath):
		http.Error(w, "Invalid media path", http.StatusBadRequest)
	case errors.Is(err, backend.ErrUnauthorized),
		errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, service.ErrInvalidIDToken):
		http.Error(w, "Unauthorized: "+errorMessage(err), http.StatusUnauthorized)
	case errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrMissingLogin):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &herr) && herr.StatusCode < http.StatusInternalServerError:
		msg := herr.Message()
		if msg == "" {
			msg = http.StatusText(herr.StatusCode)
		}
		http.Error(w, msg, herr.StatusCode)
	case errors.Is(err, backend.ErrUnavailable), errors.As(err, &herr):
		logger.Error().Err(err).Msg(action)
		http.Error(w, "Course backend is unavailable", http.StatusBadGateway)
	case errors.Is(err, context.Canceled):
		// client went away
	default:
		logger.Error().Err(err).Msg(action)
		http.Error(w, action+": "+err.Error(), http.StatusInternalServerError)
	}
}

func errorMessage(err error) string {
	var herr *backend.HTTPError
	if errors.As(err, &herr) {
		if msg := herr.Message(); msg != "" {
			return msg
		}
	}
	return err.Error()
}

// backendToken is the caller's backend access token, empty for anonymous requests.
func backendToken(r *http.Request) string {
	if sess, ok := middleware.SessionFrom(r.Context()); ok {
		return sess.AccessToken
	}
	return ""
}
