package handler

import (
	"io"
	"net/http"
	"strconv"

	"coursefinder/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// MediaHandler serves uploaded course media
type MediaHandler struct {
	mediaService service.MediaService
	logger       zerolog.Logger
}

func NewMediaHandler(mediaService service.MediaService, logger zerolog.Logger) *MediaHandler {
	return &MediaHandler{mediaService: mediaService, logger: logger}
}

func (h *MediaHandler) RegisterRoutes(r chi.Router) {
	r.Get("/media/*", h.serveMedia)
}

// serveMedia godoc
// @Summary Course media
// @Description Streams a stored image or video, or redirects to the backend when no object storage is configured.
// @Tags media
// @Param path path string true "Stored media path"
// @Success 200 {file} file
// @Success 302 {string} string "Redirect to backend media"
// @Failure 400 {string} string "Invalid media path"
// @Failure 404 {string} string "Media not found"
// @Router /media/{path} [get]
func (h *MediaHandler) serveMedia(w http.ResponseWriter, r *http.Request) {
	m, err := h.mediaService.Open(r.Context(), chi.URLParam(r, "*"))
	if err != nil {
		writeError(w, h.logger, "Failed to open media", err)
		return
	}
	if m.RedirectURL != "" {
		http.Redirect(w, r, m.RedirectURL, http.StatusFound)
		return
	}
	defer m.Body.Close()

	w.Header().Set("Content-Type", m.ContentType)
	if m.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(m.ContentLength, 10))
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := io.Copy(w, m.Body); err != nil {
		h.logger.Debug().Err(err).Msg("media copy interrupted")
	}
}
