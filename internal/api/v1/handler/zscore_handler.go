package handler

import (
	"net/http"

	"coursefinder/internal/api/v1/dto"
	"coursefinder/internal/catalog"
	"coursefinder/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// ZScoreHandler serves the university cutoff lookup
type ZScoreHandler struct {
	zscoreService service.ZScoreService
	logger        zerolog.Logger
}

func NewZScoreHandler(zscoreService service.ZScoreService, logger zerolog.Logger) *ZScoreHandler {
	return &ZScoreHandler{zscoreService: zscoreService, logger: logger}
}

func (h *ZScoreHandler) RegisterRoutes(r chi.Router) {
	r.Get("/zscores", h.lookup)
}

// lookup godoc
// @Summary Z-Score cutoff lookup
// @Description Searches the published minimum Z-Scores by course, university or location and marks the rows the student's Z-Score reaches.
// @Tags zscores
// @Produce json
// @Param q query string false "Course, university or location"
// @Param stream query string false "A/L stream or 'all'"
// @Param zscore query number false "Student Z-Score, defaults to the session Z-Score"
// @Success 200 {object} dto.ZScoreLookupResponseDTO
// @Router /zscores [get]
func (h *ZScoreHandler) lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	score := catalog.ParseScore(q.Get("zscore"))
	if score == nil && !q.Has("zscore") {
		score = sessionScore(r)
	}

	res, err := h.zscoreService.Lookup(r.Context(), q.Get("q"), q.Get("stream"), score)
	if err != nil {
		writeError(w, h.logger, "Failed to look up Z-Scores", err)
		return
	}

	rows := make([]dto.ZScoreRowDTO, len(res.Rows))
	for i, row := range res.Rows {
		rows[i] = dto.ZScoreRowDTO{
			Course:      row.Course,
			University:  row.University,
			Location:    row.Location,
			Stream:      row.Stream,
			ZScore:      row.ZScore,
			Year:        row.Year,
			Eligibility: string(row.Eligibility),
		}
	}
	writeJSON(w, http.StatusOK, dto.ZScoreLookupResponseDTO{
		Rows:     rows,
		Eligible: res.Eligible,
		Total:    res.Total,
		Streams:  res.Streams,
		ZScore:   score,
	})
}
