package handler

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"coursefinder/internal/api/v1/dto"
	"coursefinder/internal/backend"
	"coursefinder/internal/catalog"
	"coursefinder/internal/middleware"
	"coursefinder/internal/model"
	"coursefinder/internal/rotation"
	"coursefinder/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// maxUploadBytes bounds a create-course request: four files at the per-file
// limit plus form fields.
const maxUploadBytes = 4*service.MaxMediaBytes + 1<<20

// CourseHandler handles course-related endpoints
type CourseHandler struct {
	courseService    service.CourseService
	mediaURL         func(string) string
	rotationInterval time.Duration
	logger           zerolog.Logger
}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler(courseService service.CourseService, mediaURL func(string) string, rotationInterval time.Duration, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courseService:    courseService,
		mediaURL:         mediaURL,
		rotationInterval: rotationInterval,
		logger:           logger,
	}
}

// RegisterRoutes mounts course routes
func (h *CourseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/courses", h.searchCourses)
	r.Post("/courses/refresh", h.refreshCourses)
	r.Get("/courses/{courseId}", h.getCourse)
	r.Get("/courses/{courseId}/media/stream", h.streamMedia)
	r.With(middleware.RequireSession).Post("/courses", h.createCourse)
}

// searchCourses godoc
// @Summary Search courses
// @Description Filters the active courses and annotates each with Z-Score eligibility. Without a zscore parameter the session Z-Score is used.
// @Tags courses
// @Produce json
// @Param q query string false "Free text search"
// @Param level query string false "Course level or 'all'"
// @Param age_group query string false "Age group or 'all'"
// @Param category query string false "Category or 'all'"
// @Param institution_type query string false "Institution type or 'all'"
// @Param location query string false "Location or 'all'"
// @Param stream query string false "A/L stream or 'all'"
// @Param zscore query number false "Student Z-Score"
// @Param eligible_only query bool false "Hide courses the Z-Score does not reach"
// @Success 200 {object} dto.CourseListResponseDTO
// @Failure 502 {string} string "Course backend is unavailable"
// @Router /courses [get]
func (h *CourseHandler) searchCourses(w http.ResponseWriter, r *http.Request) {
	criteria := criteriaFromQuery(r)
	res, err := h.courseService.Search(r.Context(), backendToken(r), criteria)
	if err != nil {
		writeError(w, h.logger, "Failed to search courses", err)
		return
	}
	writeJSON(w, http.StatusOK, h.listResponse(res, criteria.Score))
}

// refreshCourses godoc
// @Summary Reset filters
// @Description Refetches the active courses and returns the full, unfiltered list.
// @Tags courses
// @Produce json
// @Success 200 {object} dto.CourseListResponseDTO
// @Failure 502 {string} string "Course backend is unavailable"
// @Router /courses/refresh [post]
func (h *CourseHandler) refreshCourses(w http.ResponseWriter, r *http.Request) {
	token := backendToken(r)
	if _, err := h.courseService.Refresh(r.Context(), token); err != nil {
		writeError(w, h.logger, "Failed to refresh courses", err)
		return
	}
	criteria := catalog.Criteria{Score: sessionScore(r)}
	res, err := h.courseService.Search(r.Context(), token, criteria)
	if err != nil {
		writeError(w, h.logger, "Failed to list courses", err)
		return
	}
	writeJSON(w, http.StatusOK, h.listResponse(res, criteria.Score))
}

// getCourse godoc
// @Summary Get a course
// @Description Retrieves one course with its media and eligibility for the session Z-Score.
// @Tags courses
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.CourseCardDTO
// @Failure 400 {string} string "Invalid course ID"
// @Failure 404 {string} string "Course not found"
// @Router /courses/{courseId} [get]
func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request) {
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}
	score := catalog.ParseScore(r.URL.Query().Get("zscore"))
	if score == nil {
		score = sessionScore(r)
	}
	writeJSON(w, http.StatusOK, dto.NewCourseCard(*course, catalog.Classify(*course, score), h.mediaURL))
}

// streamMedia godoc
// @Summary Stream media rotation
// @Description Server-Sent Events: a "media" event with the current image, then one per rotation. Only images rotate; a course without images streams its first video and holds.
// @Tags courses
// @Produce text/event-stream
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.RotationEventDTO
// @Failure 404 {string} string "Course not found"
// @Router /courses/{courseId}/media/stream [get]
func (h *CourseHandler) streamMedia(w http.ResponseWriter, r *http.Request) {
	course, ok := h.loadCourse(w, r)
	if !ok {
		return
	}

	rot := rotation.New(course.CarouselMedia())
	interval := h.rotationInterval
	if ms, err := strconv.Atoi(r.URL.Query().Get("interval_ms")); err == nil && ms >= 100 {
		interval = time.Duration(ms) * time.Millisecond
	}

	sse, err := newSSEWriter(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	send := func(idx int, item model.MediaItem) {
		ev := dto.RotationEventDTO{Index: idx, Total: rot.Len(), Item: dto.NewMediaItem(item, h.mediaURL)}
		if err := sse.WriteEvent("media", ev); err != nil {
			cancel()
		}
	}

	current, ok := rot.Current()
	if !ok {
		sse.WriteEvent("empty", dto.RotationEventDTO{}) //nolint:errcheck
		return
	}
	send(rot.Cursor(), current)

	rot.Run(ctx, interval, send) //nolint:errcheck
	h.logger.Debug().Int64("course_id", course.ID).Msg("media stream closed")
}

// createCourse godoc
// @Summary Create a course
// @Description Validates the multipart form and forwards it to the backend.
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param institute_type formData string true "Institution type"
// @Param category formData string true "Category"
// @Param course_duration formData int true "Duration in months"
// @Param course_fee formData number true "Fee"
// @Param course_level formData string true "Course level"
// @Param education_modes formData string true "JSON array or comma list of online/onsite"
// @Param media_files formData file false "Up to 3 images and 1 video"
// @Success 201 {object} dto.CourseCreatedDTO
// @Failure 401 {string} string "Unauthorized: please log in"
// @Failure 422 {object} dto.FieldErrorsDTO
// @Router /courses [post]
func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.SessionFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	form, err := courseFormFromRequest(r)
	if err != nil {
		http.Error(w, "Failed to read media files: "+err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.courseService.Create(r.Context(), sess.AccessToken, sess.User, form)
	if err != nil {
		writeError(w, h.logger, "Failed to create course", err)
		return
	}
	msg := created.Message
	if msg == "" {
		msg = "Course created successfully"
	}
	writeJSON(w, http.StatusCreated, dto.CourseCreatedDTO{ID: created.ID, Message: msg})
}

func (h *CourseHandler) loadCourse(w http.ResponseWriter, r *http.Request) (*model.Course, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "courseId"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid course ID", http.StatusBadRequest)
		return nil, false
	}
	course, err := h.courseService.Get(r.Context(), backendToken(r), id)
	if err != nil {
		writeError(w, h.logger, "Failed to retrieve course", err)
		return nil, false
	}
	return course, true
}

func (h *CourseHandler) listResponse(res *service.SearchResult, score *float64) dto.CourseListResponseDTO {
	cards := make([]dto.CourseCardDTO, len(res.Results))
	for i, r := range res.Results {
		cards[i] = dto.NewCourseCard(r.Course, r.Eligibility, h.mediaURL)
	}
	return dto.CourseListResponseDTO{
		Courses:   cards,
		Total:     res.Total,
		Matched:   res.Matched,
		Eligible:  res.Eligible,
		Stats:     res.Stats,
		ZScore:    score,
		FetchedAt: res.FetchedAt,
	}
}

func criteriaFromQuery(r *http.Request) catalog.Criteria {
	q := r.URL.Query()
	c := catalog.Criteria{
		Query:           q.Get("q"),
		Level:           q.Get("level"),
		AgeGroup:        q.Get("age_group"),
		Category:        q.Get("category"),
		InstitutionType: q.Get("institution_type"),
		Location:        q.Get("location"),
		Stream:          q.Get("stream"),
		Score:           catalog.ParseScore(q.Get("zscore")),
	}
	if c.Score == nil && !q.Has("zscore") {
		c.Score = sessionScore(r)
	}
	c.EligibleOnly, _ = strconv.ParseBool(q.Get("eligible_only"))
	return c
}

func sessionScore(r *http.Request) *float64 {
	if sess, ok := middleware.SessionFrom(r.Context()); ok {
		return sess.ZScore
	}
	return nil
}

func courseFormFromRequest(r *http.Request) (service.CourseForm, error) {
	v := r.MultipartForm.Value
	get := func(key string) string {
		if vals := v[key]; len(vals) > 0 {
			return vals[0]
		}
		return ""
	}
	installment, _ := strconv.ParseBool(get("install_availability"))

	form := service.CourseForm{
		Title:               get("title"),
		Description:         get("description"),
		SubContent:          get("sub_content"),
		InstituteType:       get("institute_type"),
		Category:            get("category"),
		CourseDuration:      get("course_duration"),
		CourseFee:           get("course_fee"),
		InstallAvailability: installment,
		Instructor:          get("instructor"),
		CourseLevel:         get("course_level"),
		AgeGroup:            get("age_group"),
		MinimumZScore:       get("minimum_z_score"),
		ExamBoard:           get("exam_board"),
		Streams:             formList(v["streams"]),
		Locations:           formList(v["locations"]),
		EducationModes:      formList(v["education_modes"]),
	}

	for _, fh := range r.MultipartForm.File["media_files"] {
		mf, err := readMediaFile(fh)
		if err != nil {
			return form, err
		}
		form.MediaFiles = append(form.MediaFiles, mf)
	}
	return form, nil
}

// formList accepts repeated fields, JSON-encoded arrays or comma lists.
func formList(values []string) []string {
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if strings.HasPrefix(v, "[") {
			var arr []string
			if err := json.Unmarshal([]byte(v), &arr); err == nil {
				out = append(out, arr...)
				continue
			}
		}
		out = append(out, strings.Split(v, ",")...)
	}
	return out
}

func readMediaFile(fh *multipart.FileHeader) (backend.MediaFile, error) {
	f, err := fh.Open()
	if err != nil {
		return backend.MediaFile{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return backend.MediaFile{}, err
	}
	return backend.MediaFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
