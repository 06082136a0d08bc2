package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kathalab/lesson-api/internal/api/shared"
	"github.com/kathalab/lesson-api/internal/export"
	"github.com/kathalab/lesson-api/internal/platform/logger"
	"github.com/kathalab/lesson-api/internal/service"
	"github.com/kathalab/lesson-api/internal/store"
)

// LessonHandler handles lesson generation and history requests
type LessonHandler struct {
	lessons service.LessonService
	logger  *slog.Logger
}

// NewLessonHandler creates a new LessonHandler
func NewLessonHandler(lessons service.LessonService, logger *slog.Logger) *LessonHandler {
	if lessons == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("lesson service cannot be nil for LessonHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LessonHandler{
		lessons: lessons,
		logger:  logger.With(slog.String("component", "lesson_handler")),
	}
}

// GenerateLesson handles POST /api/generate-lesson requests.
// A lesson that was generated but not stored still answers 200, with
// saved=false and a warning.
func (h *LessonHandler) GenerateLesson(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req GenerateLessonRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		log.Debug("invalid generate request body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, MsgInvalidRequestFormat)
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	result, err := h.lessons.Generate(r.Context(), service.GenerateRequest{
		UserID:   userID,
		Topic:    req.Topic,
		Language: req.Language,
		AgeBand:  string(req.Age),
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := GenerateLessonResponse{
		Success:    true,
		LessonPlan: result.Lesson.Plan,
		ImageURL:   result.Lesson.ImageURL,
		Saved:      result.Saved,
		Warning:    result.Warning,
	}
	if result.Saved {
		id := result.Lesson.ID
		resp.LessonID = &id
	}
	if dataURI := result.Illustration.DataURI(); dataURI != "" {
		resp.Image = &dataURI
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// ListLessons handles GET /api/lessons requests
func (h *LessonHandler) ListLessons(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	query := r.URL.Query()
	lessons, err := h.lessons.List(r.Context(), userID, store.LessonFilter{
		Topic:   query.Get("topic"),
		AgeBand: query.Get("age"),
		Limit:   queryLimit(r),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list lessons")
		return
	}

	resp := LessonListResponse{Lessons: make([]LessonSummary, 0, len(lessons))}
	for _, l := range lessons {
		resp.Lessons = append(resp.Lessons, lessonToSummary(l))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetLesson handles GET /api/lessons/{id} requests
func (h *LessonHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, lessonID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	lesson, err := h.lessons.Get(r.Context(), userID, lessonID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, lessonToResponse(lesson))
}

// DeleteLesson handles DELETE /api/lessons/{id} requests
func (h *LessonHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, lessonID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	if err := h.lessons.Delete(r.Context(), userID, lessonID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("lesson deleted", slog.String("lesson_id", lessonID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// ExportLesson handles GET /api/lessons/{id}/export requests.
// The format query parameter selects pdf (default) or md.
func (h *LessonHandler) ExportLesson(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, lessonID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	doc, err := h.lessons.Export(r.Context(), userID, lessonID, format)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Body); err != nil {
		log.Error("failed to write export", slog.String("error", err.Error()))
	}
}
