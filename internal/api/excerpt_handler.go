package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/kathalab/lesson-api/internal/api/shared"
	"github.com/kathalab/lesson-api/internal/domain"
	"github.com/kathalab/lesson-api/internal/platform/logger"
	"github.com/kathalab/lesson-api/internal/service"
	"github.com/kathalab/lesson-api/internal/store"
)

// ExcerptHandler handles community feed requests
type ExcerptHandler struct {
	excerpts service.ExcerptService
	logger   *slog.Logger
}

// NewExcerptHandler creates a new ExcerptHandler
func NewExcerptHandler(excerpts service.ExcerptService, logger *slog.Logger) *ExcerptHandler {
	if excerpts == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("excerpt service cannot be nil for ExcerptHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ExcerptHandler{
		excerpts: excerpts,
		logger:   logger.With(slog.String("component", "excerpt_handler")),
	}
}

// ShareExcerpt handles POST /api/community requests
func (h *ExcerptHandler) ShareExcerpt(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req ShareExcerptRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, MsgInvalidRequestFormat)
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	var lessonID uuid.NullUUID
	if req.LessonID != nil {
		lessonID = uuid.NullUUID{UUID: *req.LessonID, Valid: true}
	}

	excerpt, err := h.excerpts.Share(r.Context(), service.ShareRequest{
		UserID:   userID,
		LessonID: lessonID,
		Topic:    req.Topic,
		Category: req.Category,
		Content:  req.Content,
		AgeBand:  string(req.Age),
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, excerptToResponse(excerpt))
}

// ListExcerpts handles GET /api/community requests
func (h *ExcerptHandler) ListExcerpts(w http.ResponseWriter, r *http.Request) {
	excerpts, err := h.excerpts.Feed(r.Context(), store.ExcerptFilter{
		Category: domain.ExcerptCategory(r.URL.Query().Get("category")),
		Limit:    queryLimit(r),
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := ExcerptListResponse{Excerpts: make([]ExcerptResponse, 0, len(excerpts))}
	for _, e := range excerpts {
		resp.Excerpts = append(resp.Excerpts, excerptToResponse(e))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}
