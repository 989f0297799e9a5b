package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shelfmark/shelfmark/internal/auth"
	"github.com/shelfmark/shelfmark/internal/handler/dto"
	"github.com/shelfmark/shelfmark/internal/model"
	"github.com/shelfmark/shelfmark/internal/repository"
	"github.com/shelfmark/shelfmark/internal/service"
)

// FeedbackHandler handles HTTP requests for feedback operations.
type FeedbackHandler struct {
	svc    *service.FeedbackService
	logger *slog.Logger
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(svc *service.FeedbackService, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /feedback.
// The author name comes from the authenticated user, so the auth
// middleware must have run. Succeeds whether or not a GitHub issue
// could be filed.
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing access token")
		return
	}

	var req dto.CreateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	fb, err := h.svc.CreateFeedback(r.Context(), req.Title, req.Description, model.Category(req.Category), user.DisplayName)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("feedback_created",
		"feedback_id", fb.ID,
		"category", string(fb.Category),
		"has_issue", fb.GitHubIssueURL != "",
	)

	writeJSON(w, http.StatusCreated, dto.ToFeedbackResponse(fb))
}

// List handles GET /feedback.
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListFeedback(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToFeedbackListResponse(items))
}

// Get handles GET /feedback/{id}.
func (h *FeedbackHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := feedbackID(w, r)
	if !ok {
		return
	}

	fb, err := h.svc.GetFeedback(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToFeedbackResponse(fb))
}

// Delete handles DELETE /feedback/{id}.
func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := feedbackID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteFeedback(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("feedback_deleted", "feedback_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// Categories handles GET /feedback/categories.
func (h *FeedbackHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.ToCategoryListResponse(h.svc.Categories()))
}

// feedbackID parses the {id} URL parameter, writing a 400 on failure.
func feedbackID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Feedback ID must be an integer")
		return 0, false
	}
	return id, true
}

// handleServiceError maps service errors to HTTP responses.
func (h *FeedbackHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrFeedbackNotFound):
		writeError(w, http.StatusNotFound, "FEEDBACK_NOT_FOUND", "Feedback not found")
	case errors.Is(err, service.ErrInvalidCategory):
		writeError(w, http.StatusBadRequest, "INVALID_CATEGORY", "Category must be bug, feature or improvement")
	case errors.Is(err, service.ErrFeedbackTitleRequired):
		writeError(w, http.StatusBadRequest, "TITLE_REQUIRED", "Title must not be empty")
	case errors.Is(err, service.ErrDescriptionRequired):
		writeError(w, http.StatusBadRequest, "DESCRIPTION_REQUIRED", "Description must not be empty")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
