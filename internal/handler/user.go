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
	"github.com/shelfmark/shelfmark/internal/repository"
	"github.com/shelfmark/shelfmark/internal/service"
)

// UserHandler handles HTTP requests for registration, login and profiles.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /auth/register.
// A successful registration logs the user in immediately.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, err := h.svc.Register(r.Context(), req.Username, req.DisplayName)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	_, token, err := h.svc.Login(r.Context(), user.Username)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_registered",
		"user_id", user.ID,
		"username", user.Username,
	)

	writeJSON(w, http.StatusCreated, dto.ToAuthResponse(user, token))
}

// Login handles POST /auth/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Enumeration-safe: same shape as the token middleware's 401
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unknown username")
			return
		}
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_logged_in",
		"user_id", user.ID,
		"username", user.Username,
	)

	writeJSON(w, http.StatusOK, dto.ToAuthResponse(user, token))
}

// Me handles GET /auth/me.
// Requires the auth middleware to have run.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing access token")
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// UpdateMe handles PUT /auth/me.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or missing access token")
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	updated, err := h.svc.UpdateDisplayName(r.Context(), user.ID, req.DisplayName)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("profile_updated", "user_id", updated.ID)

	writeJSON(w, http.StatusOK, dto.ToUserResponse(updated))
}

// List handles GET /auth/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserListResponse(users))
}

// Delete handles DELETE /auth/users/{id}.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "User ID must be an integer")
		return
	}

	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_deleted", "user_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps service errors to HTTP responses.
func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, repository.ErrUsernameExists):
		writeError(w, http.StatusConflict, "USERNAME_TAKEN", "Username already exists")
	case errors.Is(err, service.ErrUsernameRequired):
		writeError(w, http.StatusBadRequest, "USERNAME_REQUIRED", "Username must not be empty")
	case errors.Is(err, service.ErrUsernameTooLong):
		writeError(w, http.StatusBadRequest, "USERNAME_TOO_LONG", "Username exceeds maximum length")
	case errors.Is(err, service.ErrDisplayNameRequired):
		writeError(w, http.StatusBadRequest, "DISPLAY_NAME_REQUIRED", "Display name must not be empty")
	case errors.Is(err, service.ErrDisplayNameTooLong):
		writeError(w, http.StatusBadRequest, "DISPLAY_NAME_TOO_LONG", "Display name exceeds maximum length")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
