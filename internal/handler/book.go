package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shelfmark/shelfmark/internal/handler/dto"
	"github.com/shelfmark/shelfmark/internal/model"
	"github.com/shelfmark/shelfmark/internal/repository"
	"github.com/shelfmark/shelfmark/internal/service"
)

// dueDateFormat is the wire format for borrow return dates.
const dueDateFormat = "2006-01-02"

// BookHandler handles HTTP requests for book operations.
type BookHandler struct {
	svc    *service.BookService
	logger *slog.Logger
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(svc *service.BookService, logger *slog.Logger) *BookHandler {
	return &BookHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /books.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	book, err := h.svc.CreateBook(r.Context(), req.Title, req.Author)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("book_created",
		"book_id", book.ID,
		"title", book.Title,
	)

	writeJSON(w, http.StatusCreated, dto.ToBookResponse(book))
}

// List handles GET /books.
// Supports filtering by title and borrower_name query parameters.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	books, err := h.svc.GetBooks(r.Context(), query.Get("title"), query.Get("borrower_name"))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBookListResponse(books))
}

// Get handles GET /books/{id}.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	book, err := h.svc.GetBook(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToBookResponse(book))
}

// Borrow handles PUT /books/{id}/borrow.
func (h *BookHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	var req dto.BorrowBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	returnDate, err := time.Parse(dueDateFormat, req.ReturnDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_RETURN_DATE", "Return date must be formatted as YYYY-MM-DD")
		return
	}

	book, err := h.svc.BorrowBook(r.Context(), id, req.BorrowerName, returnDate)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("book_borrowed",
		"book_id", book.ID,
		"borrower", req.BorrowerName,
	)

	writeJSON(w, http.StatusOK, dto.ToBookResponse(book))
}

// Return handles PUT /books/{id}/return.
func (h *BookHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	book, err := h.svc.ReturnBook(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("book_returned", "book_id", book.ID)

	writeJSON(w, http.StatusOK, dto.ToBookResponse(book))
}

// Delete handles DELETE /books/{id}.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteBook(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("book_deleted", "book_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// bookID parses the {id} URL parameter, writing a 400 on failure.
func bookID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Book ID must be an integer")
		return 0, false
	}
	return id, true
}

// handleServiceError maps service errors to HTTP responses.
func (h *BookHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrBookNotFound):
		writeError(w, http.StatusNotFound, "BOOK_NOT_FOUND", "Book not found")
	case errors.Is(err, model.ErrAlreadyBorrowed):
		writeError(w, http.StatusConflict, "ALREADY_BORROWED", "Book is already borrowed")
	case errors.Is(err, service.ErrTitleRequired):
		writeError(w, http.StatusBadRequest, "TITLE_REQUIRED", "Title must not be empty")
	case errors.Is(err, service.ErrBorrowerRequired):
		writeError(w, http.StatusBadRequest, "BORROWER_REQUIRED", "Borrower name must not be empty")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
