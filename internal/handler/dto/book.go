// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/shelfmark/shelfmark/internal/model"
)

// dueDateFormat is the wire format for borrow return dates.
const dueDateFormat = "2006-01-02"

// CreateBookRequest represents the request body for adding a book.
type CreateBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`
}

// BorrowBookRequest represents the request body for borrowing a book.
type BorrowBookRequest struct {
	BorrowerName string `json:"borrower_name"`
	ReturnDate   string `json:"return_date"`
}

// BookResponse represents a book in API responses.
// ReturnDate is rendered as a bare date, not a timestamp.
type BookResponse struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Author       string  `json:"author,omitempty"`
	BorrowerName *string `json:"borrower_name"`
	ReturnDate   *string `json:"return_date"`
}

// ToBookResponse converts a Book model to BookResponse DTO.
func ToBookResponse(book *model.Book) *BookResponse {
	resp := &BookResponse{
		ID:           book.ID,
		Title:        book.Title,
		Author:       book.Author,
		BorrowerName: book.BorrowerName,
	}
	if book.ReturnDate != nil {
		date := book.ReturnDate.Format(dueDateFormat)
		resp.ReturnDate = &date
	}
	return resp
}

// ToBookListResponse converts a slice of books.
func ToBookListResponse(books []*model.Book) []*BookResponse {
	out := make([]*BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, ToBookResponse(b))
	}
	return out
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
