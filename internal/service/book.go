// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shelfmark/shelfmark/internal/model"
	"github.com/shelfmark/shelfmark/internal/repository"
)

// Book validation errors.
var (
	ErrTitleRequired    = errors.New("title is required")
	ErrBorrowerRequired = errors.New("borrower name is required")
)

// BookService handles book business logic over any BookRepository backend.
type BookService struct {
	repo repository.BookRepository
}

// NewBookService creates a new BookService.
func NewBookService(repo repository.BookRepository) *BookService {
	return &BookService{repo: repo}
}

// CreateBook stores a new book with the borrow fields unset.
func (s *BookService) CreateBook(ctx context.Context, title, author string) (*model.Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	book := &model.Book{
		Title:  title,
		Author: strings.TrimSpace(author),
	}
	return s.repo.Add(ctx, book)
}

// GetBooks searches books by optional title and borrower filters.
func (s *BookService) GetBooks(ctx context.Context, title, borrowerName string) ([]*model.Book, error) {
	return s.repo.Search(ctx, repository.BookFilter{
		Title:        title,
		BorrowerName: borrowerName,
	})
}

// GetBook returns the book with the given id.
func (s *BookService) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	return s.repo.GetByID(ctx, id)
}

// BorrowBook checks a book out to borrower until returnDate.
// Returns repository.ErrBookNotFound for unknown ids and
// model.ErrAlreadyBorrowed without touching stored state when the book
// is already checked out.
func (s *BookService) BorrowBook(ctx context.Context, id int64, borrower string, returnDate time.Time) (*model.Book, error) {
	borrower = strings.TrimSpace(borrower)
	if borrower == "" {
		return nil, ErrBorrowerRequired
	}

	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := book.Borrow(borrower, returnDate); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// ReturnBook clears a book's borrow state. Idempotent.
func (s *BookService) ReturnBook(ctx context.Context, id int64) (*model.Book, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	book.Return()
	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook removes the book, returning repository.ErrBookNotFound when
// nothing was removed.
func (s *BookService) DeleteBook(ctx context.Context, id int64) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return repository.ErrBookNotFound
	}
	return nil
}
