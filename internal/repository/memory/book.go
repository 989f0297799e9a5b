// Package memory provides map-backed repository implementations.
//
// The maps are intentionally unsynchronized: the service runs as a
// single process and concurrent mutation is an accepted limitation of
// this backend, used for tests and local development.
package memory

import (
	"context"
	"strings"

	"github.com/shelfmark/shelfmark/internal/model"
	"github.com/shelfmark/shelfmark/internal/repository"
)

// BookRepository stores books in an in-process map.
type BookRepository struct {
	books  map[int64]*model.Book
	nextID int64
}

// NewBookRepository creates an empty BookRepository.
func NewBookRepository() *BookRepository {
	return &BookRepository{
		books:  make(map[int64]*model.Book),
		nextID: 1,
	}
}

// Add assigns the next id and stores the book.
func (r *BookRepository) Add(ctx context.Context, book *model.Book) (*model.Book, error) {
	book.ID = r.nextID
	r.nextID++
	r.books[book.ID] = book
	return book, nil
}

// GetByID returns the book or repository.ErrBookNotFound.
func (r *BookRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	book, ok := r.books[id]
	if !ok {
		return nil, repository.ErrBookNotFound
	}
	return book, nil
}

// Search returns books matching the filter, ANDing both fields.
func (r *BookRepository) Search(ctx context.Context, filter repository.BookFilter) ([]*model.Book, error) {
	result := make([]*model.Book, 0, len(r.books))
	title := strings.ToLower(filter.Title)
	borrower := strings.ToLower(filter.BorrowerName)

	for _, book := range r.books {
		if title != "" && !strings.Contains(strings.ToLower(book.Title), title) {
			continue
		}
		if borrower != "" {
			if book.BorrowerName == nil || !strings.Contains(strings.ToLower(*book.BorrowerName), borrower) {
				continue
			}
		}
		result = append(result, book)
	}
	return result, nil
}

// Update replaces the stored book; absent ids are a no-op.
func (r *BookRepository) Update(ctx context.Context, book *model.Book) error {
	if _, ok := r.books[book.ID]; ok {
		r.books[book.ID] = book
	}
	return nil
}

// Delete removes the book and reports whether it existed.
func (r *BookRepository) Delete(ctx context.Context, id int64) (bool, error) {
	if _, ok := r.books[id]; !ok {
		return false, nil
	}
	delete(r.books, id)
	return true, nil
}
