// Package repository defines storage-agnostic persistence contracts.
// Three interchangeable backends implement them: memory, sqlite and
// postgres. The service layer depends only on these interfaces; the
// backend is selected once at startup via configuration.
package repository

import (
	"context"
	"errors"

	"github.com/shelfmark/shelfmark/internal/model"
)

// Sentinel errors shared by every backend.
var (
	ErrBookNotFound     = errors.New("book not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrFeedbackNotFound = errors.New("feedback not found")
	ErrUsernameExists   = errors.New("username already exists")
)

// BookFilter narrows a book search. Empty fields match everything; when
// both are set a book must match both. Matching is case-insensitive
// substring on title and borrower name.
type BookFilter struct {
	Title        string
	BorrowerName string
}

// IsEmpty reports whether the filter matches all books.
func (f BookFilter) IsEmpty() bool {
	return f.Title == "" && f.BorrowerName == ""
}

// BookRepository persists library books. Add assigns a fresh unique id
// and returns the stored entity. Update is a full replace by id and a
// no-op when the id is absent. Delete reports whether a row was removed.
type BookRepository interface {
	Add(ctx context.Context, book *model.Book) (*model.Book, error)
	GetByID(ctx context.Context, id int64) (*model.Book, error)
	Search(ctx context.Context, filter BookFilter) ([]*model.Book, error)
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// UserRepository persists registered users. Save inserts when the id is
// zero and updates otherwise.
type UserRepository interface {
	Save(ctx context.Context, user *model.User) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindAll(ctx context.Context) ([]*model.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// FeedbackRepository persists user feedback.
type FeedbackRepository interface {
	Add(ctx context.Context, fb *model.Feedback) (*model.Feedback, error)
	GetByID(ctx context.Context, id int64) (*model.Feedback, error)
	GetAll(ctx context.Context) ([]*model.Feedback, error)
	Update(ctx context.Context, fb *model.Feedback) error
	Delete(ctx context.Context, id int64) (bool, error)
}
