package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shelfmark/shelfmark/internal/model"
	"github.com/shelfmark/shelfmark/internal/repository"
)

// dueDateFormat is the storage format for book return dates.
const dueDateFormat = "2006-01-02"

// BookRepository is the SQLite implementation of repository.BookRepository.
type BookRepository struct {
	db *sql.DB
}

// Add inserts the book and assigns its auto-increment id.
func (r *BookRepository) Add(ctx context.Context, book *model.Book) (*model.Book, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO books (title, author, borrower_name, return_date) VALUES (?, ?, ?, ?)`,
		book.Title, book.Author, book.BorrowerName, formatDueDate(book.ReturnDate),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert book: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted book id: %w", err)
	}
	book.ID = id
	return book, nil
}

// GetByID returns the book or repository.ErrBookNotFound.
func (r *BookRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, author, borrower_name, return_date FROM books WHERE id = ?`, id)
	book, err := scanBook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return book, nil
}

// Search returns books matching the filter, ANDing both fields.
func (r *BookRepository) Search(ctx context.Context, filter repository.BookFilter) ([]*model.Book, error) {
	query := `SELECT id, title, author, borrower_name, return_date FROM books WHERE 1=1`
	var args []any

	if filter.Title != "" {
		query += ` AND LOWER(title) LIKE ?`
		args = append(args, "%"+strings.ToLower(filter.Title)+"%")
	}
	if filter.BorrowerName != "" {
		query += ` AND borrower_name IS NOT NULL AND LOWER(borrower_name) LIKE ?`
		args = append(args, "%"+strings.ToLower(filter.BorrowerName)+"%")
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	defer rows.Close()

	var books []*model.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}
	return books, nil
}

// Update replaces the stored row; absent ids update nothing.
func (r *BookRepository) Update(ctx context.Context, book *model.Book) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE books SET title = ?, author = ?, borrower_name = ?, return_date = ? WHERE id = ?`,
		book.Title, book.Author, book.BorrowerName, formatDueDate(book.ReturnDate), book.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	return nil
}

// Delete removes the book and reports whether a row was removed.
func (r *BookRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete book: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanBook(s scanner) (*model.Book, error) {
	var (
		book       model.Book
		borrower   sql.NullString
		returnDate sql.NullString
	)
	if err := s.Scan(&book.ID, &book.Title, &book.Author, &borrower, &returnDate); err != nil {
		return nil, err
	}
	if borrower.Valid {
		book.BorrowerName = &borrower.String
	}
	if returnDate.Valid {
		t, err := time.Parse(dueDateFormat, returnDate.String)
		if err != nil {
			return nil, fmt.Errorf("invalid return_date %q: %w", returnDate.String, err)
		}
		book.ReturnDate = &t
	}
	return &book, nil
}

func formatDueDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dueDateFormat)
	return &s
}
