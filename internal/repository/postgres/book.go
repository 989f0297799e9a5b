package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfmark/shelfmark/internal/model"
	"github.com/shelfmark/shelfmark/internal/repository"
)

// BookRepository is the PostgreSQL implementation of repository.BookRepository.
type BookRepository struct {
	pool *pgxpool.Pool
}

// Add inserts the book and assigns its auto-increment id.
func (r *BookRepository) Add(ctx context.Context, book *model.Book) (*model.Book, error) {
	query := `
		INSERT INTO books (title, author, borrower_name, return_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query, book.Title, book.Author, book.BorrowerName, book.ReturnDate).Scan(&book.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert book: %w", err)
	}
	return book, nil
}

// GetByID returns the book or repository.ErrBookNotFound.
func (r *BookRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	query := `
		SELECT id, title, author, borrower_name, return_date
		FROM books
		WHERE id = $1
	`
	var book model.Book
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&book.ID, &book.Title, &book.Author, &book.BorrowerName, &book.ReturnDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return &book, nil
}

// Search returns books matching the filter, ANDing both fields.
func (r *BookRepository) Search(ctx context.Context, filter repository.BookFilter) ([]*model.Book, error) {
	query := `SELECT id, title, author, borrower_name, return_date FROM books WHERE 1=1`
	var args []any

	if filter.Title != "" {
		args = append(args, "%"+filter.Title+"%")
		query += fmt.Sprintf(" AND title ILIKE $%d", len(args))
	}
	if filter.BorrowerName != "" {
		args = append(args, "%"+filter.BorrowerName+"%")
		query += fmt.Sprintf(" AND borrower_name ILIKE $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	defer rows.Close()

	var books []*model.Book
	for rows.Next() {
		var book model.Book
		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &book.BorrowerName, &book.ReturnDate); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, &book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}
	return books, nil
}

// Update replaces the stored row; absent ids update nothing.
func (r *BookRepository) Update(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE books
		SET title = $1, author = $2, borrower_name = $3, return_date = $4
		WHERE id = $5
	`
	// DATE column: strip the time component so round trips compare equal.
	var returnDate *time.Time
	if book.ReturnDate != nil {
		d := book.ReturnDate.Truncate(24 * time.Hour)
		returnDate = &d
	}
	_, err := r.pool.Exec(ctx, query, book.Title, book.Author, book.BorrowerName, returnDate, book.ID)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	return nil
}

// Delete removes the book and reports whether a row was removed.
func (r *BookRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete book: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
