package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shelfmark/shelfmark/internal/model"
	"github.com/shelfmark/shelfmark/internal/repository"
)

// FeedbackRepository is the SQLite implementation of repository.FeedbackRepository.
type FeedbackRepository struct {
	db *sql.DB
}

// Add inserts the feedback and assigns its auto-increment id.
func (r *FeedbackRepository) Add(ctx context.Context, fb *model.Feedback) (*model.Feedback, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO feedback (title, description, category, author_name, created_at, github_issue_url)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		fb.Title, fb.Description, string(fb.Category), fb.AuthorName,
		fb.CreatedAt.Format(time.RFC3339Nano), nullableString(fb.GitHubIssueURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert feedback: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted feedback id: %w", err)
	}
	fb.ID = id
	return fb, nil
}

// GetByID returns the feedback or repository.ErrFeedbackNotFound.
func (r *FeedbackRepository) GetByID(ctx context.Context, id int64) (*model.Feedback, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, category, author_name, created_at, github_issue_url
		 FROM feedback WHERE id = ?`, id)
	fb, err := scanFeedback(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return fb, nil
}

// GetAll returns every stored feedback entry.
func (r *FeedbackRepository) GetAll(ctx context.Context) ([]*model.Feedback, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, category, author_name, created_at, github_issue_url FROM feedback`)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var entries []*model.Feedback
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		entries = append(entries, fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feedback: %w", err)
	}
	return entries, nil
}

// Update replaces the stored row; absent ids update nothing.
func (r *FeedbackRepository) Update(ctx context.Context, fb *model.Feedback) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE feedback SET title = ?, description = ?, category = ?, author_name = ?, github_issue_url = ?
		 WHERE id = ?`,
		fb.Title, fb.Description, string(fb.Category), fb.AuthorName, nullableString(fb.GitHubIssueURL), fb.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}
	return nil
}

// Delete removes the feedback and reports whether a row was removed.
func (r *FeedbackRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM feedback WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete feedback: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

func scanFeedback(s scanner) (*model.Feedback, error) {
	var (
		fb        model.Feedback
		category  string
		createdAt string
		issueURL  sql.NullString
	)
	if err := s.Scan(&fb.ID, &fb.Title, &fb.Description, &category, &fb.AuthorName, &createdAt, &issueURL); err != nil {
		return nil, err
	}
	fb.Category = model.Category(category)
	fb.GitHubIssueURL = issueURL.String

	var err error
	fb.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	return &fb, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
