package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfmark/shelfmark/internal/model"
	"github.com/shelfmark/shelfmark/internal/repository"
)

// FeedbackRepository is the PostgreSQL implementation of repository.FeedbackRepository.
type FeedbackRepository struct {
	pool *pgxpool.Pool
}

// Add inserts the feedback and assigns its auto-increment id.
func (r *FeedbackRepository) Add(ctx context.Context, fb *model.Feedback) (*model.Feedback, error) {
	query := `
		INSERT INTO feedback (title, description, category, author_name, created_at, github_issue_url)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		fb.Title, fb.Description, string(fb.Category), fb.AuthorName, fb.CreatedAt, fb.GitHubIssueURL,
	).Scan(&fb.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert feedback: %w", err)
	}
	return fb, nil
}

// GetByID returns the feedback or repository.ErrFeedbackNotFound.
func (r *FeedbackRepository) GetByID(ctx context.Context, id int64) (*model.Feedback, error) {
	query := `
		SELECT id, title, description, category, author_name, created_at, COALESCE(github_issue_url, '')
		FROM feedback
		WHERE id = $1
	`
	var fb model.Feedback
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&fb.ID, &fb.Title, &fb.Description, &fb.Category, &fb.AuthorName, &fb.CreatedAt, &fb.GitHubIssueURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return &fb, nil
}

// GetAll returns every stored feedback entry.
func (r *FeedbackRepository) GetAll(ctx context.Context) ([]*model.Feedback, error) {
	query := `
		SELECT id, title, description, category, author_name, created_at, COALESCE(github_issue_url, '')
		FROM feedback
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var entries []*model.Feedback
	for rows.Next() {
		var fb model.Feedback
		if err := rows.Scan(&fb.ID, &fb.Title, &fb.Description, &fb.Category, &fb.AuthorName, &fb.CreatedAt, &fb.GitHubIssueURL); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		entries = append(entries, &fb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feedback: %w", err)
	}
	return entries, nil
}

// Update replaces the stored row; absent ids update nothing.
func (r *FeedbackRepository) Update(ctx context.Context, fb *model.Feedback) error {
	query := `
		UPDATE feedback
		SET title = $1, description = $2, category = $3, author_name = $4, github_issue_url = NULLIF($5, '')
		WHERE id = $6
	`
	_, err := r.pool.Exec(ctx, query, fb.Title, fb.Description, string(fb.Category), fb.AuthorName, fb.GitHubIssueURL, fb.ID)
	if err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}
	return nil
}

// Delete removes the feedback and reports whether a row was removed.
func (r *FeedbackRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete feedback: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
