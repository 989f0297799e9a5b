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

// UserRepository is the PostgreSQL implementation of repository.UserRepository.
type UserRepository struct {
	pool *pgxpool.Pool
}

// Save inserts the user when its id is zero, otherwise updates it.
// The users.username unique constraint catches the registration race the
// service-level duplicate check cannot close.
func (r *UserRepository) Save(ctx context.Context, user *model.User) (*model.User, error) {
	if user.ID == 0 {
		if user.CreatedAt.IsZero() {
			user.CreatedAt = time.Now()
		}
		query := `
			INSERT INTO users (username, display_name, created_at)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		err := r.pool.QueryRow(ctx, query, user.Username, user.DisplayName, user.CreatedAt).Scan(&user.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, repository.ErrUsernameExists
			}
			return nil, fmt.Errorf("failed to insert user: %w", err)
		}
		return user, nil
	}

	_, err := r.pool.Exec(ctx,
		`UPDATE users SET username = $1, display_name = $2 WHERE id = $3`,
		user.Username, user.DisplayName, user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// FindByID returns the user or repository.ErrUserNotFound.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.findOne(ctx, `SELECT id, username, display_name, created_at FROM users WHERE id = $1`, id)
}

// FindByUsername returns the user with the exact username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, `SELECT id, username, display_name, created_at FROM users WHERE username = $1`, username)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var user model.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(&user.ID, &user.Username, &user.DisplayName, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// FindAll returns every user, newest first.
func (r *UserRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, username, display_name, created_at FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Username, &user.DisplayName, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// Delete removes the user and reports whether a row was removed.
func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
