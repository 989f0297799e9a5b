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

// UserRepository is the SQLite implementation of repository.UserRepository.
type UserRepository struct {
	db *sql.DB
}

// Save inserts the user when its id is zero, otherwise updates it.
// Inserting a duplicate username returns repository.ErrUsernameExists.
func (r *UserRepository) Save(ctx context.Context, user *model.User) (*model.User, error) {
	if user.ID == 0 {
		if user.CreatedAt.IsZero() {
			user.CreatedAt = time.Now()
		}
		res, err := r.db.ExecContext(ctx,
			`INSERT INTO users (username, display_name, created_at) VALUES (?, ?, ?)`,
			user.Username, user.DisplayName, user.CreatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, repository.ErrUsernameExists
			}
			return nil, fmt.Errorf("failed to insert user: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read inserted user id: %w", err)
		}
		user.ID = id
		return user, nil
	}

	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = ?, display_name = ? WHERE id = ?`,
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
	return r.findOne(ctx, `SELECT id, username, display_name, created_at FROM users WHERE id = ?`, id)
}

// FindByUsername returns the user with the exact username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, `SELECT id, username, display_name, created_at FROM users WHERE username = ?`, username)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var (
		user      model.User
		createdAt string
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Username, &user.DisplayName, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	return &user, nil
}

// FindAll returns every stored user.
func (r *UserRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, username, display_name, created_at FROM users`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var (
			user      model.User
			createdAt string
		)
		if err := rows.Scan(&user.ID, &user.Username, &user.DisplayName, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return affected > 0, nil
}

// isUniqueViolation checks for a SQLite unique constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
