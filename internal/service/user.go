package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shelfmark/shelfmark/internal/auth"
	"github.com/shelfmark/shelfmark/internal/model"
	"github.com/shelfmark/shelfmark/internal/repository"
)

// User validation errors. Each failure mode gets a distinct message.
var (
	ErrUsernameRequired    = errors.New("username is required")
	ErrUsernameTooLong     = errors.New("username must be 50 characters or fewer")
	ErrDisplayNameRequired = errors.New("display name is required")
	ErrDisplayNameTooLong  = errors.New("display name must be 100 characters or fewer")
)

const (
	maxUsernameLength    = 50
	maxDisplayNameLength = 100
)

// UserService handles registration, login and profile updates.
type UserService struct {
	repo   repository.UserRepository
	tokens *auth.TokenService
}

// NewUserService creates a new UserService.
func NewUserService(repo repository.UserRepository, tokens *auth.TokenService) *UserService {
	return &UserService{
		repo:   repo,
		tokens: tokens,
	}
}

// Register validates and stores a new user. The duplicate check is a
// lookup before insert and therefore not atomic; the SQL backends close
// the race with their unique constraint on username.
func (s *UserService) Register(ctx context.Context, username, displayName string) (*model.User, error) {
	username = strings.TrimSpace(username)
	displayName = strings.TrimSpace(displayName)

	if username == "" {
		return nil, ErrUsernameRequired
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return nil, ErrUsernameTooLong
	}
	if displayName == "" {
		return nil, ErrDisplayNameRequired
	}
	if utf8.RuneCountInString(displayName) > maxDisplayNameLength {
		return nil, ErrDisplayNameTooLong
	}

	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, repository.ErrUsernameExists
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	user := &model.User{
		Username:    username,
		DisplayName: displayName,
		CreatedAt:   time.Now(),
	}
	return s.repo.Save(ctx, user)
}

// Login looks up the user and issues a time-limited access token bound
// to the username. The username is the sole credential.
func (s *UserService) Login(ctx context.Context, username string) (*model.User, string, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

// UpdateDisplayName re-validates and persists a new display name.
func (s *UserService) UpdateDisplayName(ctx context.Context, id int64, displayName string) (*model.User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, ErrDisplayNameRequired
	}
	if utf8.RuneCountInString(displayName) > maxDisplayNameLength {
		return nil, ErrDisplayNameTooLong
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.UpdateDisplayName(displayName)
	return s.repo.Save(ctx, user)
}

// GetByUsername returns the user with the given username.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

// GetByID returns the user with the given id.
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.FindByID(ctx, id)
}

// ListUsers returns all registered users.
func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.repo.FindAll(ctx)
}

// DeleteUser removes a user, returning repository.ErrUserNotFound when
// nothing was removed.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return repository.ErrUserNotFound
	}
	return nil
}
