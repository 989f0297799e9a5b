package dto

import (
	"time"

	"github.com/shelfmark/shelfmark/internal/model"
)

// RegisterRequest represents the request body for user registration.
type RegisterRequest struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username"`
}

// UpdateProfileRequest represents the request body for profile updates.
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User        *UserResponse `json:"user"`
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	}
}

// ToUserListResponse converts a slice of users.
func ToUserListResponse(users []*model.User) []*UserResponse {
	out := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out
}

// ToAuthResponse bundles a user with their access token.
func ToAuthResponse(user *model.User, token string) *AuthResponse {
	return &AuthResponse{
		User:        ToUserResponse(user),
		AccessToken: token,
		TokenType:   "bearer",
	}
}
