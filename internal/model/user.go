package model

import "time"

// User represents a registered library member. Username is the login
// identity and must be unique; there is no password model.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// UpdateDisplayName replaces the user's display name.
func (u *User) UpdateDisplayName(name string) {
	u.DisplayName = name
}
