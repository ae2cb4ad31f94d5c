// Package models defines the data exchanged between the tournament client
// and the platform's auth API, plus the server-side user record.
package models

import "time"

// User represents a platform account as stored by the auth API.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Email is the login identifier; unique across users.
	Email string
	// DisplayName is the public handle; unique across users.
	DisplayName string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte
	// AvatarURL is an optional link to the user's avatar image.
	AvatarURL *string
	// Bio is an optional free-form biography.
	Bio *string
	// CreatedAt is when the account was created.
	CreatedAt time.Time
}

// Profile returns the private view of u returned by /users/me and /auth/register.
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		Bio:         u.Bio,
		CreatedAt:   u.CreatedAt,
	}
}

// LoginRequest carries the credentials for /auth/login. On the wire it is
// form-encoded as username=<Identifier>&password=<Secret>.
type LoginRequest struct {
	Identifier string `validate:"required"`
	Secret     string `validate:"required"`
}

// RegisterRequest is the JSON payload for /auth/register.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required"`
	Secret      string `json:"password" validate:"required"`
}

// AuthResponse is the body of a successful login.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserProfile is the private profile of the authenticated user.
type UserProfile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url"`
	Bio         *string   `json:"bio"`
	CreatedAt   time.Time `json:"created_at"`
}

// ErrorResponse is the error body produced by the auth API. Detail is either
// a string or a list of validation entries carrying a "msg" field.
type ErrorResponse struct {
	Detail any `json:"detail"`
}

// ValidationDetail is one entry of a list-valued ErrorResponse.Detail.
type ValidationDetail struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}
