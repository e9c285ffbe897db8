package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of transport concerns.

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// User is the profile record returned by the backend for the signed-in principal.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	FullName    string    `json:"full_name,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	IsStaff     bool      `json:"is_staff,omitempty"`
	IsSuperuser bool      `json:"is_superuser,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Session is a read-only snapshot of the client session.
// The session manager is the only writer; everything else receives copies.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *User
	Initialized  bool
}

// IsAuthenticated holds iff both an access token and a user profile are present.
func (s Session) IsAuthenticated() bool {
	return s.AccessToken != "" && s.User != nil
}

// LoginInput carries sign-in credentials. Either Username or Email identifies the account.
type LoginInput struct {
	Username string `json:"username,omitempty" validate:"required_without=Email"`
	Email    string `json:"email,omitempty"    validate:"omitempty,email"`
	Password string `json:"password"           validate:"required"`
}

// RegisterInput carries the sign-up form.
type RegisterInput struct {
	Username             string `json:"username"              validate:"required"`
	Email                string `json:"email"                 validate:"required,email"`
	FirstName            string `json:"first_name,omitempty"`
	LastName             string `json:"last_name,omitempty"`
	Bio                  string `json:"bio,omitempty"`
	Password             string `json:"password"              validate:"required,min=8"`
	ConfirmationPassword string `json:"confirmation_password" validate:"required,eqfield=Password"`
}

// ProfileInput carries editable profile fields. Empty fields are omitted so the
// same shape serves full (PUT) and partial (PATCH) updates.
type ProfileInput struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

// ChangePasswordInput carries the change-password form.
type ChangePasswordInput struct {
	OldPassword        string `json:"old_password"         validate:"required"`
	NewPassword        string `json:"new_password"         validate:"required,min=8,nefield=OldPassword"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required,eqfield=NewPassword"`
}

// AuthResponse is the payload of the login and register endpoints.
type AuthResponse struct {
	User    *User  `json:"user"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RefreshRequest is the body of the token refresh endpoint.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse is the payload of the token refresh endpoint.
type RefreshResponse struct {
	Access string `json:"access"`
}

// LogoutRequest is the body of the logout endpoint.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// MessageResponse is the generic acknowledgement payload.
type MessageResponse struct {
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// FullName returns the display name: full_name, else "first last", else username.
func FullName(u *User) string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.FullName); name != "" {
		return name
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}

// Initials returns up to two upper-cased initials derived from FullName.
func Initials(u *User) string {
	if u == nil {
		return ""
	}
	var b strings.Builder
	for _, word := range strings.Fields(FullName(u)) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		if utf8.RuneCountInString(b.String()) == 2 {
			break
		}
	}
	return b.String()
}

// CanEdit reports whether u may edit content authored by authorID.
func CanEdit(u *User, authorID int64) bool {
	return u != nil && (u.ID == authorID || u.IsStaff)
}

// CanModerate reports whether u has moderation rights.
func CanModerate(u *User) bool {
	return u != nil && (u.IsStaff || u.IsSuperuser)
}
