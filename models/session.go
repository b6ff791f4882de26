package models

import "time"

// User is the user record returned by the auth backend.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	Role        string `json:"role"`
}

// AuthResponse is the backend's answer to a login or federated login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Credentials carries an email/password login attempt.
type Credentials struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Session is the authenticated identity bound to the current process.
// Sessions are immutable once published; replace, don't mutate.
type Session struct {
	UserID          string    `json:"userId"`
	DisplayName     string    `json:"displayName"`
	Email           string    `json:"email,omitempty"`
	Role            Role      `json:"role"`
	Token           string    `json:"-"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	ExpiresAt       time.Time `json:"expiresAt,omitempty"`
}

// Valid reports whether the session carries a token, is flagged authenticated
// and has not expired at now. A nil session is never valid.
func (s *Session) Valid(now time.Time) bool {
	if s == nil || s.Token == "" || !s.IsAuthenticated {
		return false
	}
	if !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt) {
		return false
	}
	return true
}
