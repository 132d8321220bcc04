package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating the admin.
type LoginRequest struct {
	Username  string `json:"username" form:"username" validate:"required,min=3,max=64"`
	Password  string `json:"password" form:"password" validate:"required,max=128"`
	IP        string `json:"-" form:"-"`
	UserAgent string `json:"-" form:"-"`
}

// Session is returned after a successful login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Admin     AdminInfo `json:"admin"`
}

// ChangePasswordRequest payload for updating the admin password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

// SessionClaims is the signed token payload. The registered ID claim carries
// the server-side session id.
type SessionClaims struct {
	AdminID  string `json:"admin_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// SessionID returns the server-side session identifier.
func (c *SessionClaims) SessionID() string {
	if c == nil {
		return ""
	}
	return c.ID
}

// SessionRecord is the server-side view of a live session.
type SessionRecord struct {
	ID        string    `json:"id"`
	AdminID   string    `json:"admin_id"`
	IP        string    `json:"ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
