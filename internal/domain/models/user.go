package models

import "time"

// User is a registered account. The password hash never leaves the store layer.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	PasswordHash     string    `json:"-"`
	Role             string    `json:"role"`
	WhatsAppVerified bool      `json:"whatsAppVerified"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Session is an active login, keyed by its bearer token.
type Session struct {
	Token            string    `json:"token"`
	UserID           string    `json:"userId"`
	Role             string    `json:"role"`
	Phone            string    `json:"phone"`
	WhatsAppVerified bool      `json:"whatsAppVerified"`
	CreatedAt        time.Time `json:"createdAt"`
}

// IsVerified reports whether the session may trigger WhatsApp broadcasts.
// Admin sessions are implicitly verified.
func (s Session) IsVerified() bool {
	return s.WhatsAppVerified || s.Role == "admin"
}
