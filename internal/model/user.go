package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account in the system. Accounts created through
// social login carry SocialID/Provider and no password hash.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        *string   `json:"email,omitempty"`
	PasswordHash *string   `json:"-"` // Do not expose the hash in JSON responses
	Role         string    `json:"role"`
	SocialID     *string   `json:"-"`
	Provider     *string   `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// SocialProfile is the normalized identity an OAuth provider hands back
// after a successful code exchange.
type SocialProfile struct {
	Provider string
	SocialID string
	Name     string
	Email    string
}
