package user

import "time"

// Role restricts what a user may do. Authorization checks compare against
// this enum, never against free-form strings from the request.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Avatar references an asset held by the media host.
type Avatar struct {
	PublicID string `json:"public_id"`
	URL      string `json:"secure_url"`
}

// Subscription is carried in the schema for the payment flows but is not
// consulted by any active flow.
type Subscription struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type User struct {
	ID           string       `json:"id"`
	FullName     string       `json:"fullName"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // never serialized
	Role         Role         `json:"role"`
	Avatar       Avatar       `json:"avatar"`
	Subscription Subscription `json:"subscription"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Password-reset state: SHA-256 of the outstanding reset token and its
	// expiry. Both nil when no reset is pending.
	ResetTokenHash   *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
