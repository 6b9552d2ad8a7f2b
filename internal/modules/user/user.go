package user

import (
	"time"
)

// Role is the fixed role an account is enrolled with.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleDonor       Role = "donor"
	RoleBeneficiary Role = "beneficiary"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDonor, RoleBeneficiary:
		return true
	}
	return false
}

// User represents an account in the system.
type User struct {
	ID              string    `db:"id"`
	FirstName       string    `db:"first_name"`
	LastName        string    `db:"last_name"`
	Email           string    `db:"email"`
	PhoneNumber     *string   `db:"phone_number"`
	PasswordHash    *string   `db:"password_hash"`
	Role            Role      `db:"role"`
	EmailVerified   bool      `db:"email_verified"`
	Provider        *string   `db:"provider"`
	ProviderID      *string   `db:"provider_id"`
	AvatarURL       *string   `db:"avatar_url"`
	ProfileComplete bool      `db:"profile_complete"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// FullName joins the name parts.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type OAuthProvider string

const (
	OAuthProviderGOOGLE OAuthProvider = "google"
	OAuthProviderAPPLE  OAuthProvider = "apple"
)

type OAuthState struct {
	State     string        `db:"state"`
	Provider  OAuthProvider `db:"provider"`
	UserID    *string       `db:"user_id"`
	Verifier  string        `db:"verifier"`
	Role      *Role         `db:"role"`
	ExpiresAt time.Time     `db:"expires_at"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}
