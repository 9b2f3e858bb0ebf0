package auth

import (
	"errors"
	"regexp"
	"time"
)

// emailPattern is a structural check only (local@domain.tld). Anything
// stricter belongs to the mail provider; anything looser lets junk into
// the unique email index.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// maxEmailLength is the maximum allowed email length.
const maxEmailLength = 255

// IsValidEmail checks if an email address is structurally valid.
func IsValidEmail(email string) bool {
	return len(email) <= maxEmailLength && emailPattern.MatchString(email)
}

// Role represents an authorisation tier in the system.
type Role string

const (
	// RoleUser is a regular account: browses listings, messages agents,
	// manages its own profile.
	RoleUser Role = "user"

	// RoleAgent can create and manage property listings.
	RoleAgent Role = "agent"

	// RoleAdmin has full control: any account, any listing.
	RoleAdmin Role = "admin"
)

// ValidRoles is the set of valid account roles.
var ValidRoles = []Role{RoleUser, RoleAgent, RoleAdmin}

// IsValidRole returns true if the role is a valid account role.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// User represents an account credential record plus its public profile
// fields. The core never holds a mutable copy beyond one request.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialised
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the public projection of an account. It is a separate type
// rather than a filtered User so that the password hash and reset-token
// fields cannot reach a response body by accident: they simply do not
// exist here.
type Profile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// PublicProfile returns the account's public projection.
func (u *User) PublicProfile() Profile {
	return Profile{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Phone:        u.Phone,
		Address:      u.Address,
		ProfileImage: u.ProfileImage,
	}
}

// ResetToken represents a stored password reset token.
// Only the SHA-256 hash of the raw token is persisted.
type ResetToken struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"` // never serialised
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// Sentinel errors for auth and account-security operations.
var (
	ErrMissingField         = errors.New("required field missing")
	ErrInvalidInput         = errors.New("invalid input detected")
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailExists          = errors.New("email already registered")
	ErrWrongPassword        = errors.New("incorrect password")
	ErrWrongCurrentPassword = errors.New("current password is incorrect")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrWeakPassword         = errors.New("password too short")
	ErrTokenInvalid         = errors.New("invalid token")
	ErrResetTokenInvalid    = errors.New("reset token invalid or expired")
)
