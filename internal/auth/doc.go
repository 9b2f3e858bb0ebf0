// Package auth implements user authentication and account security:
// password hashing and verification with Argon2id, JWT access token
// issuance and validation, login, profile updates, password change and
// the single-use password reset flow.
//
// The Service orchestrates these operations over injected repositories
// so tests can substitute in-memory fakes. Failures map to sentinel
// errors (ErrUserNotFound, ErrWrongPassword and friends) that the API
// layer translates into HTTP status codes.
//
// Credential material never leaves the package: the User struct hides
// its password hash from JSON, and every externally visible read goes
// through the Profile projection.
package auth
