package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/casavia/casavia-core/internal/infrastructure/config"
	"github.com/casavia/casavia-core/internal/infrastructure/logging"
	"github.com/casavia/casavia-core/internal/notify"
	"github.com/casavia/casavia-core/internal/threatscan"
)

// resetTokenTTL is how long a password reset token stays valid.
const resetTokenTTL = 1 * time.Hour

// Notifier dispatches account notifications without blocking the
// caller. A nil or failed dispatch never affects the outcome of the
// operation that triggered it.
type Notifier interface {
	Dispatch(msg notify.Message)
}

// AccountInfoUpdate carries the editable profile fields for
// UpdateAccountInfo. Name and Email are required; the rest may be
// empty.
type AccountInfoUpdate struct {
	Name         string
	Email        string
	Phone        string
	Address      string
	ProfileImage string
}

// Service implements authentication and account security operations
// on top of the user and reset token repositories. All collaborators
// are injected; the service holds no state of its own beyond
// configuration.
type Service struct {
	users    UserRepository
	resets   ResetTokenRepository
	scanner  *threatscan.Scanner
	notifier Notifier
	security config.SecurityConfig
	logger   *logging.Logger
}

// NewService creates an authentication service. notifier may be nil,
// in which case notifications are silently skipped.
func NewService(users UserRepository, resets ResetTokenRepository, scanner *threatscan.Scanner,
	notifier Notifier, security config.SecurityConfig, logger *logging.Logger) *Service {
	return &Service{
		users:    users,
		resets:   resets,
		scanner:  scanner,
		notifier: notifier,
		security: security,
		logger:   logger,
	}
}

// Login authenticates a user by email and password and returns a
// signed access token together with the public profile.
//
// Checks run in a fixed order and stop at the first failure:
// missing field, suspicious input, unknown account, wrong password.
// A successful login dispatches a notification on a best-effort basis;
// delivery failure never fails the login.
func (s *Service) Login(ctx context.Context, email, password string) (string, *Profile, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return "", nil, ErrMissingField
	}

	verdict, _ := s.scanner.Scan([]threatscan.Field{
		threatscan.String("email", email),
		threatscan.String("password", password),
	})
	if verdict != threatscan.Safe {
		s.logger.Warn("login rejected, suspicious input", "classification", string(verdict))
		return "", nil, ErrInvalidInput
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}

	match, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return "", nil, fmt.Errorf("verifying password: %w", err)
	}
	if !match {
		return "", nil, ErrWrongPassword
	}

	token, err := GenerateAccessToken(user, s.security.JWT.Secret,
		s.security.JWT.AccessTokenTTL, s.security.LegacyFixedRole)
	if err != nil {
		return "", nil, fmt.Errorf("generating access token: %w", err)
	}

	s.dispatch(notify.Message{
		To:      user.Email,
		Subject: "New login to your account",
		Body:    "Your account was just used to log in. If this wasn't you, change your password immediately.",
	})

	s.logger.Info("user logged in", "user_id", user.ID)
	profile := user.PublicProfile()
	return token, &profile, nil
}

// Profile returns the public projection of a user account. Credential
// material never appears in the result.
func (s *Service) Profile(ctx context.Context, id string) (*Profile, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := user.PublicProfile()
	return &profile, nil
}

// UpdateAccountInfo modifies a user's profile fields and returns the
// updated public profile. Name and email are required; all textual
// fields pass through the threat scanner before anything is written.
func (s *Service) UpdateAccountInfo(ctx context.Context, id string, update AccountInfoUpdate) (*Profile, error) {
	if strings.TrimSpace(update.Name) == "" || strings.TrimSpace(update.Email) == "" {
		return nil, ErrMissingField
	}
	if !IsValidEmail(update.Email) {
		return nil, ErrInvalidEmail
	}

	verdict, _ := s.scanner.Scan([]threatscan.Field{
		threatscan.String("name", update.Name),
		threatscan.String("email", update.Email),
		threatscan.String("phone", update.Phone),
		threatscan.String("address", update.Address),
		threatscan.String("profile_image", update.ProfileImage),
	})
	if verdict != threatscan.Safe {
		s.logger.Warn("account update rejected, suspicious input",
			"user_id", id, "classification", string(verdict))
		return nil, ErrInvalidInput
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(update.Name)
	user.Email = strings.TrimSpace(update.Email)
	user.Phone = strings.TrimSpace(update.Phone)
	user.Address = strings.TrimSpace(update.Address)
	if update.ProfileImage != "" {
		user.ProfileImage = update.ProfileImage
	}

	if err := s.users.UpdateInfo(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("account info updated", "user_id", user.ID)
	profile := user.PublicProfile()
	return &profile, nil
}

// ChangePassword replaces a user's password after verifying the
// current one.
//
// Checks run in a fixed order and stop at the first failure:
// missing field, wrong current password, confirmation mismatch,
// minimum length. The write is a single UPDATE; concurrent changes to
// the same account resolve last-write-wins. Existing access tokens
// remain valid until they expire.
func (s *Service) ChangePassword(ctx context.Context, id, current, newPassword, confirm string) error {
	if current == "" || newPassword == "" || confirm == "" {
		return ErrMissingField
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}

	match, err := VerifyPassword(current, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("verifying current password: %w", err)
	}
	if !match {
		return ErrWrongCurrentPassword
	}

	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	if len(newPassword) < MinPasswordLength {
		return ErrWeakPassword
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.dispatch(notify.Message{
		To:      user.Email,
		Subject: "Your password was changed",
		Body:    "Your account password was just changed. If this wasn't you, contact support immediately.",
	})

	s.logger.Info("password changed", "user_id", user.ID)
	return nil
}

// ValidatePassword reports whether the supplied password matches the
// user's current one. It never mutates account state and a mismatch is
// not an error.
func (s *Service) ValidatePassword(ctx context.Context, id, password string) (bool, error) {
	if password == "" {
		return false, ErrMissingField
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	match, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return false, fmt.Errorf("verifying password: %w", err)
	}
	return match, nil
}

// RequestPasswordReset issues a single-use reset token for the account
// behind the given email and dispatches it via the notifier. The
// outcome is identical whether or not the account exists, so callers
// cannot probe for registered addresses.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrMissingField
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the address is registered.
		s.logger.Debug("password reset requested for unknown email")
		return nil
	}

	raw, err := GenerateResetToken()
	if err != nil {
		return fmt.Errorf("generating reset token: %w", err)
	}

	token := &ResetToken{
		UserID:    user.ID,
		TokenHash: HashToken(raw),
		ExpiresAt: time.Now().UTC().Add(resetTokenTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return err
	}

	s.dispatch(notify.Message{
		To:      user.Email,
		Subject: "Password reset requested",
		Body:    "Use this token to reset your password within the next hour: " + raw,
	})

	s.logger.Info("password reset token issued", "user_id", user.ID)
	return nil
}

// ResetPassword completes a password reset using a raw token from a
// reset email. The token is consumed atomically; a second attempt with
// the same token fails even if the first attempt failed later checks.
func (s *Service) ResetPassword(ctx context.Context, rawToken, newPassword, confirm string) error {
	if rawToken == "" || newPassword == "" || confirm == "" {
		return ErrMissingField
	}

	token, err := s.resets.Consume(ctx, HashToken(rawToken))
	if err != nil {
		return err
	}

	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	if len(newPassword) < MinPasswordLength {
		return ErrWeakPassword
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, token.UserID, hash); err != nil {
		return err
	}

	s.logger.Info("password reset completed", "user_id", token.UserID)
	return nil
}

// dispatch hands a message to the notifier if one is configured.
func (s *Service) dispatch(msg notify.Message) {
	if s.notifier == nil {
		return
	}
	s.notifier.Dispatch(msg)
}
