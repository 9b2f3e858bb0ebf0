package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/casavia/casavia-core/internal/infrastructure/config"
	"github.com/casavia/casavia-core/internal/infrastructure/logging"
	"github.com/casavia/casavia-core/internal/notify"
	"github.com/casavia/casavia-core/internal/threatscan"
)

// fakeNotifier records dispatched messages for assertions.
type fakeNotifier struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (f *fakeNotifier) Dispatch(msg notify.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
}

func (f *fakeNotifier) sent() []notify.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notify.Message(nil), f.messages...)
}

func testSecurityConfig() config.SecurityConfig {
	return config.SecurityConfig{
		JWT: config.JWTConfig{
			Secret:         "test-secret-key-that-is-long-enough",
			AccessTokenTTL: 15,
		},
	}
}

// testService wires a Service over a temp database with a recording notifier.
func testService(t *testing.T) (*Service, UserRepository, *fakeNotifier) {
	t.Helper()

	db := testDB(t)
	users := NewUserRepository(db)
	resets := NewResetTokenRepository(db)
	notifier := &fakeNotifier{}

	svc := NewService(users, resets, threatscan.New(), notifier,
		testSecurityConfig(), logging.Default())
	return svc, users, notifier
}

func TestService_Login_Success(t *testing.T) {
	svc, users, notifier := testService(t)
	ctx := context.Background()

	user := testUser(t, users, "login@example.com", "password123")

	token, profile, err := svc.Login(ctx, "login@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Fatal("Login() should return a token")
	}

	claims, err := ParseToken(token, testSecurityConfig().JWT.Secret)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Subject != user.ID {
		t.Errorf("token subject = %q, want %q", claims.Subject, user.ID)
	}
	if claims.Role != RoleUser {
		t.Errorf("token role = %q, want %q", claims.Role, RoleUser)
	}

	if profile == nil || profile.ID != user.ID {
		t.Fatal("Login() should return the user's profile")
	}

	if msgs := notifier.sent(); len(msgs) != 1 || msgs[0].To != "login@example.com" {
		t.Errorf("expected one login notification to the account email, got %v", msgs)
	}
}

func TestService_Login_ProfileNeverCarriesCredentials(t *testing.T) {
	svc, users, _ := testService(t)

	testUser(t, users, "leakcheck@example.com", "password123")

	_, profile, err := svc.Login(context.Background(), "leakcheck@example.com", "password123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	body, err := json.Marshal(profile)
	if err != nil {
		t.Fatalf("marshaling profile: %v", err)
	}
	lower := strings.ToLower(string(body))
	for _, needle := range []string{"password", "hash", "token", "argon2"} {
		if strings.Contains(lower, needle) {
			t.Errorf("profile JSON contains %q: %s", needle, body)
		}
	}
}

func TestService_Login_CheckOrder(t *testing.T) {
	svc, users, _ := testService(t)
	ctx := context.Background()

	testUser(t, users, "order@example.com", "password123")

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"missing email", "", "password123", ErrMissingField},
		{"missing password", "order@example.com", "", ErrMissingField},
		{"sql injection in email beats unknown account", "' OR 1=1 --@x.com", "password123", ErrInvalidInput},
		{"script injection in password", "order@example.com", "<script>steal()</script>", ErrInvalidInput},
		{"unknown account", "nobody@example.com", "password123", ErrUserNotFound},
		{"wrong password", "order@example.com", "wrong-password", ErrWrongPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Login(ctx, tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Login() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_Login_NilNotifier(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db)
	svc := NewService(users, NewResetTokenRepository(db), threatscan.New(), nil,
		testSecurityConfig(), logging.Default())

	testUser(t, users, "quiet@example.com", "password123")

	if _, _, err := svc.Login(context.Background(), "quiet@example.com", "password123"); err != nil {
		t.Fatalf("Login() with nil notifier error = %v", err)
	}
}

func TestService_Profile(t *testing.T) {
	svc, users, _ := testService(t)
	ctx := context.Background()

	user := testUser(t, users, "profile@example.com", "password123")

	profile, err := svc.Profile(ctx, user.ID)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if profile.Email != "profile@example.com" {
		t.Errorf("Email = %q, want %q", profile.Email, "profile@example.com")
	}

	if _, err := svc.Profile(ctx, "usr-missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Profile() error = %v, want ErrUserNotFound", err)
	}
}

func TestService_UpdateAccountInfo(t *testing.T) {
	svc, users, _ := testService(t)
	ctx := context.Background()

	user := testUser(t, users, "edit@example.com", "password123")

	profile, err := svc.UpdateAccountInfo(ctx, user.ID, AccountInfoUpdate{
		Name:    "Edited Name",
		Email:   "edited@example.com",
		Phone:   "+44 7700 900789",
		Address: "3 Park Lane",
	})
	if err != nil {
		t.Fatalf("UpdateAccountInfo() error = %v", err)
	}
	if profile.Name != "Edited Name" {
		t.Errorf("Name = %q, want %q", profile.Name, "Edited Name")
	}
	if profile.Email != "edited@example.com" {
		t.Errorf("Email = %q, want %q", profile.Email, "edited@example.com")
	}

	// The stored password survives an info update untouched.
	ok, err := svc.ValidatePassword(ctx, user.ID, "password123")
	if err != nil {
		t.Fatalf("ValidatePassword() error = %v", err)
	}
	if !ok {
		t.Error("password should still verify after an info update")
	}
}

func TestService_UpdateAccountInfo_Rejections(t *testing.T) {
	svc, users, _ := testService(t)
	ctx := context.Background()

	user := testUser(t, users, "reject@example.com", "password123")

	tests := []struct {
		name    string
		update  AccountInfoUpdate
		wantErr error
	}{
		{"missing name", AccountInfoUpdate{Email: "x@example.com"}, ErrMissingField},
		{"missing email", AccountInfoUpdate{Name: "X"}, ErrMissingField},
		{"malformed email", AccountInfoUpdate{Name: "X", Email: "not-an-email"}, ErrInvalidEmail},
		{"sql in name", AccountInfoUpdate{Name: "Robert'); DROP TABLE users; --", Email: "x@example.com"}, ErrInvalidInput},
		{"script in address", AccountInfoUpdate{Name: "X", Email: "x@example.com", Address: "<img src=x onerror=alert(1)>"}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.UpdateAccountInfo(ctx, user.ID, tt.update); !errors.Is(err, tt.wantErr) {
				t.Errorf("UpdateAccountInfo() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestService_ChangePassword(t *testing.T) {
	svc, users, notifier := testService(t)
	ctx := context.Background()

	user := testUser(t, users, "change@example.com", "old-password")

	if err := svc.ChangePassword(ctx, user.ID, "old-password", "new-password", "new-password"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	ok, err := svc.ValidatePassword(ctx, user.ID, "new-password")
	if err != nil {
		t.Fatalf("ValidatePassword() error = %v", err)
	}
	if !ok {
		t.Error("new password should verify after change")
	}

	ok, _ = svc.ValidatePassword(ctx, user.ID, "old-password")
	if ok {
		t.Error("old password should no longer verify")
	}

	if msgs := notifier.sent(); len(msgs) != 1 {
		t.Errorf("expected one change notification, got %d", len(msgs))
	}
}

func TestService_ChangePassword_CheckOrder(t *testing.T) {
	svc, users, _ := testService(t)
	ctx := context.Background()

	user := testUser(t, users, "checks@example.com", "current-password")

	tests := []struct {
		name    string
		current string
		newPass string
		confirm string
		wantErr error
	}{
		{"missing current", "", "new-password", "new-password", ErrMissingField},
		{"missing confirmation", "current-password", "new-password", "", ErrMissingField},
		// Wrong current password is reported before mismatch or length.
		{"wrong current beats mismatch", "nope", "new-password", "different", ErrWrongCurrentPassword},
		{"wrong current beats weak", "nope", "short", "short", ErrWrongCurrentPassword},
		// Mismatch is reported before length.
		{"mismatch beats weak", "current-password", "short", "other", ErrPasswordMismatch},
		{"weak password", "current-password", "short", "short", ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ChangePassword(ctx, user.ID, tt.current, tt.newPass, tt.confirm)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ChangePassword() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// None of the failed attempts should have changed the password.
	ok, err := svc.ValidatePassword(ctx, user.ID, "current-password")
	if err != nil {
		t.Fatalf("ValidatePassword() error = %v", err)
	}
	if !ok {
		t.Error("failed change attempts must not alter the stored password")
	}
}

func TestService_ChangePassword_ExistingTokensStayValid(t *testing.T) {
	svc, users, _ := testService(t)
	ctx := context.Background()

	user := testUser(t, users, "sessions@example.com", "old-password")

	token, _, err := svc.Login(ctx, "sessions@example.com", "old-password")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := svc.ChangePassword(ctx, user.ID, "old-password", "new-password", "new-password"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	// Tokens are validated by signature and expiry only; changing the
	// password does not revoke them.
	if _, err := ParseToken(token, testSecurityConfig().JWT.Secret); err != nil {
		t.Errorf("token issued before password change should still parse, got %v", err)
	}
}

func TestService_ValidatePassword(t *testing.T) {
	svc, users, _ := testService(t)
	ctx := context.Background()

	user := testUser(t, users, "validate@example.com", "password123")

	ok, err := svc.ValidatePassword(ctx, user.ID, "password123")
	if err != nil {
		t.Fatalf("ValidatePassword() error = %v", err)
	}
	if !ok {
		t.Error("ValidatePassword() = false, want true for correct password")
	}

	// A mismatch is a normal boolean outcome, not an error.
	ok, err = svc.ValidatePassword(ctx, user.ID, "wrong-password")
	if err != nil {
		t.Fatalf("ValidatePassword() error = %v", err)
	}
	if ok {
		t.Error("ValidatePassword() = true, want false for wrong password")
	}

	// Repeated validation never mutates state.
	ok, err = svc.ValidatePassword(ctx, user.ID, "password123")
	if err != nil {
		t.Fatalf("ValidatePassword() error = %v", err)
	}
	if !ok {
		t.Error("correct password should still verify after a failed attempt")
	}

	if _, err := svc.ValidatePassword(ctx, "usr-missing", "password123"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}
	if _, err := svc.ValidatePassword(ctx, user.ID, ""); !errors.Is(err, ErrMissingField) {
		t.Errorf("error = %v, want ErrMissingField", err)
	}
}

func TestService_PasswordResetFlow(t *testing.T) {
	svc, users, notifier := testService(t)
	ctx := context.Background()

	testUser(t, users, "forgot@example.com", "old-password")

	if err := svc.RequestPasswordReset(ctx, "forgot@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}

	msgs := notifier.sent()
	if len(msgs) != 1 {
		t.Fatalf("expected one reset notification, got %d", len(msgs))
	}

	// The raw token is the trailing word of the message body.
	idx := strings.LastIndex(msgs[0].Body, ": ")
	if idx < 0 {
		t.Fatalf("reset message body has no token: %q", msgs[0].Body)
	}
	raw := msgs[0].Body[idx+2:]

	if err := svc.ResetPassword(ctx, raw, "new-password", "new-password"); err != nil {
		t.Fatalf("ResetPassword() error = %v", err)
	}

	if _, _, err := svc.Login(ctx, "forgot@example.com", "new-password"); err != nil {
		t.Errorf("Login() with reset password error = %v", err)
	}

	// A consumed token cannot be used again.
	err := svc.ResetPassword(ctx, raw, "another-password", "another-password")
	if !errors.Is(err, ErrResetTokenInvalid) {
		t.Errorf("reuse error = %v, want ErrResetTokenInvalid", err)
	}
}

func TestService_RequestPasswordReset_UnknownEmail(t *testing.T) {
	svc, _, notifier := testService(t)

	// Unknown addresses get the same outward result as known ones.
	if err := svc.RequestPasswordReset(context.Background(), "stranger@example.com"); err != nil {
		t.Errorf("RequestPasswordReset() error = %v, want nil for unknown email", err)
	}
	if len(notifier.sent()) != 0 {
		t.Error("no notification should be dispatched for an unknown email")
	}
}

func TestService_ResetPassword_Rejections(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		token   string
		newPass string
		confirm string
		wantErr error
	}{
		{"missing token", "", "new-password", "new-password", ErrMissingField},
		{"unknown token", "bogus", "new-password", "new-password", ErrResetTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.ResetPassword(ctx, tt.token, tt.newPass, tt.confirm); !errors.Is(err, tt.wantErr) {
				t.Errorf("ResetPassword() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
