package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestResetTokenRepository_CreateAndConsume(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db)
	repo := NewResetTokenRepository(db)
	ctx := context.Background()

	user := testUser(t, users, "reset@example.com", "password123")

	raw, err := GenerateResetToken()
	if err != nil {
		t.Fatalf("GenerateResetToken() error = %v", err)
	}

	token := &ResetToken{
		UserID:    user.ID,
		TokenHash: HashToken(raw),
		ExpiresAt: time.Now().UTC().Add(1 * time.Hour),
	}
	if err := repo.Create(ctx, token); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if token.ID == "" {
		t.Fatal("Create() should generate an ID")
	}

	got, err := repo.Consume(ctx, HashToken(raw))
	if err != nil {
		t.Fatalf("Consume() error = %v", err)
	}
	if got.UserID != user.ID {
		t.Errorf("UserID = %q, want %q", got.UserID, user.ID)
	}
	if !got.Used {
		t.Error("consumed token should be marked used")
	}
}

func TestResetTokenRepository_Consume_SingleUse(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db)
	repo := NewResetTokenRepository(db)
	ctx := context.Background()

	user := testUser(t, users, "once@example.com", "password123")

	raw, _ := GenerateResetToken()
	token := &ResetToken{
		UserID:    user.ID,
		TokenHash: HashToken(raw),
		ExpiresAt: time.Now().UTC().Add(1 * time.Hour),
	}
	if err := repo.Create(ctx, token); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := repo.Consume(ctx, HashToken(raw)); err != nil {
		t.Fatalf("first Consume() error = %v", err)
	}

	_, err := repo.Consume(ctx, HashToken(raw))
	if !errors.Is(err, ErrResetTokenInvalid) {
		t.Errorf("second Consume() error = %v, want ErrResetTokenInvalid", err)
	}
}

func TestResetTokenRepository_Consume_Expired(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db)
	repo := NewResetTokenRepository(db)
	ctx := context.Background()

	user := testUser(t, users, "expired@example.com", "password123")

	raw, _ := GenerateResetToken()
	token := &ResetToken{
		UserID:    user.ID,
		TokenHash: HashToken(raw),
		ExpiresAt: time.Now().UTC().Add(-1 * time.Minute),
	}
	if err := repo.Create(ctx, token); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	_, err := repo.Consume(ctx, HashToken(raw))
	if !errors.Is(err, ErrResetTokenInvalid) {
		t.Errorf("Consume() error = %v, want ErrResetTokenInvalid for expired token", err)
	}
}

func TestResetTokenRepository_Consume_Unknown(t *testing.T) {
	db := testDB(t)
	repo := NewResetTokenRepository(db)

	_, err := repo.Consume(context.Background(), HashToken("never-issued"))
	if !errors.Is(err, ErrResetTokenInvalid) {
		t.Errorf("Consume() error = %v, want ErrResetTokenInvalid", err)
	}
}

func TestResetTokenRepository_DeleteExpired(t *testing.T) {
	db := testDB(t)
	users := NewUserRepository(db)
	repo := NewResetTokenRepository(db)
	ctx := context.Background()

	user := testUser(t, users, "cleanup@example.com", "password123")

	expired := &ResetToken{
		UserID:    user.ID,
		TokenHash: HashToken("expired-token"),
		ExpiresAt: time.Now().UTC().Add(-1 * time.Hour),
	}
	live := &ResetToken{
		UserID:    user.ID,
		TokenHash: HashToken("live-token"),
		ExpiresAt: time.Now().UTC().Add(1 * time.Hour),
	}
	if err := repo.Create(ctx, expired); err != nil {
		t.Fatalf("Create(expired) error = %v", err)
	}
	if err := repo.Create(ctx, live); err != nil {
		t.Fatalf("Create(live) error = %v", err)
	}

	n, err := repo.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired() error = %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteExpired() = %d, want 1", n)
	}

	if _, err := repo.Consume(ctx, HashToken("live-token")); err != nil {
		t.Errorf("live token should survive cleanup, Consume() error = %v", err)
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	if HashToken("abc") != HashToken("abc") {
		t.Error("HashToken should be deterministic")
	}
	if HashToken("abc") == HashToken("abd") {
		t.Error("different tokens should hash differently")
	}
	if len(HashToken("abc")) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(HashToken("abc")))
	}
}
