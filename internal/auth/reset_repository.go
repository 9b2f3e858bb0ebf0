package auth

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ResetTokenRepository defines the interface for password reset token
// persistence. Raw tokens are never stored, only their hashes.
type ResetTokenRepository interface {
	Create(ctx context.Context, token *ResetToken) error
	Consume(ctx context.Context, tokenHash string) (*ResetToken, error)
	DeleteExpired(ctx context.Context) (int, error)
}

// SQLiteResetTokenRepository implements ResetTokenRepository using SQLite.
type SQLiteResetTokenRepository struct {
	db *sql.DB
}

// NewResetTokenRepository creates a new SQLite-backed reset token repository.
func NewResetTokenRepository(db *sql.DB) *SQLiteResetTokenRepository {
	return &SQLiteResetTokenRepository{db: db}
}

// HashToken computes the SHA-256 hash of a raw token string for storage.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Create inserts a new reset token record. The ID is generated if empty.
func (r *SQLiteResetTokenRepository) Create(ctx context.Context, token *ResetToken) error {
	if token.ID == "" {
		token.ID = "rst-" + uuid.NewString()[:8]
	}

	now := time.Now().UTC().Format(time.RFC3339)
	token.CreatedAt, _ = time.Parse(time.RFC3339, now) //nolint:errcheck // format is controlled

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at, used, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		token.ID, token.UserID, token.TokenHash,
		token.ExpiresAt.UTC().Format(time.RFC3339), boolToInt(token.Used), now,
	)
	if err != nil {
		return fmt.Errorf("creating reset token: %w", err)
	}

	return nil
}

// Consume looks up a token by hash and marks it used within a single
// transaction. Tokens that are missing, expired or already used return
// ErrResetTokenInvalid; a consumed token can never be consumed again.
func (r *SQLiteResetTokenRepository) Consume(ctx context.Context, tokenHash string) (*ResetToken, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var t ResetToken
	var used int
	var expiresAt, createdAt string

	err = tx.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, expires_at, used, created_at
		 FROM password_reset_tokens WHERE token_hash = ?`, tokenHash).Scan(
		&t.ID, &t.UserID, &t.TokenHash, &expiresAt, &used, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResetTokenInvalid
		}
		return nil, fmt.Errorf("scanning reset token: %w", err)
	}

	t.Used = used != 0
	t.ExpiresAt, _ = time.Parse(time.RFC3339, expiresAt) //nolint:errcheck // format is controlled
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled

	if t.Used || time.Now().UTC().After(t.ExpiresAt) {
		return nil, ErrResetTokenInvalid
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE password_reset_tokens SET used = 1 WHERE id = ?`, t.ID); err != nil {
		return nil, fmt.Errorf("marking reset token used: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing reset token consume: %w", err)
	}

	t.Used = true
	return &t, nil
}

// DeleteExpired removes tokens past their expiry time and returns the
// number of rows deleted.
func (r *SQLiteResetTokenRepository) DeleteExpired(ctx context.Context) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM password_reset_tokens WHERE expires_at < ?`,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("deleting expired reset tokens: %w", err)
	}

	rows, _ := result.RowsAffected() //nolint:errcheck // always succeeds on SQLite
	return int(rows), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
