package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/casavia/casavia-core/internal/infrastructure/logging"
)

// seedPasswordBytes is the number of random bytes for the seed admin password.
const seedPasswordBytes = 16

// seedAdminEmail is the address of the bootstrap admin account.
const seedAdminEmail = "admin@casavia.local"

// SeedAdmin creates the initial admin account on first boot if no users
// exist. The generated password is printed to stdout once and never
// logged; it must be changed immediately.
func SeedAdmin(ctx context.Context, users UserRepository, logger *logging.Logger) error {
	count, err := users.Count(ctx)
	if err != nil {
		return fmt.Errorf("checking user count: %w", err)
	}

	if count > 0 {
		logger.Debug("users exist, skipping admin seed")
		return nil
	}

	passwordBytes := make([]byte, seedPasswordBytes)
	if _, err := rand.Read(passwordBytes); err != nil {
		return fmt.Errorf("generating seed password: %w", err)
	}
	password := hex.EncodeToString(passwordBytes)

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}

	admin := &User{
		Name:         "System Administrator",
		Email:        seedAdminEmail,
		PasswordHash: hash,
		Role:         RoleAdmin,
	}

	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("creating seed admin: %w", err)
	}

	// Printed once at first boot; the credential never enters the log stream.
	fmt.Printf("Seed admin account created\n  email:    %s\n  password: %s\nChange this password immediately.\n",
		seedAdminEmail, password)

	logger.Warn("seed admin account created",
		"email", seedAdminEmail,
		"action_required", "change this password immediately",
	)

	return nil
}
