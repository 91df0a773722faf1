package core

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

const (
	bootstrapAdminUsername = "admin"
	roleAdmin              = "admin"
)

// BootstrapAdmin creates an initial admin user when none exists.
// It is idempotent: if an admin already exists, it does nothing.
func BootstrapAdmin(ctx context.Context, repo UserRepository, cfg Config, logger *slog.Logger) error {
	if !cfg.BootstrapAdminEnabled {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	has, err := repo.HasAdmin(ctx)
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	password, err := generatePassword(32)
	if err != nil {
		return err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := repo.Create(ctx, uuid.NewString(), bootstrapAdminUsername, hash, roleAdmin); err != nil {
		return err
	}

	if cfg.InitialAdminPasswordPath != "" {
		if err := os.WriteFile(cfg.InitialAdminPasswordPath, []byte(password+"\n"), 0o600); err != nil {
			return err
		}
		logger.Info("initial admin created", "username", bootstrapAdminUsername, "password_file", cfg.InitialAdminPasswordPath)
	} else {
		logger.Warn("initial admin created", "username", bootstrapAdminUsername, "password", password)
	}

	return nil
}

func generatePassword(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("password length must be positive")
	}
	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw)[:length], nil
}
