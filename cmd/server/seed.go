package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkwell-cms/inkwell/internal/pkg/security"
	"github.com/inkwell-cms/inkwell/pkg/config"
	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
	"github.com/inkwell-cms/inkwell/pkg/domain/repository"
)

// seedAdmin creates the initial admin account on an empty database and
// prints the generated password once. Existing installs are left alone.
func seedAdmin(cfg *config.Config, logger zerolog.Logger, users repository.UserRepository) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := users.GetBySlug(ctx, "admin"); err == nil {
		return nil
	} else if !errors.Is(err, constant.ErrNotFound) {
		return err
	}

	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("generate admin password: %w", err)
	}
	password := hex.EncodeToString(buf)
	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}

	if _, err := users.Create(ctx, &model.User{
		Username:     "admin",
		Nickname:     "Administrator",
		PasswordHash: hash,
		Role:         model.UserRoleAdmin,
		Status:       model.UserStatusActive,
	}); err != nil {
		return fmt.Errorf("seed admin account: %w", err)
	}

	logger.Info().
		Str("username", "admin").
		Str("password", password).
		Msg("initial admin account created, change the password after first login")
	return nil
}
