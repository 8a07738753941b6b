package database

import (
	"fmt"
	"log"

	"legacybook/internal/domain/admin"

	"github.com/google/uuid"
)

// SeedConfig holds configuration for seeding the database
type SeedConfig struct {
	SuperAdminID    string
	SuperAdminEmail string
}

// DefaultSeedConfig returns default seed configuration
func DefaultSeedConfig() *SeedConfig {
	return &SeedConfig{
		SuperAdminEmail: "admin@legacybook.local",
	}
}

// Seed bootstraps the first super_admin profile. Credentials live in the
// external identity provider; SuperAdminID must be the provider's subject id
// for that account. A random id is generated when none is given, useful for
// local development against a stubbed provider.
func Seed(cfg *SeedConfig) (*admin.Profile, error) {
	if cfg == nil {
		cfg = DefaultSeedConfig()
	}

	var existing admin.Profile
	if err := DB.Where("email = ?", cfg.SuperAdminEmail).First(&existing).Error; err == nil {
		log.Printf("Seed: super admin %s already exists", cfg.SuperAdminEmail)
		return &existing, nil
	}

	id := uuid.New()
	if cfg.SuperAdminID != "" {
		parsed, err := uuid.Parse(cfg.SuperAdminID)
		if err != nil {
			return nil, fmt.Errorf("invalid super admin id: %w", err)
		}
		id = parsed
	}

	profile := admin.Profile{
		ID:         id,
		Email:      cfg.SuperAdminEmail,
		Role:       admin.RoleSuperAdmin,
		FirstLogin: true,
	}
	if err := DB.Create(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to seed super admin: %w", err)
	}

	log.Printf("Seed: created super admin %s (%s)", profile.Email, profile.ID)
	return &profile, nil
}
