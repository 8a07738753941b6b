package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"legacybook/internal/domain/admin"
	legacy_errors "legacybook/pkg/errors"
)

type PostgresAdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &PostgresAdminRepository{db: db}
}

func (r *PostgresAdminRepository) Create(ctx context.Context, p *admin.Profile) error {
	res := r.db.WithContext(ctx).Create(p)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return legacy_errors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresAdminRepository) GetByID(ctx context.Context, id uuid.UUID) (admin.Profile, error) {
	var p admin.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return admin.Profile{}, legacy_errors.ErrNotFound
		}
		return admin.Profile{}, err
	}
	return p, nil
}

func (r *PostgresAdminRepository) GetByEmail(ctx context.Context, email string) (admin.Profile, error) {
	var p admin.Profile
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return admin.Profile{}, legacy_errors.ErrNotFound
		}
		return admin.Profile{}, err
	}
	return p, nil
}

func (r *PostgresAdminRepository) List(ctx context.Context) ([]admin.Profile, error) {
	var profiles []admin.Profile
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *PostgresAdminRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) error {
	res := r.db.WithContext(ctx).
		Model(&admin.Profile{}).
		Where("id = ?", id).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return legacy_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresAdminRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&admin.Profile{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return legacy_errors.ErrNotFound
	}
	return nil
}
