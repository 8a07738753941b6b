package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"legacybook/internal/domain/admin"
	"legacybook/internal/repository"
	legacy_errors "legacybook/pkg/errors"
)

// AdminDirectory is the authorization port: given an identity from the
// external provider, resolve the administrator profile (and thus the role).
type AdminDirectory interface {
	Lookup(ctx context.Context, id uuid.UUID) (admin.Profile, error)
}

// AdminService manages administrator profiles and implements AdminDirectory.
type AdminService struct {
	repo repository.AdminRepository
}

func NewAdminService(repo repository.AdminRepository) *AdminService {
	return &AdminService{repo: repo}
}

var _ AdminDirectory = (*AdminService)(nil)

func (s *AdminService) Lookup(ctx context.Context, id uuid.UUID) (admin.Profile, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AdminService) List(ctx context.Context) ([]admin.Profile, error) {
	return s.repo.List(ctx)
}

// Create registers a profile for an identity that already exists in the
// external provider. When no id is given a fresh one is minted, which is
// only useful against a stubbed provider in development.
func (s *AdminService) Create(ctx context.Context, actor admin.Profile, id *uuid.UUID, email, role string) (admin.Profile, error) {
	if email == "" {
		return admin.Profile{}, fmt.Errorf("%w: email is required", legacy_errors.ErrInvalidInput)
	}
	if role == "" {
		role = admin.RoleAdmin
	}
	if !admin.ValidRole(role) {
		return admin.Profile{}, fmt.Errorf("%w: unknown role %q", legacy_errors.ErrInvalidInput, role)
	}

	profileID := uuid.New()
	if id != nil {
		profileID = *id
	}
	actorID := actor.ID
	profile := admin.Profile{
		ID:         profileID,
		Email:      email,
		Role:       role,
		FirstLogin: true,
		CreatedBy:  &actorID,
	}
	if err := s.repo.Create(ctx, &profile); err != nil {
		return admin.Profile{}, err
	}
	return profile, nil
}

func (s *AdminService) UpdateRole(ctx context.Context, actor admin.Profile, id uuid.UUID, role string) error {
	if !admin.ValidRole(role) {
		return fmt.Errorf("%w: unknown role %q", legacy_errors.ErrInvalidInput, role)
	}
	if actor.ID == id {
		return fmt.Errorf("%w: cannot change own role", legacy_errors.ErrForbidden)
	}
	return s.repo.UpdateRole(ctx, id, role)
}

func (s *AdminService) Delete(ctx context.Context, actor admin.Profile, id uuid.UUID) error {
	if actor.ID == id {
		return fmt.Errorf("%w: cannot delete own account", legacy_errors.ErrForbidden)
	}
	return s.repo.Delete(ctx, id)
}

type adminCtxKey struct{}

// WithAdminContext stores the authenticated administrator on the context.
func WithAdminContext(ctx context.Context, p admin.Profile) context.Context {
	return context.WithValue(ctx, adminCtxKey{}, p)
}

// AdminFromContext returns the authenticated administrator, if any.
func AdminFromContext(ctx context.Context) (admin.Profile, bool) {
	p, ok := ctx.Value(adminCtxKey{}).(admin.Profile)
	return p, ok
}
