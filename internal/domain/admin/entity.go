package admin

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
	RoleReviewer   = "reviewer"
)

func ValidRole(v string) bool {
	switch v {
	case RoleAdmin, RoleSuperAdmin, RoleReviewer:
		return true
	}
	return false
}

// Profile represents admin_profiles. Identity (credentials, sessions) lives
// in the external identity provider; this row only carries authorization
// facts keyed by the provider's subject id.
type Profile struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email      string     `gorm:"uniqueIndex;not null" json:"email"`
	Role       string     `gorm:"type:admin_role;default:'admin'" json:"role"`
	FirstLogin bool       `gorm:"default:true" json:"first_login"`
	CreatedBy  *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt  time.Time  `gorm:"default:now()" json:"created_at"`
}

func (Profile) TableName() string {
	return "admin_profiles"
}

// CanView reports whether the role may read submissions and media.
func (p Profile) CanView() bool {
	return p.Role == RoleAdmin || p.Role == RoleSuperAdmin || p.Role == RoleReviewer
}

// CanMutate reports whether the role may change, delete, or export submissions.
func (p Profile) CanMutate() bool {
	return p.Role == RoleAdmin || p.Role == RoleSuperAdmin
}
