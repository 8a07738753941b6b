package repository

import (
	"context"

	"github.com/google/uuid"

	"legacybook/internal/domain/admin"
	"legacybook/internal/domain/submission"
)

// Filter narrows submission queries. Zero values mean "not filtered";
// Rejected is a pointer so false can be filtered on explicitly.
type Filter struct {
	Institution  string
	BatchYear    int
	ReviewStatus string
	TopTag       string
	Rejected     *bool
	IDs          []string
}

// Sort overrides the default created_at DESC ordering by a single
// whitelisted column. Nulls always sort last.
type Sort struct {
	Field     string
	Ascending bool
}

// ReviewPatch carries the only fields mutable after creation.
type ReviewPatch struct {
	ReviewStatus *string
	AdminNotes   *string
}

type SubmissionRepository interface {
	Insert(ctx context.Context, s *submission.Submission) error
	GetByID(ctx context.Context, id string) (submission.Submission, error)
	UpdateReview(ctx context.Context, id string, patch ReviewPatch) error
	List(ctx context.Context, filter Filter, sort *Sort) ([]submission.Submission, error)
	ListPage(ctx context.Context, filter Filter, sort *Sort, page, limit int) ([]submission.Submission, int64, error)
	Delete(ctx context.Context, id string) error
}

type AdminRepository interface {
	Create(ctx context.Context, p *admin.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (admin.Profile, error)
	GetByEmail(ctx context.Context, email string) (admin.Profile, error)
	List(ctx context.Context) ([]admin.Profile, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
