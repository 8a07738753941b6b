package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"legacybook/internal/domain/admin"
	"legacybook/internal/domain/submission"
	"legacybook/internal/repository"
	legacy_errors "legacybook/pkg/errors"
)

// memObjectStore is an in-memory ObjectStore for pipeline tests.
type memObjectStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	failUpload map[string]error
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{
		objects:    make(map[string][]byte),
		failUpload: make(map[string]error),
	}
}

func (m *memObjectStore) Upload(_ context.Context, path string, data []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failUpload[path]; ok {
		return "", err
	}
	if _, ok := m.objects[path]; ok {
		return "", legacy_errors.ErrAlreadyExists
	}
	m.objects[path] = slices.Clone(data)
	return path, nil
}

func (m *memObjectStore) Download(_ context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[path]
	if !ok {
		return nil, legacy_errors.ErrNotFound
	}
	return slices.Clone(data), nil
}

func (m *memObjectStore) Delete(_ context.Context, paths []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range paths {
		delete(m.objects, p)
	}
	return nil
}

func (m *memObjectStore) SignedURL(_ context.Context, path string, _ time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[path]; !ok {
		return "", legacy_errors.ErrNotFound
	}
	return "https://signed.example/" + path, nil
}

func (m *memObjectStore) paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.objects))
	for p := range m.objects {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// memSubmissionRepo is an in-memory SubmissionRepository.
type memSubmissionRepo struct {
	mu         sync.Mutex
	records    map[string]submission.Submission
	order      []string
	failInsert error
}

func newMemSubmissionRepo() *memSubmissionRepo {
	return &memSubmissionRepo{records: make(map[string]submission.Submission)}
}

func (m *memSubmissionRepo) Insert(_ context.Context, s *submission.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsert != nil {
		return m.failInsert
	}
	if _, ok := m.records[s.ID]; ok {
		return legacy_errors.ErrConflict
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	m.records[s.ID] = *s
	m.order = append(m.order, s.ID)
	return nil
}

func (m *memSubmissionRepo) GetByID(_ context.Context, id string) (submission.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.records[id]
	if !ok {
		return submission.Submission{}, legacy_errors.ErrNotFound
	}
	return s, nil
}

func (m *memSubmissionRepo) UpdateReview(_ context.Context, id string, patch repository.ReviewPatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.records[id]
	if !ok {
		return legacy_errors.ErrNotFound
	}
	if patch.ReviewStatus != nil {
		s.ReviewStatus = *patch.ReviewStatus
	}
	if patch.AdminNotes != nil {
		s.AdminNotes = patch.AdminNotes
	}
	m.records[id] = s
	return nil
}

func (m *memSubmissionRepo) List(_ context.Context, filter repository.Filter, _ *repository.Sort) ([]submission.Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []submission.Submission
	// Newest first, matching the store's default ordering.
	for i := len(m.order) - 1; i >= 0; i-- {
		s := m.records[m.order[i]]
		if matches(filter, s) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSubmissionRepo) ListPage(ctx context.Context, filter repository.Filter, sort *repository.Sort, page, limit int) ([]submission.Submission, int64, error) {
	all, err := m.List(ctx, filter, sort)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	start := (page - 1) * limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := min(start+limit, len(all))
	return all[start:end], total, nil
}

func (m *memSubmissionRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return legacy_errors.ErrNotFound
	}
	delete(m.records, id)
	m.order = slices.DeleteFunc(m.order, func(v string) bool { return v == id })
	return nil
}

func matches(f repository.Filter, s submission.Submission) bool {
	if len(f.IDs) > 0 && !slices.Contains(f.IDs, s.ID) {
		return false
	}
	if f.Institution != "" && s.Institution != f.Institution {
		return false
	}
	if f.BatchYear != 0 && s.BatchYear != f.BatchYear {
		return false
	}
	if f.ReviewStatus != "" && s.ReviewStatus != f.ReviewStatus {
		return false
	}
	if f.TopTag != "" && s.TopTag != f.TopTag {
		return false
	}
	if f.Rejected != nil && s.Rejected != *f.Rejected {
		return false
	}
	return true
}

// memAdminRepo is an in-memory AdminRepository.
type memAdminRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]admin.Profile
}

func newMemAdminRepo() *memAdminRepo {
	return &memAdminRepo{profiles: make(map[uuid.UUID]admin.Profile)}
}

func (m *memAdminRepo) Create(_ context.Context, p *admin.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.profiles {
		if existing.Email == p.Email {
			return legacy_errors.ErrAlreadyExists
		}
	}
	m.profiles[p.ID] = *p
	return nil
}

func (m *memAdminRepo) GetByID(_ context.Context, id uuid.UUID) (admin.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return admin.Profile{}, legacy_errors.ErrNotFound
	}
	return p, nil
}

func (m *memAdminRepo) GetByEmail(_ context.Context, email string) (admin.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return admin.Profile{}, legacy_errors.ErrNotFound
}

func (m *memAdminRepo) List(_ context.Context) ([]admin.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]admin.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		out = append(out, p)
	}
	return out, nil
}

func (m *memAdminRepo) UpdateRole(_ context.Context, id uuid.UUID, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return legacy_errors.ErrNotFound
	}
	p.Role = role
	m.profiles[id] = p
	return nil
}

func (m *memAdminRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[id]; !ok {
		return legacy_errors.ErrNotFound
	}
	delete(m.profiles, id)
	return nil
}
