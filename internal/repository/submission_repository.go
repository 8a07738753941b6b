package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"legacybook/internal/domain/submission"
	legacy_errors "legacybook/pkg/errors"
)

type PostgresSubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &PostgresSubmissionRepository{db: db}
}

// sortableColumns whitelists the fields an admin may sort by. Anything else
// falls back to the default ordering.
var sortableColumns = map[string]bool{
	"created_at":    true,
	"full_name":     true,
	"institution":   true,
	"batch_year":    true,
	"roll_number":   true,
	"email":         true,
	"top_tag":       true,
	"review_status": true,
}

func (r *PostgresSubmissionRepository) Insert(ctx context.Context, s *submission.Submission) error {
	res := r.db.WithContext(ctx).Create(s)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return legacy_errors.ErrConflict
		}
		return res.Error
	}
	return nil
}

func (r *PostgresSubmissionRepository) GetByID(ctx context.Context, id string) (submission.Submission, error) {
	var s submission.Submission
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return submission.Submission{}, legacy_errors.ErrNotFound
		}
		return submission.Submission{}, err
	}
	return s, nil
}

func (r *PostgresSubmissionRepository) UpdateReview(ctx context.Context, id string, patch ReviewPatch) error {
	updates := map[string]interface{}{}
	if patch.ReviewStatus != nil {
		updates["review_status"] = *patch.ReviewStatus
	}
	if patch.AdminNotes != nil {
		updates["admin_notes"] = *patch.AdminNotes
	}
	if len(updates) == 0 {
		return legacy_errors.ErrInvalidInput
	}

	res := r.db.WithContext(ctx).
		Model(&submission.Submission{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return legacy_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresSubmissionRepository) List(ctx context.Context, filter Filter, sort *Sort) ([]submission.Submission, error) {
	var items []submission.Submission
	err := r.applyFilter(ctx, filter, sort).Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresSubmissionRepository) ListPage(ctx context.Context, filter Filter, sort *Sort, page, limit int) ([]submission.Submission, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	var total int64
	q := r.applyFilter(ctx, filter, sort)
	if err := q.Model(&submission.Submission{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []submission.Submission
	offset := (page - 1) * limit
	if err := q.Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PostgresSubmissionRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&submission.Submission{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return legacy_errors.ErrNotFound
	}
	return nil
}

func (r *PostgresSubmissionRepository) applyFilter(ctx context.Context, filter Filter, sort *Sort) *gorm.DB {
	q := r.db.WithContext(ctx)

	if len(filter.IDs) > 0 {
		q = q.Where("id IN ?", filter.IDs)
	}
	if filter.Institution != "" {
		q = q.Where("institution = ?", filter.Institution)
	}
	if filter.BatchYear != 0 {
		q = q.Where("batch_year = ?", filter.BatchYear)
	}
	if filter.ReviewStatus != "" {
		q = q.Where("review_status = ?", filter.ReviewStatus)
	}
	if filter.TopTag != "" {
		q = q.Where("top_tag = ?", filter.TopTag)
	}
	if filter.Rejected != nil {
		q = q.Where("rejected = ?", *filter.Rejected)
	}

	if sort != nil && sortableColumns[sort.Field] {
		dir := "DESC"
		if sort.Ascending {
			dir = "ASC"
		}
		q = q.Order(fmt.Sprintf("%s %s NULLS LAST", sort.Field, dir))
	} else {
		q = q.Order("created_at DESC")
	}
	return q
}
