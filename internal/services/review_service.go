package services

import (
	"context"
	"fmt"
	"time"

	"legacybook/internal/domain/submission"
	"legacybook/internal/repository"
	"legacybook/internal/storage"
	legacy_errors "legacybook/pkg/errors"
	"legacybook/pkg/logger"
)

// ReviewService serves the administrator views over submissions. Role checks
// happen upstream in middleware; methods here assume an authorized caller.
type ReviewService struct {
	repo  repository.SubmissionRepository
	store storage.ObjectStore
	log   *logger.Logger
}

func NewReviewService(repo repository.SubmissionRepository, store storage.ObjectStore, log *logger.Logger) *ReviewService {
	return &ReviewService{repo: repo, store: store, log: log}
}

func (s *ReviewService) List(ctx context.Context, filter repository.Filter, sort *repository.Sort, page, limit int) ([]submission.Submission, int64, error) {
	return s.repo.ListPage(ctx, filter, sort, page, limit)
}

func (s *ReviewService) GetByID(ctx context.Context, id string) (submission.Submission, error) {
	return s.repo.GetByID(ctx, id)
}

// SetStatus updates review status and/or admin notes. Last writer wins; the
// record has no concurrency token.
func (s *ReviewService) SetStatus(ctx context.Context, id string, status *string, notes *string) error {
	if status == nil && notes == nil {
		return fmt.Errorf("%w: nothing to update", legacy_errors.ErrInvalidInput)
	}
	if status != nil && !submission.ValidReviewStatus(*status) {
		return fmt.Errorf("%w: unknown review status %q", legacy_errors.ErrInvalidInput, *status)
	}
	return s.repo.UpdateReview(ctx, id, repository.ReviewPatch{
		ReviewStatus: status,
		AdminNotes:   notes,
	})
}

// Delete removes the record and then its media objects. The media delete is
// best-effort and detached from the request context, so an admin delete
// always cascades even if the client goes away.
func (s *ReviewService) Delete(ctx context.Context, id string) error {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	var paths []string
	if record.HasAudio() {
		paths = append(paths, *record.AudioPath)
	}
	if record.HasVideo() {
		paths = append(paths, *record.VideoPath)
	}
	if len(paths) > 0 {
		delCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := s.store.Delete(delCtx, paths); err != nil {
			s.log.Errorf("cascade delete of media for %s failed: %v", id, err)
		}
	}
	return nil
}

// SignedURLs mints time-limited access links for a set of media paths.
// Per-path failures are reported alongside the successes rather than failing
// the whole batch.
func (s *ReviewService) SignedURLs(ctx context.Context, paths []string, ttl time.Duration) (map[string]string, map[string]string) {
	urls := make(map[string]string)
	failures := make(map[string]string)
	for _, path := range paths {
		url, err := s.store.SignedURL(ctx, path, ttl)
		if err != nil {
			failures[path] = err.Error()
			continue
		}
		urls[path] = url
	}
	return urls, failures
}
