package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legacybook/internal/domain/submission"
	"legacybook/internal/repository"
	legacy_errors "legacybook/pkg/errors"
	"legacybook/pkg/logger"
)

func seedSubmission(t *testing.T, repo *memSubmissionRepo, store *memObjectStore, id string, withMedia bool) submission.Submission {
	t.Helper()
	rec := submission.Submission{
		ID:           id,
		FullName:     "Meera Thomas",
		Institution:  submission.InstitutionSJPUC,
		BatchYear:    2012,
		RollNumber:   "SJPUC-77",
		DateOfBirth:  "1994-08-02",
		Email:        "meera@example.com",
		MessageText:  "annual day performance",
		ConsentGiven: true,
		TopTag:       "cultural_events",
		ReviewStatus: submission.StatusPending,
	}
	if withMedia {
		audio := "audio/" + id + ".webm"
		video := "videos/" + id + ".mp4"
		_, err := store.Upload(context.Background(), audio, []byte("a"), "audio/webm")
		require.NoError(t, err)
		_, err = store.Upload(context.Background(), video, []byte("v"), "video/mp4")
		require.NoError(t, err)
		rec.AudioPath = &audio
		rec.VideoPath = &video
	}
	require.NoError(t, repo.Insert(context.Background(), &rec))
	return rec
}

func TestSetStatusUpdatesStatusAndNotes(t *testing.T) {
	repo := newMemSubmissionRepo()
	store := newMemObjectStore()
	svc := NewReviewService(repo, store, logger.NewNop())
	seedSubmission(t, repo, store, "rev-1", false)

	status := submission.StatusApproved
	notes := "lovely memory"
	require.NoError(t, svc.SetStatus(context.Background(), "rev-1", &status, &notes))

	rec, err := repo.GetByID(context.Background(), "rev-1")
	require.NoError(t, err)
	assert.Equal(t, submission.StatusApproved, rec.ReviewStatus)
	require.NotNil(t, rec.AdminNotes)
	assert.Equal(t, "lovely memory", *rec.AdminNotes)
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	svc := NewReviewService(newMemSubmissionRepo(), newMemObjectStore(), logger.NewNop())

	bad := "archived"
	err := svc.SetStatus(context.Background(), "rev-1", &bad, nil)
	assert.ErrorIs(t, err, legacy_errors.ErrInvalidInput)
}

func TestSetStatusRequiresSomething(t *testing.T) {
	svc := NewReviewService(newMemSubmissionRepo(), newMemObjectStore(), logger.NewNop())

	err := svc.SetStatus(context.Background(), "rev-1", nil, nil)
	assert.ErrorIs(t, err, legacy_errors.ErrInvalidInput)
}

func TestSetStatusMissingRecord(t *testing.T) {
	svc := NewReviewService(newMemSubmissionRepo(), newMemObjectStore(), logger.NewNop())

	status := submission.StatusApproved
	err := svc.SetStatus(context.Background(), "ghost", &status, nil)
	assert.ErrorIs(t, err, legacy_errors.ErrNotFound)
}

func TestDeleteCascadesMedia(t *testing.T) {
	repo := newMemSubmissionRepo()
	store := newMemObjectStore()
	svc := NewReviewService(repo, store, logger.NewNop())
	seedSubmission(t, repo, store, "rev-2", true)

	require.NoError(t, svc.Delete(context.Background(), "rev-2"))

	_, err := repo.GetByID(context.Background(), "rev-2")
	assert.ErrorIs(t, err, legacy_errors.ErrNotFound)
	assert.Empty(t, store.paths(), "record deletion removes associated media")
}

func TestDeleteMissingRecord(t *testing.T) {
	svc := NewReviewService(newMemSubmissionRepo(), newMemObjectStore(), logger.NewNop())

	err := svc.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, legacy_errors.ErrNotFound)
}

func TestListFiltersAndPaginates(t *testing.T) {
	repo := newMemSubmissionRepo()
	store := newMemObjectStore()
	svc := NewReviewService(repo, store, logger.NewNop())
	seedSubmission(t, repo, store, "rev-3", false)
	seedSubmission(t, repo, store, "rev-4", false)

	items, total, err := svc.List(context.Background(), repository.Filter{Institution: submission.InstitutionSJPUC}, nil, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, items, 1)
}

func TestSignedURLsPartialFailure(t *testing.T) {
	repo := newMemSubmissionRepo()
	store := newMemObjectStore()
	svc := NewReviewService(repo, store, logger.NewNop())
	rec := seedSubmission(t, repo, store, "rev-5", true)

	urls, failures := svc.SignedURLs(context.Background(), []string{*rec.AudioPath, "audio/ghost.webm"}, 10*time.Minute)

	assert.Len(t, urls, 1)
	assert.Contains(t, urls, *rec.AudioPath)
	assert.Len(t, failures, 1)
	assert.Contains(t, failures, "audio/ghost.webm")
}
