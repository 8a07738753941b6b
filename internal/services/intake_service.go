package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"legacybook/internal/domain/submission"
	"legacybook/internal/repository"
	"legacybook/internal/storage"
	"legacybook/internal/tagging"
	legacy_errors "legacybook/pkg/errors"
	"legacybook/pkg/logger"

	"gorm.io/datatypes"
)

// SubmissionForm is the structured part of the intake payload, decoded from
// the multipart "formData" JSON field.
type SubmissionForm struct {
	FullName     string
	Institution  string
	BatchYear    int
	RollNumber   string
	DateOfBirth  string
	Email        string
	Phone        string
	ConsentGiven bool
}

// MediaUpload is one attached file, fully read from the multipart part.
type MediaUpload struct {
	Data        []byte
	ContentType string
}

type SubmitInput struct {
	SubmissionID string
	Form         SubmissionForm
	MessageText  string
	Audio        *MediaUpload
	Video        *MediaUpload
}

type SubmitResult struct {
	Accepted     bool
	SubmissionID string
	Reason       string
	Tagging      tagging.Result
}

type IntakeService struct {
	repo     repository.SubmissionRepository
	store    storage.ObjectStore
	gate     QualityGate
	log      *logger.Logger
	maxAudio int64
	maxVideo int64
}

func NewIntakeService(repo repository.SubmissionRepository, store storage.ObjectStore, gate QualityGate, log *logger.Logger, maxAudio, maxVideo int64) *IntakeService {
	if gate == nil {
		gate = AcceptAllGate{}
	}
	return &IntakeService{
		repo:     repo,
		store:    store,
		gate:     gate,
		log:      log,
		maxAudio: maxAudio,
		maxVideo: maxVideo,
	}
}

// Submit runs the intake pipeline: validate, classify, upload media, insert
// the record. An upload or insert failure deletes every object stored in
// this invocation before the error is returned, so a failed submission
// leaves no residue and can simply be resubmitted whole.
func (s *IntakeService) Submit(ctx context.Context, input SubmitInput) (SubmitResult, error) {
	if err := s.validate(input); err != nil {
		return SubmitResult{}, err
	}

	result := tagging.Classify(input.MessageText)
	s.log.Infof("tagged submission %s: top=%s confidence=%.3f min_score=%d review=%t",
		input.SubmissionID, result.TopTag, result.Confidence, result.MinScore, result.NeedsReview)

	if reason := s.gate.Evaluate(result); reason != "" {
		return SubmitResult{
			Accepted:     false,
			SubmissionID: input.SubmissionID,
			Reason:       reason,
			Tagging:      result,
		}, nil
	}

	var uploaded []string
	rollback := func() {
		if len(uploaded) == 0 {
			return
		}
		// Detached from the request context: a client disconnect after the
		// uploads must not orphan the objects.
		rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := s.store.Delete(rbCtx, uploaded); err != nil {
			s.log.Errorf("rollback of %d objects for %s failed: %v", len(uploaded), input.SubmissionID, err)
			return
		}
		s.log.Infof("rolled back %d uploaded objects for %s", len(uploaded), input.SubmissionID)
	}

	var audioPath, videoPath *string
	if input.Audio != nil {
		path, err := s.store.Upload(ctx, storage.AudioPath(input.SubmissionID), input.Audio.Data, "audio/webm")
		if err != nil {
			rollback()
			return SubmitResult{}, fmt.Errorf("audio upload: %w", err)
		}
		uploaded = append(uploaded, path)
		audioPath = &path
	}
	if input.Video != nil {
		path, err := s.store.Upload(ctx, storage.VideoPath(input.SubmissionID, input.Video.ContentType), input.Video.Data, input.Video.ContentType)
		if err != nil {
			rollback()
			return SubmitResult{}, fmt.Errorf("video upload: %w", err)
		}
		uploaded = append(uploaded, path)
		videoPath = &path
	}

	record := submission.Submission{
		ID:           input.SubmissionID,
		FullName:     input.Form.FullName,
		Institution:  input.Form.Institution,
		BatchYear:    input.Form.BatchYear,
		RollNumber:   input.Form.RollNumber,
		DateOfBirth:  input.Form.DateOfBirth,
		Email:        input.Form.Email,
		MessageText:  input.MessageText,
		AudioPath:    audioPath,
		VideoPath:    videoPath,
		ConsentGiven: input.Form.ConsentGiven,
		Tags:         datatypes.NewJSONSlice(result.Tags),
		TopTag:       result.TopTag,
		TagScores:    datatypes.NewJSONType(result.Scores),
		ReviewStatus: submission.StatusPending,
		Rejected:     false,
	}
	if result.NeedsReview {
		record.ReviewStatus = submission.StatusFlagged
	}
	if input.Form.Phone != "" {
		phone := input.Form.Phone
		record.Phone = &phone
	}

	if err := s.repo.Insert(ctx, &record); err != nil {
		rollback()
		return SubmitResult{}, fmt.Errorf("record insert: %w", err)
	}

	return SubmitResult{
		Accepted:     true,
		SubmissionID: input.SubmissionID,
		Tagging:      result,
	}, nil
}

func (s *IntakeService) validate(input SubmitInput) error {
	if strings.TrimSpace(input.SubmissionID) == "" {
		return fmt.Errorf("%w: submissionId is required", legacy_errors.ErrInvalidInput)
	}
	f := input.Form
	if f.FullName == "" || f.RollNumber == "" || f.DateOfBirth == "" || f.Email == "" {
		return fmt.Errorf("%w: fullName, rollNumber, dateOfBirth and email are required", legacy_errors.ErrInvalidInput)
	}
	if !submission.ValidInstitution(f.Institution) {
		return fmt.Errorf("%w: unknown institution %q", legacy_errors.ErrInvalidInput, f.Institution)
	}
	if f.BatchYear <= 0 {
		return fmt.Errorf("%w: batchYear must be a positive year", legacy_errors.ErrInvalidInput)
	}
	if !f.ConsentGiven {
		return legacy_errors.ErrConsentMissing
	}
	if input.Audio != nil && s.maxAudio > 0 && int64(len(input.Audio.Data)) > s.maxAudio {
		return fmt.Errorf("%w: audio exceeds %d bytes", legacy_errors.ErrTooLarge, s.maxAudio)
	}
	if input.Video != nil && s.maxVideo > 0 && int64(len(input.Video.Data)) > s.maxVideo {
		return fmt.Errorf("%w: video exceeds %d bytes", legacy_errors.ErrTooLarge, s.maxVideo)
	}
	return nil
}
