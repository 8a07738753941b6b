package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"time"

	"legacybook/internal/domain/submission"
	"legacybook/internal/repository"
	"legacybook/internal/storage"
	legacy_errors "legacybook/pkg/errors"
	"legacybook/pkg/logger"
)

// csvHeader is the fixed column order of submissions.csv. The two link
// columns carry signed URLs so the archive stays small for large exports.
var csvHeader = []string{
	"ID", "Created At", "Full Name", "Institution", "Batch Year", "Roll Number",
	"Date of Birth", "Email", "Phone", "Message Text", "Top Tag", "Tags",
	"Review Status", "Admin Notes", "Rejected", "Has Audio", "Has Video",
	"Audio Link", "Video Link",
}

// ExportService packages submissions into ZIP archives. Bulk exports link to
// media through signed URLs; single exports embed the raw bytes.
type ExportService struct {
	repo    repository.SubmissionRepository
	store   storage.ObjectStore
	linkTTL time.Duration
	log     *logger.Logger
}

func NewExportService(repo repository.SubmissionRepository, store storage.ObjectStore, linkTTL time.Duration, log *logger.Logger) *ExportService {
	if linkTTL <= 0 {
		linkTTL = time.Hour
	}
	return &ExportService{repo: repo, store: store, linkTTL: linkTTL, log: log}
}

// ExportBulk builds an archive of every matching submission: submissions.csv
// plus a per-record folder holding the message text. Returns ErrNotFound
// when no records match. An explicit id set overrides any other filter.
func (s *ExportService) ExportBulk(ctx context.Context, filter repository.Filter) (string, []byte, error) {
	if len(filter.IDs) > 0 {
		filter = repository.Filter{IDs: filter.IDs}
	}
	records, err := s.repo.List(ctx, filter, nil)
	if err != nil {
		return "", nil, err
	}
	if len(records) == 0 {
		return "", nil, legacy_errors.ErrNotFound
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	csvFile, err := zw.Create("submissions.csv")
	if err != nil {
		return "", nil, err
	}
	cw := csv.NewWriter(csvFile)
	if err := cw.Write(csvHeader); err != nil {
		return "", nil, err
	}
	for _, rec := range records {
		if err := cw.Write(s.csvRow(ctx, rec)); err != nil {
			return "", nil, err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", nil, err
	}

	for _, rec := range records {
		if rec.MessageText == "" {
			continue
		}
		f, err := zw.Create(fmt.Sprintf("submission-%s/message.txt", rec.ID))
		if err != nil {
			return "", nil, err
		}
		if _, err := f.Write([]byte(rec.MessageText)); err != nil {
			return "", nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return "", nil, err
	}

	name := fmt.Sprintf("alumni-submissions-%s.zip", time.Now().UTC().Format("2006-01-02"))
	return name, buf.Bytes(), nil
}

// ExportSingle builds one record's package: metadata JSON, message text, and
// the raw media bytes. Media download failures are recorded inside the
// archive instead of failing the export.
func (s *ExportService) ExportSingle(ctx context.Context, id string) (string, []byte, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	meta := map[string]interface{}{
		"id":           rec.ID,
		"fullName":     rec.FullName,
		"rollNumber":   rec.RollNumber,
		"institution":  rec.Institution,
		"batchYear":    rec.BatchYear,
		"email":        rec.Email,
		"phone":        rec.Phone,
		"message":      rec.MessageText,
		"submittedAt":  rec.CreatedAt,
		"reviewStatus": rec.ReviewStatus,
		"tags":         []string(rec.Tags),
		"topTag":       rec.TopTag,
		"tagScores":    rec.TagScores.Data(),
		"adminNotes":   rec.AdminNotes,
		"audioPath":    rec.AudioPath,
		"videoPath":    rec.VideoPath,
	}
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", nil, err
	}
	f, err := zw.Create("submission_details.json")
	if err != nil {
		return "", nil, err
	}
	if _, err := f.Write(metaBytes); err != nil {
		return "", nil, err
	}

	if rec.MessageText != "" {
		f, err := zw.Create("message.txt")
		if err != nil {
			return "", nil, err
		}
		if _, err := f.Write([]byte(rec.MessageText)); err != nil {
			return "", nil, err
		}
	}

	if rec.HasAudio() {
		s.embedMedia(ctx, zw, *rec.AudioPath)
	}
	if rec.HasVideo() {
		s.embedMedia(ctx, zw, *rec.VideoPath)
	}

	if err := zw.Close(); err != nil {
		return "", nil, err
	}

	name := fmt.Sprintf("%s_%s.zip", rec.RollNumber, sanitizeFilename(rec.FullName))
	return name, buf.Bytes(), nil
}

func (s *ExportService) embedMedia(ctx context.Context, zw *zip.Writer, objectPath string) {
	base := path.Base(objectPath)
	data, err := s.store.Download(ctx, objectPath)
	if err != nil {
		s.log.Errorf("export: download of %s failed: %v", objectPath, err)
		if f, ferr := zw.Create(fmt.Sprintf("errors/%s_error.txt", base)); ferr == nil {
			_, _ = f.Write([]byte(fmt.Sprintf("Failed to download: %s", err.Error())))
		}
		return
	}
	f, err := zw.Create("media/" + base)
	if err != nil {
		return
	}
	_, _ = f.Write(data)
}

func (s *ExportService) csvRow(ctx context.Context, rec submission.Submission) []string {
	phone := ""
	if rec.Phone != nil {
		phone = *rec.Phone
	}
	notes := ""
	if rec.AdminNotes != nil {
		notes = *rec.AdminNotes
	}

	audioLink, videoLink := "", ""
	if rec.HasAudio() {
		if url, err := s.store.SignedURL(ctx, *rec.AudioPath, s.linkTTL); err == nil {
			audioLink = url
		} else {
			s.log.Errorf("export: signing %s failed: %v", *rec.AudioPath, err)
		}
	}
	if rec.HasVideo() {
		if url, err := s.store.SignedURL(ctx, *rec.VideoPath, s.linkTTL); err == nil {
			videoLink = url
		} else {
			s.log.Errorf("export: signing %s failed: %v", *rec.VideoPath, err)
		}
	}

	return []string{
		rec.ID,
		rec.CreatedAt.UTC().Format(time.RFC3339),
		rec.FullName,
		rec.Institution,
		strconv.Itoa(rec.BatchYear),
		rec.RollNumber,
		rec.DateOfBirth,
		rec.Email,
		phone,
		rec.MessageText,
		rec.TopTag,
		joinTags(rec.Tags),
		rec.ReviewStatus,
		notes,
		yesNo(rec.Rejected),
		yesNo(rec.HasAudio()),
		yesNo(rec.HasVideo()),
		audioLink,
		videoLink,
	}
}

func joinTags(tags []string) string {
	out := ""
	for i, t := range tags {
		if i > 0 {
			out += "; "
		}
		out += t
	}
	return out
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

func sanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}
