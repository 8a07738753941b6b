package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legacybook/internal/domain/submission"
	"legacybook/internal/repository"
	legacy_errors "legacybook/pkg/errors"
	"legacybook/pkg/logger"
)

func openZip(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	files := make(map[string][]byte)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		files[f.Name] = content
	}
	return files
}

func TestExportBulkFiltersByInstitution(t *testing.T) {
	repo := newMemSubmissionRepo()
	store := newMemObjectStore()
	svc := NewExportService(repo, store, time.Hour, logger.NewNop())

	sjit := seedSubmission(t, repo, store, "exp-1", true)
	sjit.Institution = submission.InstitutionSJIT
	repo.records["exp-1"] = sjit
	seedSubmission(t, repo, store, "exp-2", false)

	name, data, err := svc.ExportBulk(context.Background(), repository.Filter{Institution: submission.InstitutionSJIT})
	require.NoError(t, err)
	assert.Contains(t, name, "alumni-submissions-")

	files := openZip(t, data)
	require.Contains(t, files, "submissions.csv")

	rows, err := csv.NewReader(bytes.NewReader(files["submissions.csv"])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus the single SJIT row")
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "exp-1", rows[1][0])
	assert.Equal(t, submission.InstitutionSJIT, rows[1][3])
	assert.Equal(t, "Yes", rows[1][15], "Has Audio column")
	assert.Equal(t, "https://signed.example/audio/exp-1.webm", rows[1][17], "Audio Link column")
}

func TestExportBulkExplicitIDsOverrideFilters(t *testing.T) {
	repo := newMemSubmissionRepo()
	store := newMemObjectStore()
	svc := NewExportService(repo, store, time.Hour, logger.NewNop())

	seedSubmission(t, repo, store, "exp-6", false)
	seedSubmission(t, repo, store, "exp-7", false)

	// exp-6 is SJPUC; the contradictory institution filter must be ignored
	// once explicit ids are given.
	_, data, err := svc.ExportBulk(context.Background(), repository.Filter{
		IDs:         []string{"exp-6"},
		Institution: submission.InstitutionSJIT,
	})
	require.NoError(t, err)

	files := openZip(t, data)
	rows, err := csv.NewReader(bytes.NewReader(files["submissions.csv"])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus the selected row")
	assert.Equal(t, "exp-6", rows[1][0])
}

func TestExportBulkIncludesMessageFiles(t *testing.T) {
	repo := newMemSubmissionRepo()
	store := newMemObjectStore()
	svc := NewExportService(repo, store, time.Hour, logger.NewNop())
	seedSubmission(t, repo, store, "exp-3", false)

	_, data, err := svc.ExportBulk(context.Background(), repository.Filter{})
	require.NoError(t, err)

	files := openZip(t, data)
	assert.Contains(t, files, "submission-exp-3/message.txt")
	assert.Equal(t, "annual day performance", string(files["submission-exp-3/message.txt"]))
}

func TestExportBulkNoMatchesIsNotFound(t *testing.T) {
	svc := NewExportService(newMemSubmissionRepo(), newMemObjectStore(), time.Hour, logger.NewNop())

	_, _, err := svc.ExportBulk(context.Background(), repository.Filter{})
	assert.ErrorIs(t, err, legacy_errors.ErrNotFound)
}

func TestExportSingleEmbedsMedia(t *testing.T) {
	repo := newMemSubmissionRepo()
	store := newMemObjectStore()
	svc := NewExportService(repo, store, time.Hour, logger.NewNop())
	seedSubmission(t, repo, store, "exp-4", true)

	name, data, err := svc.ExportSingle(context.Background(), "exp-4")
	require.NoError(t, err)
	assert.Equal(t, "SJPUC-77_Meera_Thomas.zip", name)

	files := openZip(t, data)
	require.Contains(t, files, "submission_details.json")
	assert.Contains(t, files, "message.txt")
	assert.Equal(t, []byte("a"), files["media/exp-4.webm"])
	assert.Equal(t, []byte("v"), files["media/exp-4.mp4"])

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(files["submission_details.json"], &meta))
	assert.Equal(t, "exp-4", meta["id"])
	assert.Equal(t, "Meera Thomas", meta["fullName"])
	assert.Equal(t, "cultural_events", meta["topTag"])
}

func TestExportSingleRecordsDownloadFailureInArchive(t *testing.T) {
	repo := newMemSubmissionRepo()
	store := newMemObjectStore()
	svc := NewExportService(repo, store, time.Hour, logger.NewNop())
	rec := seedSubmission(t, repo, store, "exp-5", true)

	// Drop the audio object behind the record's back.
	require.NoError(t, store.Delete(context.Background(), []string{*rec.AudioPath}))

	_, data, err := svc.ExportSingle(context.Background(), "exp-5")
	require.NoError(t, err)

	files := openZip(t, data)
	assert.Contains(t, files, "errors/exp-5.webm_error.txt")
	assert.Contains(t, files, "media/exp-5.mp4")
}

func TestExportSingleMissingRecord(t *testing.T) {
	svc := NewExportService(newMemSubmissionRepo(), newMemObjectStore(), time.Hour, logger.NewNop())

	_, _, err := svc.ExportSingle(context.Background(), "ghost")
	assert.ErrorIs(t, err, legacy_errors.ErrNotFound)
}
