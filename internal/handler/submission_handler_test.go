package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"legacybook/internal/domain/submission"
	"legacybook/internal/repository"
	"legacybook/internal/services"
	legacy_errors "legacybook/pkg/errors"
	"legacybook/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	objects map[string][]byte
}

func newStubStore() *stubStore {
	return &stubStore{objects: map[string][]byte{}}
}

func (s *stubStore) Upload(_ context.Context, path string, data []byte, _ string) (string, error) {
	if _, ok := s.objects[path]; ok {
		return "", legacy_errors.ErrAlreadyExists
	}
	s.objects[path] = data
	return path, nil
}

func (s *stubStore) Download(_ context.Context, path string) ([]byte, error) {
	data, ok := s.objects[path]
	if !ok {
		return nil, legacy_errors.ErrNotFound
	}
	return data, nil
}

func (s *stubStore) Delete(_ context.Context, paths []string) error {
	for _, p := range paths {
		delete(s.objects, p)
	}
	return nil
}

func (s *stubStore) SignedURL(_ context.Context, path string, _ time.Duration) (string, error) {
	if _, ok := s.objects[path]; !ok {
		return "", legacy_errors.ErrNotFound
	}
	return "https://signed.example/" + path, nil
}

type stubRepo struct {
	records map[string]submission.Submission
}

func newStubRepo() *stubRepo {
	return &stubRepo{records: map[string]submission.Submission{}}
}

func (r *stubRepo) Insert(_ context.Context, s *submission.Submission) error {
	if _, ok := r.records[s.ID]; ok {
		return legacy_errors.ErrConflict
	}
	r.records[s.ID] = *s
	return nil
}

func (r *stubRepo) GetByID(_ context.Context, id string) (submission.Submission, error) {
	rec, ok := r.records[id]
	if !ok {
		return submission.Submission{}, legacy_errors.ErrNotFound
	}
	return rec, nil
}

func (r *stubRepo) UpdateReview(_ context.Context, id string, patch repository.ReviewPatch) error {
	rec, ok := r.records[id]
	if !ok {
		return legacy_errors.ErrNotFound
	}
	if patch.ReviewStatus != nil {
		rec.ReviewStatus = *patch.ReviewStatus
	}
	if patch.AdminNotes != nil {
		rec.AdminNotes = patch.AdminNotes
	}
	r.records[id] = rec
	return nil
}

func (r *stubRepo) List(_ context.Context, _ repository.Filter, _ *repository.Sort) ([]submission.Submission, error) {
	out := make([]submission.Submission, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out, nil
}

func (r *stubRepo) ListPage(ctx context.Context, filter repository.Filter, sort *repository.Sort, _, _ int) ([]submission.Submission, int64, error) {
	all, err := r.List(ctx, filter, sort)
	return all, int64(len(all)), err
}

func (r *stubRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.records[id]; !ok {
		return legacy_errors.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func newIntakeRouter(repo *stubRepo, store *stubStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := services.NewIntakeService(repo, store, nil, logger.NewNop(), 25<<20, 200<<20)
	h := NewSubmissionHandler(svc)
	r := gin.New()
	r.POST("/v1/submissions", h.Create)
	return r
}

func multipartSubmission(t *testing.T, id string, form map[string]any, message string, withAudio bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("submissionId", id))
	formJSON, err := json.Marshal(form)
	require.NoError(t, err)
	require.NoError(t, w.WriteField("formData", string(formJSON)))
	require.NoError(t, w.WriteField("messageText", message))
	if withAudio {
		part, err := w.CreateFormFile("audioFile", "memory.webm")
		require.NoError(t, err)
		_, err = part.Write([]byte("opus-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func validFormFields() map[string]any {
	return map[string]any{
		"fullName":     "Meera Thomas",
		"institution":  "SJPUC",
		"batchYear":    2008,
		"rollNumber":   "SJPUC-77",
		"dateOfBirth":  "1990-04-12",
		"email":        "meera@example.com",
		"consentGiven": true,
	}
}

func TestCreateSubmissionAccepted(t *testing.T) {
	repo := newStubRepo()
	store := newStubStore()
	router := newIntakeRouter(repo, store)

	body, contentType := multipartSubmission(t, "sub-100", validFormFields(),
		"Those golden days with my best friends and teachers in the school bus", true)
	req := httptest.NewRequest(http.MethodPost, "/v1/submissions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Status       string   `json:"status"`
		SubmissionID string   `json:"submissionId"`
		Tags         []string `json:"tags"`
		TopTag       string   `json:"topTag"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "accepted", resp.Status)
	assert.Equal(t, "sub-100", resp.SubmissionID)
	assert.NotEmpty(t, resp.Tags)
	assert.Contains(t, resp.Tags, resp.TopTag)

	stored, err := repo.GetByID(context.Background(), "sub-100")
	require.NoError(t, err)
	assert.Equal(t, submission.StatusPending, stored.ReviewStatus)
	require.NotNil(t, stored.AudioPath)
	assert.Contains(t, store.objects, *stored.AudioPath)
}

func TestCreateSubmissionMissingConsent(t *testing.T) {
	repo := newStubRepo()
	store := newStubStore()
	router := newIntakeRouter(repo, store)

	form := validFormFields()
	form["consentGiven"] = false
	body, contentType := multipartSubmission(t, "sub-101", form, "hello", false)
	req := httptest.NewRequest(http.MethodPost, "/v1/submissions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.records)
	assert.Empty(t, store.objects)
}

func TestCreateSubmissionMissingID(t *testing.T) {
	router := newIntakeRouter(newStubRepo(), newStubStore())

	body, contentType := multipartSubmission(t, "", validFormFields(), "hello", false)
	req := httptest.NewRequest(http.MethodPost, "/v1/submissions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSubmissionMalformedForm(t *testing.T) {
	router := newIntakeRouter(newStubRepo(), newStubStore())

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("submissionId", "sub-102"))
	require.NoError(t, w.WriteField("formData", "{not json"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/submissions", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateSubmissionDuplicate(t *testing.T) {
	repo := newStubRepo()
	store := newStubStore()
	router := newIntakeRouter(repo, store)

	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		body, contentType := multipartSubmission(t, "sub-103", validFormFields(), "sports day on the field", false)
		req := httptest.NewRequest(http.MethodPost, "/v1/submissions", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equalf(t, want, rec.Code, "attempt %d: %s", i, rec.Body.String())
	}
}
