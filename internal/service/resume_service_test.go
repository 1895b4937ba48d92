package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ma6di/jobtrackr/internal/domain"
)

const testMaxUploadBytes = 1 << 20

func newTestResumeService() (ResumeService, *fakeResumeRepo, *fakeObjectStore) {
	resumeRepo := newFakeResumeRepo()
	store := newFakeObjectStore()
	return NewResumeService(resumeRepo, store, testMaxUploadBytes), resumeRepo, store
}

func TestUploadResumeStoresObjectAndMetadata(t *testing.T) {
	svc, resumeRepo, store := newTestResumeService()
	ctx := context.Background()
	userID := uuid.New()

	body := "Jane Doe. Backend engineer, 7 years of Go."
	resume, err := svc.UploadResume(ctx, userID, "Senior CV", "cv.txt", "text/plain", int64(len(body)), strings.NewReader(body))
	require.NoError(t, err)

	assert.Equal(t, userID, resume.UserID)
	assert.Equal(t, "Senior CV", resume.Title)
	assert.Equal(t, int64(len(body)), resume.FileSize)
	assert.Equal(t, body, resume.ExtractedText)

	expectedKey := fmt.Sprintf("resumes/%s/%s.txt", userID, resume.ID)
	assert.Equal(t, expectedKey, resume.ObjectKey)
	assert.Equal(t, []byte(body), store.objects[expectedKey])

	stored, err := resumeRepo.GetByID(ctx, resume.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestUploadResumeNormalizesContentType(t *testing.T) {
	svc, _, _ := newTestResumeService()

	resume, err := svc.UploadResume(context.Background(), uuid.New(), "CV", "cv.txt",
		"text/plain; charset=utf-8", 4, strings.NewReader("test"))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", resume.ContentType)
}

func TestUploadResumeRejectsUnsupportedType(t *testing.T) {
	svc, _, _ := newTestResumeService()

	_, err := svc.UploadResume(context.Background(), uuid.New(), "CV", "cv.zip",
		"application/zip", 10, strings.NewReader("0123456789"))
	require.Error(t, err)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "file", vErr.Field)
}

func TestUploadResumeRejectsOversizedFile(t *testing.T) {
	svc, _, _ := newTestResumeService()

	_, err := svc.UploadResume(context.Background(), uuid.New(), "CV", "cv.txt",
		"text/plain", testMaxUploadBytes+1, strings.NewReader("x"))
	require.Error(t, err)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, domain.ErrMaxLength, vErr.Type)
}

func TestUploadResumeRejectsUnderdeclaredSize(t *testing.T) {
	svc, _, _ := newTestResumeService()

	// The declared size fits but the actual stream is larger than the limit.
	body := strings.Repeat("x", testMaxUploadBytes+10)
	_, err := svc.UploadResume(context.Background(), uuid.New(), "CV", "cv.txt",
		"text/plain", 100, strings.NewReader(body))
	require.Error(t, err)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, domain.ErrMaxLength, vErr.Type)
}

func TestUploadResumeRejectsEmptyFile(t *testing.T) {
	svc, _, _ := newTestResumeService()

	_, err := svc.UploadResume(context.Background(), uuid.New(), "CV", "cv.txt",
		"text/plain", 0, strings.NewReader(""))
	require.Error(t, err)
}

func TestUploadResumeRejectsExtensionMismatch(t *testing.T) {
	svc, _, _ := newTestResumeService()

	_, err := svc.UploadResume(context.Background(), uuid.New(), "CV", "cv.docx",
		"application/pdf", 4, strings.NewReader("test"))
	require.Error(t, err)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "file", vErr.Field)
}

func TestUploadResumeRollsBackObjectOnDBError(t *testing.T) {
	svc, resumeRepo, store := newTestResumeService()
	resumeRepo.createErr = errors.New("db down")

	_, err := svc.UploadResume(context.Background(), uuid.New(), "CV", "cv.txt",
		"text/plain", 4, strings.NewReader("test"))
	require.Error(t, err)

	assert.Empty(t, store.objects)
}

func TestUploadResumeSucceedsWhenExtractionFails(t *testing.T) {
	svc, resumeRepo, store := newTestResumeService()
	ctx := context.Background()
	userID := uuid.New()

	// Declared as PDF but the bytes are not parseable; a scanned or corrupt
	// file must still upload, just without extracted text.
	body := "definitely not a pdf"
	resume, err := svc.UploadResume(ctx, userID, "CV", "cv.pdf", "application/pdf", int64(len(body)), strings.NewReader(body))
	require.NoError(t, err)

	assert.Empty(t, resume.ExtractedText)
	assert.Contains(t, store.objects, resume.ObjectKey)

	stored, err := resumeRepo.GetByID(ctx, resume.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Empty(t, stored.ExtractedText)
}

func TestGetResumeByIDHidesForeignRecords(t *testing.T) {
	svc, _, _ := newTestResumeService()
	ctx := context.Background()
	owner := uuid.New()

	resume, err := svc.UploadResume(ctx, owner, "CV", "cv.txt", "text/plain", 4, strings.NewReader("test"))
	require.NoError(t, err)

	_, err = svc.GetResumeByID(ctx, resume.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := svc.GetResumeByID(ctx, resume.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, resume.ID, got.ID)
}

func TestRenameResume(t *testing.T) {
	svc, _, _ := newTestResumeService()
	ctx := context.Background()
	userID := uuid.New()

	resume, err := svc.UploadResume(ctx, userID, "CV", "cv.txt", "text/plain", 4, strings.NewReader("test"))
	require.NoError(t, err)

	renamed, err := svc.RenameResume(ctx, resume.ID, userID, "Backend CV 2026")
	require.NoError(t, err)
	assert.Equal(t, "Backend CV 2026", renamed.Title)

	_, err = svc.RenameResume(ctx, resume.ID, userID, "")
	assert.Error(t, err)
}

func TestDeleteResumeRemovesObjectAndRow(t *testing.T) {
	svc, resumeRepo, store := newTestResumeService()
	ctx := context.Background()
	userID := uuid.New()

	resume, err := svc.UploadResume(ctx, userID, "CV", "cv.txt", "text/plain", 4, strings.NewReader("test"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteResume(ctx, resume.ID, userID))
	assert.Empty(t, resumeRepo.resumes)
	assert.Empty(t, store.objects)
}

func TestGetDownloadURL(t *testing.T) {
	svc, _, _ := newTestResumeService()
	ctx := context.Background()
	userID := uuid.New()

	resume, err := svc.UploadResume(ctx, userID, "CV", "cv.txt", "text/plain", 4, strings.NewReader("test"))
	require.NoError(t, err)

	url, expiresAt, err := svc.GetDownloadURL(ctx, resume.ID, userID)
	require.NoError(t, err)
	assert.Contains(t, url, resume.ObjectKey)
	assert.WithinDuration(t, time.Now().Add(DownloadURLExpiry), expiresAt, 5*time.Second)

	_, _, err = svc.GetDownloadURL(ctx, resume.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNormalizeContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", normalizeContentType("Application/PDF"))
	assert.Equal(t, "text/plain", normalizeContentType("text/plain; charset=utf-8"))
	assert.Equal(t, "text/plain", normalizeContentType("  text/plain  "))
}
