package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ma6di/jobtrackr/internal/domain"
	"github.com/ma6di/jobtrackr/internal/storage"
)

// DownloadURLExpiry is how long presigned resume download links stay valid.
const DownloadURLExpiry = 15 * time.Minute

// Accepted upload types, mapped to the canonical file extension used in
// object keys.
var allowedContentTypes = map[string]string{
	"application/pdf": ".pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
	"text/plain": ".txt",
}

type ResumeService interface {
	UploadResume(ctx context.Context, userID uuid.UUID, title, fileName, contentType string, size int64, file io.Reader) (*domain.Resume, error)
	GetUserResumes(ctx context.Context, userID uuid.UUID) ([]*domain.Resume, error)
	GetResumeByID(ctx context.Context, resumeID, userID uuid.UUID) (*domain.Resume, error)
	RenameResume(ctx context.Context, resumeID, userID uuid.UUID, title string) (*domain.Resume, error)
	DeleteResume(ctx context.Context, resumeID, userID uuid.UUID) error
	GetDownloadURL(ctx context.Context, resumeID, userID uuid.UUID) (string, time.Time, error)
}

type resumeService struct {
	resumeRepo     domain.ResumeRepository
	store          storage.ObjectStore
	maxUploadBytes int64
}

func NewResumeService(resumeRepo domain.ResumeRepository, store storage.ObjectStore, maxUploadBytes int64) ResumeService {
	return &resumeService{
		resumeRepo:     resumeRepo,
		store:          store,
		maxUploadBytes: maxUploadBytes,
	}
}

func (s *resumeService) UploadResume(ctx context.Context, userID uuid.UUID, title, fileName, contentType string, size int64, file io.Reader) (*domain.Resume, error) {
	ext, ok := allowedContentTypes[normalizeContentType(contentType)]
	if !ok {
		return nil, domain.NewValidationError("file",
			"unsupported file type: only PDF, DOCX and plain text are accepted",
			domain.ErrInvalidField)
	}

	if size <= 0 {
		return nil, domain.NewValidationError("file", "file is empty", domain.ErrRequired)
	}
	if size > s.maxUploadBytes {
		return nil, domain.NewValidationError("file",
			fmt.Sprintf("file exceeds the %d byte limit", s.maxUploadBytes),
			domain.ErrMaxLength)
	}

	// The extension claimed by the file name must match the declared type.
	if nameExt := strings.ToLower(filepath.Ext(fileName)); nameExt != "" && nameExt != ext {
		return nil, domain.NewValidationError("file",
			fmt.Sprintf("file extension %q does not match content type %q", nameExt, contentType),
			domain.ErrInvalidField)
	}

	// Size is capped above, so buffering the whole file is fine. The buffer
	// feeds both text extraction and the S3 upload.
	data, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxUploadBytes {
		return nil, domain.NewValidationError("file",
			fmt.Sprintf("file exceeds the %d byte limit", s.maxUploadBytes),
			domain.ErrMaxLength)
	}

	resume := &domain.Resume{
		UserID:      userID,
		Title:       title,
		FileName:    fileName,
		FileSize:    int64(len(data)),
		ContentType: normalizeContentType(contentType),
	}
	resume.BeforeSave()
	resume.ObjectKey = fmt.Sprintf("resumes/%s/%s%s", userID, resume.ID, ext)

	if err := resume.Validate(); err != nil {
		return nil, err
	}

	text, err := extractResumeText(resume.ContentType, data)
	if err != nil {
		// Extraction feeds search only; a scanned PDF without a text layer
		// should still upload fine.
		log.Warn().Err(err).Str("resume_id", resume.ID.String()).Msg("resume text extraction failed")
	}
	resume.ExtractedText = text

	if err := s.store.Put(ctx, resume.ObjectKey, resume.ContentType, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to store resume file: %w", err)
	}

	if err := s.resumeRepo.Create(ctx, resume); err != nil {
		// Roll the object back so storage does not accumulate orphans.
		if delErr := s.store.Delete(ctx, resume.ObjectKey); delErr != nil {
			log.Error().Err(delErr).Str("object_key", resume.ObjectKey).Msg("failed to clean up object after db error")
		}
		return nil, fmt.Errorf("failed to save resume metadata: %w", err)
	}

	return resume, nil
}

func (s *resumeService) GetUserResumes(ctx context.Context, userID uuid.UUID) ([]*domain.Resume, error) {
	resumes, err := s.resumeRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get resumes: %w", err)
	}
	return resumes, nil
}

func (s *resumeService) GetResumeByID(ctx context.Context, resumeID, userID uuid.UUID) (*domain.Resume, error) {
	resume, err := s.resumeRepo.GetByID(ctx, resumeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	if resume == nil || resume.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return resume, nil
}

func (s *resumeService) RenameResume(ctx context.Context, resumeID, userID uuid.UUID, title string) (*domain.Resume, error) {
	resume, err := s.GetResumeByID(ctx, resumeID, userID)
	if err != nil {
		return nil, err
	}

	resume.Title = title
	resume.BeforeSave()
	if err := resume.Validate(); err != nil {
		return nil, err
	}

	if err := s.resumeRepo.Update(ctx, resume); err != nil {
		return nil, fmt.Errorf("failed to rename resume: %w", err)
	}

	return resume, nil
}

func (s *resumeService) DeleteResume(ctx context.Context, resumeID, userID uuid.UUID) error {
	resume, err := s.GetResumeByID(ctx, resumeID, userID)
	if err != nil {
		return err
	}

	// The metadata row is the source of truth; delete it first. A failed
	// object delete leaves an orphan in the bucket, which is logged.
	if err := s.resumeRepo.Delete(ctx, resumeID); err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}

	if err := s.store.Delete(ctx, resume.ObjectKey); err != nil {
		log.Error().Err(err).Str("object_key", resume.ObjectKey).Msg("failed to delete resume object")
	}

	return nil
}

func (s *resumeService) GetDownloadURL(ctx context.Context, resumeID, userID uuid.UUID) (string, time.Time, error) {
	resume, err := s.GetResumeByID(ctx, resumeID, userID)
	if err != nil {
		return "", time.Time{}, err
	}

	url, err := s.store.PresignGet(ctx, resume.ObjectKey, DownloadURLExpiry)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to presign download: %w", err)
	}

	return url, time.Now().Add(DownloadURLExpiry), nil
}

func normalizeContentType(contentType string) string {
	// Strip parameters such as "; charset=utf-8".
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
