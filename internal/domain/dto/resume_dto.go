package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ma6di/jobtrackr/internal/domain"
)

type ResumeUpdateRequest struct {
	Title string `json:"title" binding:"required,min=1,max=200"`
}

// ResumeResponse is the API shape for resume metadata. The object key and
// extracted text stay server-side.
type ResumeResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	FileName    string    `json:"file_name"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewResumeResponse(r *domain.Resume) *ResumeResponse {
	return &ResumeResponse{
		ID:          r.ID,
		Title:       r.Title,
		FileName:    r.FileName,
		FileSize:    r.FileSize,
		ContentType: r.ContentType,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func NewResumeResponseList(resumes []*domain.Resume) []*ResumeResponse {
	out := make([]*ResumeResponse, 0, len(resumes))
	for _, r := range resumes {
		out = append(out, NewResumeResponse(r))
	}
	return out
}

// DownloadResponse carries a short-lived presigned URL for fetching the file.
type DownloadResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
