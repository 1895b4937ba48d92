package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Resume is an uploaded document: metadata in Postgres, the file itself in
// object storage under ObjectKey. ExtractedText holds the plain-text body
// pulled out of PDF/DOCX uploads; empty when extraction failed.
type Resume struct {
	ID            uuid.UUID `json:"id" db:"id"`
	UserID        uuid.UUID `json:"user_id" db:"user_id" validate:"required"`
	Title         string    `json:"title" db:"title" validate:"required,min=1,max=200"`
	FileName      string    `json:"file_name" db:"file_name" validate:"required,max=255"`
	ObjectKey     string    `json:"-" db:"object_key"`
	FileSize      int64     `json:"file_size" db:"file_size"`
	ContentType   string    `json:"content_type" db:"content_type"`
	ExtractedText string    `json:"-" db:"extracted_text"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

func (r *Resume) BeforeSave() {
	r.Title = strings.TrimSpace(r.Title)
	r.FileName = strings.TrimSpace(r.FileName)

	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
}

func (r *Resume) Validate() error {
	return ValidateStruct(r)
}
