package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ma6di/jobtrackr/internal/domain"
)

type resumeRepository struct {
	db *sql.DB
}

func NewResumeRepository(db *sql.DB) domain.ResumeRepository {
	return &resumeRepository{db: db}
}

func (r *resumeRepository) Create(ctx context.Context, resume *domain.Resume) error {
	query := `
        INSERT INTO resumes (id, user_id, title, file_name, object_key, file_size,
                             content_type, extracted_text, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		resume.ID, resume.UserID, resume.Title, resume.FileName, resume.ObjectKey,
		resume.FileSize, resume.ContentType, resume.ExtractedText,
		resume.CreatedAt, resume.UpdatedAt,
	)
	return err
}

func (r *resumeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Resume, error) {
	resume := &domain.Resume{}
	query := `
        SELECT id, user_id, title, file_name, object_key, file_size,
               content_type, extracted_text, created_at, updated_at
        FROM resumes WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&resume.ID, &resume.UserID, &resume.Title, &resume.FileName, &resume.ObjectKey,
		&resume.FileSize, &resume.ContentType, &resume.ExtractedText,
		&resume.CreatedAt, &resume.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return resume, err
}

func (r *resumeRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Resume, error) {
	query := `
        SELECT id, user_id, title, file_name, object_key, file_size,
               content_type, extracted_text, created_at, updated_at
        FROM resumes
        WHERE user_id = $1
        ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query resumes: %w", err)
	}
	defer rows.Close()

	resumes := make([]*domain.Resume, 0)
	for rows.Next() {
		resume := &domain.Resume{}
		err := rows.Scan(
			&resume.ID, &resume.UserID, &resume.Title, &resume.FileName, &resume.ObjectKey,
			&resume.FileSize, &resume.ContentType, &resume.ExtractedText,
			&resume.CreatedAt, &resume.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, resume)
	}

	return resumes, rows.Err()
}

func (r *resumeRepository) Update(ctx context.Context, resume *domain.Resume) error {
	query := `
        UPDATE resumes
        SET title = $2, updated_at = $3
        WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, resume.ID, resume.Title, resume.UpdatedAt)
	if err != nil {
		return err
	}

	return checkRowsAffected(result)
}

func (r *resumeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM resumes WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return checkRowsAffected(result)
}
