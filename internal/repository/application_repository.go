package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ma6di/jobtrackr/internal/domain"
)

type applicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) domain.ApplicationRepository {
	return &applicationRepository{db: db}
}

const applicationColumns = `
    id, user_id, company, position, location, status,
    job_url, salary_range, notes, resume_id,
    applied_at, created_at, updated_at`

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	query := `
        INSERT INTO applications (` + applicationColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		app.ID, app.UserID, app.Company, app.Position, app.Location, app.Status,
		app.JobURL, app.SalaryRange, app.Notes, nullUUID(app.ResumeID),
		app.AppliedAt, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		log.Error().Err(err).Str("user_id", app.UserID.String()).Msg("failed to create application")
	}
	return err
}

func (r *applicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`

	app, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return app, err
}

func (r *applicationRepository) GetByUserID(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]*domain.Application, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + applicationColumns + `
        FROM applications
        WHERE user_id = $1 AND ($2 = '' OR status = $2)
        ORDER BY applied_at DESC, created_at DESC
        LIMIT $3 OFFSET $4`

	rows, err := r.db.QueryContext(ctx, query, userID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	apps := make([]*domain.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, app)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return apps, nil
}

func (r *applicationRepository) Update(ctx context.Context, app *domain.Application) error {
	query := `
        UPDATE applications
        SET company = $2, position = $3, location = $4, status = $5,
            job_url = $6, salary_range = $7, notes = $8, resume_id = $9,
            applied_at = $10, updated_at = $11
        WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		app.ID, app.Company, app.Position, app.Location, app.Status,
		app.JobURL, app.SalaryRange, app.Notes, nullUUID(app.ResumeID),
		app.AppliedAt, app.UpdatedAt,
	)
	if err != nil {
		log.Error().Err(err).Str("application_id", app.ID.String()).Msg("failed to update application")
		return err
	}

	return checkRowsAffected(result)
}

func (r *applicationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM applications WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error().Err(err).Str("application_id", id.String()).Msg("failed to delete application")
		return err
	}

	return checkRowsAffected(result)
}

func (r *applicationRepository) CountByStatus(ctx context.Context, userID uuid.UUID) ([]*domain.StatusCount, error) {
	query := `
        SELECT status, COUNT(*)
        FROM applications
        WHERE user_id = $1
        GROUP BY status
        ORDER BY status`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]*domain.StatusCount, 0)
	for rows.Next() {
		sc := &domain.StatusCount{}
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, sc)
	}

	return counts, rows.Err()
}

func (r *applicationRepository) CreateEvent(ctx context.Context, event *domain.ApplicationEvent) error {
	query := `
        INSERT INTO application_events (id, application_id, event_type, details, created_at)
        VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.ApplicationID, event.EventType, event.Details, event.CreatedAt)
	return err
}

func (r *applicationRepository) GetEvents(ctx context.Context, applicationID uuid.UUID) ([]*domain.ApplicationEvent, error) {
	query := `
        SELECT id, application_id, event_type, details, created_at
        FROM application_events
        WHERE application_id = $1
        ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.ApplicationEvent, 0)
	for rows.Next() {
		event := &domain.ApplicationEvent{}
		err := rows.Scan(&event.ID, &event.ApplicationID, &event.EventType, &event.Details, &event.CreatedAt)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*domain.Application, error) {
	app := &domain.Application{}
	var resumeID uuid.NullUUID

	err := row.Scan(
		&app.ID, &app.UserID, &app.Company, &app.Position, &app.Location, &app.Status,
		&app.JobURL, &app.SalaryRange, &app.Notes, &resumeID,
		&app.AppliedAt, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if resumeID.Valid {
		app.ResumeID = &resumeID.UUID
	}
	return app, nil
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func checkRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
