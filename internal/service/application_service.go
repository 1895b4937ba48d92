package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ma6di/jobtrackr/internal/domain"
	"github.com/ma6di/jobtrackr/internal/domain/dto"
)

// Pagination bounds for application listings.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type ApplicationService interface {
	CreateApplication(ctx context.Context, userID uuid.UUID, req *dto.ApplicationCreateRequest) (*domain.Application, error)
	GetUserApplications(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]*domain.Application, error)
	GetApplicationByID(ctx context.Context, applicationID, userID uuid.UUID) (*domain.Application, error)
	UpdateApplication(ctx context.Context, applicationID, userID uuid.UUID, req *dto.ApplicationUpdateRequest) (*domain.Application, error)
	DeleteApplication(ctx context.Context, applicationID, userID uuid.UUID) error
	GetApplicationEvents(ctx context.Context, applicationID, userID uuid.UUID) ([]*domain.ApplicationEvent, error)
	GetStatusCounts(ctx context.Context, userID uuid.UUID) ([]*domain.StatusCount, error)
}

type applicationService struct {
	appRepo    domain.ApplicationRepository
	resumeRepo domain.ResumeRepository
	sanitizer  *domain.SecuritySanitizer
}

func NewApplicationService(appRepo domain.ApplicationRepository, resumeRepo domain.ResumeRepository) ApplicationService {
	return &applicationService{
		appRepo:    appRepo,
		resumeRepo: resumeRepo,
		sanitizer:  domain.NewSecuritySanitizer(),
	}
}

func (s *applicationService) CreateApplication(ctx context.Context, userID uuid.UUID, req *dto.ApplicationCreateRequest) (*domain.Application, error) {
	app := req.ToApplication(userID)
	app.Notes = s.sanitizer.SanitizeString(app.Notes)

	app.BeforeSave()

	if err := app.Validate(); err != nil {
		return nil, err
	}
	if !domain.IsValidApplicationStatus(app.Status) {
		return nil, domain.NewValidationError("status",
			fmt.Sprintf("must be one of: %v", domain.ApplicationStatusKeys()),
			domain.ErrInvalidField)
	}

	if err := s.validateResumeReference(ctx, userID, app.ResumeID); err != nil {
		return nil, err
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.recordEvent(ctx, app.ID, domain.EventCreated,
		fmt.Sprintf("Application created with status %s", app.Status))

	return app, nil
}

func (s *applicationService) GetUserApplications(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]*domain.Application, error) {
	if status != "" && !domain.IsValidApplicationStatus(status) {
		return nil, domain.NewValidationError("status",
			fmt.Sprintf("must be one of: %v", domain.ApplicationStatusKeys()),
			domain.ErrInvalidField)
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	apps, err := s.appRepo.GetByUserID(ctx, userID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get applications: %w", err)
	}

	return apps, nil
}

func (s *applicationService) GetApplicationByID(ctx context.Context, applicationID, userID uuid.UUID) (*domain.Application, error) {
	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	// Another user's application looks like a missing one.
	if app == nil || app.UserID != userID {
		return nil, domain.ErrNotFound
	}

	return app, nil
}

func (s *applicationService) UpdateApplication(ctx context.Context, applicationID, userID uuid.UUID, req *dto.ApplicationUpdateRequest) (*domain.Application, error) {
	app, err := s.GetApplicationByID(ctx, applicationID, userID)
	if err != nil {
		return nil, err
	}

	previousStatus := app.Status

	req.ApplyTo(app)
	app.Notes = s.sanitizer.SanitizeString(app.Notes)

	app.BeforeSave()
	if err := app.Validate(); err != nil {
		return nil, err
	}
	if !domain.IsValidApplicationStatus(app.Status) {
		return nil, domain.NewValidationError("status",
			fmt.Sprintf("must be one of: %v", domain.ApplicationStatusKeys()),
			domain.ErrInvalidField)
	}

	if req.ResumeID != nil {
		if err := s.validateResumeReference(ctx, userID, app.ResumeID); err != nil {
			return nil, err
		}
	}

	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	if app.Status != previousStatus {
		s.recordEvent(ctx, app.ID, domain.EventStatusChanged,
			fmt.Sprintf("Status changed from %s to %s", previousStatus, app.Status))
	}

	return app, nil
}

func (s *applicationService) DeleteApplication(ctx context.Context, applicationID, userID uuid.UUID) error {
	if _, err := s.GetApplicationByID(ctx, applicationID, userID); err != nil {
		return err
	}

	if err := s.appRepo.Delete(ctx, applicationID); err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}

	return nil
}

func (s *applicationService) GetApplicationEvents(ctx context.Context, applicationID, userID uuid.UUID) ([]*domain.ApplicationEvent, error) {
	if _, err := s.GetApplicationByID(ctx, applicationID, userID); err != nil {
		return nil, err
	}

	events, err := s.appRepo.GetEvents(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get application events: %w", err)
	}

	return events, nil
}

func (s *applicationService) GetStatusCounts(ctx context.Context, userID uuid.UUID) ([]*domain.StatusCount, error) {
	counts, err := s.appRepo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get status counts: %w", err)
	}
	return counts, nil
}

// validateResumeReference rejects resume ids that do not exist or belong to
// someone else.
func (s *applicationService) validateResumeReference(ctx context.Context, userID uuid.UUID, resumeID *uuid.UUID) error {
	if resumeID == nil {
		return nil
	}

	resume, err := s.resumeRepo.GetByID(ctx, *resumeID)
	if err != nil {
		return fmt.Errorf("failed to check resume reference: %w", err)
	}
	if resume == nil || resume.UserID != userID {
		return domain.NewValidationError("resume_id", "resume not found", domain.ErrInvalidField)
	}

	return nil
}

func (s *applicationService) recordEvent(ctx context.Context, applicationID uuid.UUID, eventType, details string) {
	event := &domain.ApplicationEvent{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		EventType:     eventType,
		Details:       details,
		CreatedAt:     time.Now(),
	}

	if err := s.appRepo.CreateEvent(ctx, event); err != nil {
		// Events are an audit trail, not the source of truth; losing one is
		// logged but does not fail the request.
		log.Error().Err(err).Str("application_id", applicationID.String()).Msg("failed to record application event")
	}
}
