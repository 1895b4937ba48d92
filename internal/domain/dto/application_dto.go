package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/ma6di/jobtrackr/internal/domain"
)

// ApplicationCreateRequest is the body of POST /applications.
type ApplicationCreateRequest struct {
	Company     string     `json:"company" binding:"required,min=1,max=200"`
	Position    string     `json:"position" binding:"required,min=1,max=200"`
	Location    string     `json:"location" binding:"omitempty,max=200"`
	Status      string     `json:"status" binding:"omitempty"`
	JobURL      string     `json:"job_url" binding:"omitempty,url,max=2000"`
	SalaryRange string     `json:"salary_range" binding:"omitempty,max=100"`
	Notes       string     `json:"notes" binding:"omitempty,max=10000"`
	ResumeID    *uuid.UUID `json:"resume_id,omitempty"`
	AppliedAt   *time.Time `json:"applied_at,omitempty"`
}

func (req *ApplicationCreateRequest) ToApplication(userID uuid.UUID) *domain.Application {
	app := &domain.Application{
		UserID:      userID,
		Company:     req.Company,
		Position:    req.Position,
		Location:    req.Location,
		Status:      req.Status,
		JobURL:      req.JobURL,
		SalaryRange: req.SalaryRange,
		Notes:       req.Notes,
		ResumeID:    req.ResumeID,
	}
	if req.AppliedAt != nil {
		app.AppliedAt = *req.AppliedAt
	}
	return app
}

// ApplicationUpdateRequest supports partial updates: only non-nil fields are applied.
type ApplicationUpdateRequest struct {
	Company     *string    `json:"company,omitempty" binding:"omitempty,min=1,max=200"`
	Position    *string    `json:"position,omitempty" binding:"omitempty,min=1,max=200"`
	Location    *string    `json:"location,omitempty" binding:"omitempty,max=200"`
	Status      *string    `json:"status,omitempty"`
	JobURL      *string    `json:"job_url,omitempty" binding:"omitempty,url,max=2000"`
	SalaryRange *string    `json:"salary_range,omitempty" binding:"omitempty,max=100"`
	Notes       *string    `json:"notes,omitempty" binding:"omitempty,max=10000"`
	ResumeID    *uuid.UUID `json:"resume_id,omitempty"`
	AppliedAt   *time.Time `json:"applied_at,omitempty"`
}

func (req *ApplicationUpdateRequest) ApplyTo(app *domain.Application) {
	if req.Company != nil {
		app.Company = *req.Company
	}
	if req.Position != nil {
		app.Position = *req.Position
	}
	if req.Location != nil {
		app.Location = *req.Location
	}
	if req.Status != nil {
		app.Status = *req.Status
	}
	if req.JobURL != nil {
		app.JobURL = *req.JobURL
	}
	if req.SalaryRange != nil {
		app.SalaryRange = *req.SalaryRange
	}
	if req.Notes != nil {
		app.Notes = *req.Notes
	}
	if req.ResumeID != nil {
		app.ResumeID = req.ResumeID
	}
	if req.AppliedAt != nil {
		app.AppliedAt = *req.AppliedAt
	}
}
