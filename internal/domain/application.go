package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Application statuses. APPLIED is the initial state; ACCEPTED, REJECTED and
// WITHDRAWN are terminal for reporting purposes, but users may still edit records.
const (
	StatusApplied   = "APPLIED"
	StatusInterview = "INTERVIEW"
	StatusOffer     = "OFFER"
	StatusAccepted  = "ACCEPTED"
	StatusRejected  = "REJECTED"
	StatusWithdrawn = "WITHDRAWN"
)

var ValidApplicationStatuses = map[string]bool{
	StatusApplied:   true,
	StatusInterview: true,
	StatusOffer:     true,
	StatusAccepted:  true,
	StatusRejected:  true,
	StatusWithdrawn: true,
}

func IsValidApplicationStatus(status string) bool {
	return ValidApplicationStatuses[status]
}

func ApplicationStatusKeys() []string {
	keys := make([]string, 0, len(ValidApplicationStatuses))
	for k := range ValidApplicationStatuses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Application tracks a single job opportunity for a user.
type Application struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id" validate:"required"`
	Company     string     `json:"company" db:"company" validate:"required,min=1,max=200"`
	Position    string     `json:"position" db:"position" validate:"required,min=1,max=200"`
	Location    string     `json:"location,omitempty" db:"location" validate:"omitempty,max=200"`
	Status      string     `json:"status" db:"status" validate:"omitempty,app_status"`
	JobURL      string     `json:"job_url,omitempty" db:"job_url" validate:"omitempty,url,max=2000"`
	SalaryRange string     `json:"salary_range,omitempty" db:"salary_range" validate:"omitempty,max=100"`
	Notes       string     `json:"notes,omitempty" db:"notes" validate:"omitempty,max=10000"`
	ResumeID    *uuid.UUID `json:"resume_id,omitempty" db:"resume_id"`
	AppliedAt   time.Time  `json:"applied_at" db:"applied_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// BeforeSave normalizes fields and fills defaults prior to persistence.
func (a *Application) BeforeSave() {
	a.Company = strings.TrimSpace(a.Company)
	a.Position = strings.TrimSpace(a.Position)
	a.Location = strings.TrimSpace(a.Location)
	a.Status = strings.ToUpper(strings.TrimSpace(a.Status))

	if a.Status == "" {
		a.Status = StatusApplied
	}

	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.AppliedAt.IsZero() {
		a.AppliedAt = now
	}
	a.UpdatedAt = now

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
}

func (a *Application) Validate() error {
	return ValidateStruct(a)
}

// Event types recorded against an application.
const (
	EventCreated       = "CREATED"
	EventStatusChanged = "STATUS_CHANGED"
)

// ApplicationEvent is an audit row appended on create and on status changes.
type ApplicationEvent struct {
	ID            uuid.UUID `json:"id" db:"id"`
	ApplicationID uuid.UUID `json:"application_id" db:"application_id"`
	EventType     string    `json:"event_type" db:"event_type"`
	Details       string    `json:"details" db:"details"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// StatusCount is one row of the per-status stats report.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}
