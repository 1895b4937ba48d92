package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string, updatedAt time.Time) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, sessionID string) (*Session, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*Session, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Session, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	UpdateLastUsed(ctx context.Context, sessionID string) error
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*Application, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, status string, limit, offset int) ([]*Application, error)
	Update(ctx context.Context, app *Application) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context, userID uuid.UUID) ([]*StatusCount, error)

	CreateEvent(ctx context.Context, event *ApplicationEvent) error
	GetEvents(ctx context.Context, applicationID uuid.UUID) ([]*ApplicationEvent, error)
}

type ResumeRepository interface {
	Create(ctx context.Context, resume *Resume) error
	GetByID(ctx context.Context, id uuid.UUID) (*Resume, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*Resume, error)
	Update(ctx context.Context, resume *Resume) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AuthenticationService interface {
	// Credential flow
	Register(ctx context.Context, email, password, firstName, lastName, userAgent, ipAddress string) (*AuthResult, error)
	Login(ctx context.Context, email, password, userAgent, ipAddress string) (*AuthResult, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, sessionID, currentPassword, newPassword string) error

	// Token management
	GenerateTokenPair(ctx context.Context, userID uuid.UUID, userAgent, ipAddress string) (*TokenPair, error)
	RefreshAccessToken(ctx context.Context, refreshToken, userAgent, ipAddress string) (*TokenPair, error)

	// Session management
	SessionExists(ctx context.Context, sessionID string) (bool, error)
	RevokeSession(ctx context.Context, sessionID string) error
	GetUserSessions(ctx context.Context, userID uuid.UUID) ([]*Session, error)
	RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error
}
