package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/ma6di/jobtrackr/internal/domain"
)

// In-memory repository fakes shared across the service tests. They implement
// the domain interfaces with plain maps; no locking because tests are
// single-goroutine.

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, hashedPassword string, updatedAt time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	user.HashedPassword = hashedPassword
	user.UpdatedAt = updatedAt
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *domain.Session) error {
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, sessionID string) (*domain.Session, error) {
	session, ok := r.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (r *fakeSessionRepo) GetByRefreshToken(_ context.Context, refreshToken string) (*domain.Session, error) {
	for _, session := range r.sessions {
		if session.RefreshToken == refreshToken {
			copied := *session
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) GetByUserID(_ context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	var result []*domain.Session
	for _, session := range r.sessions {
		if session.UserID == userID {
			copied := *session
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, sessionID string) error {
	delete(r.sessions, sessionID)
	return nil
}

func (r *fakeSessionRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	for id, session := range r.sessions {
		if session.UserID == userID {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *fakeSessionRepo) UpdateLastUsed(_ context.Context, sessionID string) error {
	if session, ok := r.sessions[sessionID]; ok {
		session.LastUsedAt = time.Now()
	}
	return nil
}

type fakeApplicationRepo struct {
	apps   map[uuid.UUID]*domain.Application
	events []*domain.ApplicationEvent

	// pagination values from the last GetByUserID call
	lastLimit  int
	lastOffset int
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[uuid.UUID]*domain.Application)}
}

func (r *fakeApplicationRepo) Create(_ context.Context, app *domain.Application) error {
	copied := *app
	r.apps[app.ID] = &copied
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Application, error) {
	app, ok := r.apps[id]
	if !ok {
		return nil, nil
	}
	copied := *app
	return &copied, nil
}

func (r *fakeApplicationRepo) GetByUserID(_ context.Context, userID uuid.UUID, status string, limit, offset int) ([]*domain.Application, error) {
	r.lastLimit = limit
	r.lastOffset = offset

	var result []*domain.Application
	for _, app := range r.apps {
		if app.UserID != userID {
			continue
		}
		if status != "" && app.Status != status {
			continue
		}
		copied := *app
		result = append(result, &copied)
	}
	return result, nil
}

func (r *fakeApplicationRepo) Update(_ context.Context, app *domain.Application) error {
	if _, ok := r.apps[app.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *app
	r.apps[app.ID] = &copied
	return nil
}

func (r *fakeApplicationRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.apps[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.apps, id)
	return nil
}

func (r *fakeApplicationRepo) CountByStatus(_ context.Context, userID uuid.UUID) ([]*domain.StatusCount, error) {
	counts := make(map[string]int)
	for _, app := range r.apps {
		if app.UserID == userID {
			counts[app.Status]++
		}
	}
	var result []*domain.StatusCount
	for status, count := range counts {
		result = append(result, &domain.StatusCount{Status: status, Count: count})
	}
	return result, nil
}

func (r *fakeApplicationRepo) CreateEvent(_ context.Context, event *domain.ApplicationEvent) error {
	copied := *event
	r.events = append(r.events, &copied)
	return nil
}

func (r *fakeApplicationRepo) GetEvents(_ context.Context, applicationID uuid.UUID) ([]*domain.ApplicationEvent, error) {
	var result []*domain.ApplicationEvent
	for _, event := range r.events {
		if event.ApplicationID == applicationID {
			copied := *event
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeApplicationRepo) eventsOfType(applicationID uuid.UUID, eventType string) []*domain.ApplicationEvent {
	var result []*domain.ApplicationEvent
	for _, event := range r.events {
		if event.ApplicationID == applicationID && event.EventType == eventType {
			result = append(result, event)
		}
	}
	return result
}

type fakeResumeRepo struct {
	resumes   map[uuid.UUID]*domain.Resume
	createErr error
}

func newFakeResumeRepo() *fakeResumeRepo {
	return &fakeResumeRepo{resumes: make(map[uuid.UUID]*domain.Resume)}
}

func (r *fakeResumeRepo) Create(_ context.Context, resume *domain.Resume) error {
	if r.createErr != nil {
		return r.createErr
	}
	copied := *resume
	r.resumes[resume.ID] = &copied
	return nil
}

func (r *fakeResumeRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Resume, error) {
	resume, ok := r.resumes[id]
	if !ok {
		return nil, nil
	}
	copied := *resume
	return &copied, nil
}

func (r *fakeResumeRepo) GetByUserID(_ context.Context, userID uuid.UUID) ([]*domain.Resume, error) {
	var result []*domain.Resume
	for _, resume := range r.resumes {
		if resume.UserID == userID {
			copied := *resume
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeResumeRepo) Update(_ context.Context, resume *domain.Resume) error {
	if _, ok := r.resumes[resume.ID]; !ok {
		return domain.ErrNotFound
	}
	copied := *resume
	r.resumes[resume.ID] = &copied
	return nil
}

func (r *fakeResumeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.resumes[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.resumes, id)
	return nil
}

type fakeObjectStore struct {
	objects map[string][]byte
	putErr  error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (s *fakeObjectStore) Put(_ context.Context, key, _ string, body io.Reader) error {
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *fakeObjectStore) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *fakeObjectStore) PresignGet(_ context.Context, key string, expiry time.Duration) (string, error) {
	if _, ok := s.objects[key]; !ok {
		return "", fmt.Errorf("object %s not found", key)
	}
	return fmt.Sprintf("https://storage.test/%s?expires=%d", key, int64(expiry.Seconds())), nil
}
