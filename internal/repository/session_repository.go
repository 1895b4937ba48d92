package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ma6di/jobtrackr/internal/domain"
)

// sessionRepository stores sessions in Redis: the session body under its own
// key, a refresh-token -> session-id mapping, and a per-user set of session ids.
// All keys expire with the session.
type sessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) domain.SessionRepository {
	return &sessionRepository{client: client}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func refreshTokenKey(refreshToken string) string {
	return fmt.Sprintf("refresh_token:%s", refreshToken)
}

func userSessionsKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_sessions:%s", userID.String())
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	sessionData, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ttl := time.Until(session.ExpiresAt)

	pipe := r.client.Pipeline()
	pipe.Set(ctx, sessionKey(session.ID), sessionData, ttl)
	pipe.Set(ctx, refreshTokenKey(session.RefreshToken), session.ID, ttl)
	pipe.SAdd(ctx, userSessionsKey(session.UserID), session.ID)
	pipe.Expire(ctx, userSessionsKey(session.UserID), ttl)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *sessionRepository) GetByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}

	return &session, nil
}

func (r *sessionRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*domain.Session, error) {
	sessionID, err := r.client.Get(ctx, refreshTokenKey(refreshToken)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, sessionID)
}

func (r *sessionRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	sessionIDs, err := r.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	var sessions []*domain.Session
	for _, sessionID := range sessionIDs {
		session, err := r.GetByID(ctx, sessionID)
		if err != nil {
			continue // skip sessions that fail to load
		}
		if session == nil {
			// Expired body but stale set member; clean it up.
			r.client.SRem(ctx, userSessionsKey(userID), sessionID)
			continue
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

func (r *sessionRepository) Delete(ctx context.Context, sessionID string) error {
	session, err := r.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, sessionKey(sessionID))
	pipe.Del(ctx, refreshTokenKey(session.RefreshToken))
	pipe.SRem(ctx, userSessionsKey(session.UserID), sessionID)

	_, err = pipe.Exec(ctx)
	return err
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	sessions, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		return nil
	}

	pipe := r.client.Pipeline()
	for _, session := range sessions {
		pipe.Del(ctx, sessionKey(session.ID))
		pipe.Del(ctx, refreshTokenKey(session.RefreshToken))
	}
	pipe.Del(ctx, userSessionsKey(userID))

	_, err = pipe.Exec(ctx)
	return err
}

func (r *sessionRepository) UpdateLastUsed(ctx context.Context, sessionID string) error {
	session, err := r.GetByID(ctx, sessionID)
	if err != nil || session == nil {
		return err
	}

	session.LastUsedAt = time.Now()

	sessionData, err := json.Marshal(session)
	if err != nil {
		return err
	}

	// Preserve the remaining TTL; do not extend the session lifetime.
	return r.client.Set(ctx, sessionKey(sessionID), sessionData, time.Until(session.ExpiresAt)).Err()
}
