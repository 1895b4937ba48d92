package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/ma6di/jobtrackr/internal/config"
	"github.com/ma6di/jobtrackr/internal/domain"
)

// ErrInvalidCredentials deliberately does not say whether the email or the
// password was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

type authenticationService struct {
	config      *config.Config
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	jwtSecret   string
}

type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	SessionID string    `json:"session_id"`
	TokenType string    `json:"token_type"`
	jwt.RegisteredClaims
}

const (
	AccessTokenDuration  = 1 * time.Hour
	RefreshTokenDuration = 30 * 24 * time.Hour
)

func NewAuthenticationService(
	cfg *config.Config,
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
) domain.AuthenticationService {
	return &authenticationService{
		config:      cfg,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwtSecret:   cfg.JWTSecret,
	}
}

func (s *authenticationService) Register(ctx context.Context, email, password, firstName, lastName, userAgent, ipAddress string) (*domain.AuthResult, error) {
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:             uuid.New(),
		Email:          email,
		FirstName:      firstName,
		LastName:       lastName,
		HashedPassword: string(hashed),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	tokenPair, err := s.GenerateTokenPair(ctx, user.ID, userAgent, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &domain.AuthResult{User: user, Tokens: tokenPair}, nil
}

func (s *authenticationService) Login(ctx context.Context, email, password, userAgent, ipAddress string) (*domain.AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	tokenPair, err := s.GenerateTokenPair(ctx, user.ID, userAgent, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &domain.AuthResult{User: user, Tokens: tokenPair}, nil
}

func (s *authenticationService) ChangePassword(ctx context.Context, userID uuid.UUID, sessionID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return domain.ErrNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashed), time.Now()); err != nil {
		return err
	}

	// Revoke every other session so stolen tokens die with the old password.
	sessions, err := s.sessionRepo.GetByUserID(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list sessions after password change")
		return nil
	}
	for _, session := range sessions {
		if session.ID == sessionID {
			continue
		}
		if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
			log.Error().Err(err).Str("session_id", session.ID).Msg("failed to revoke session after password change")
		}
	}

	return nil
}

func (s *authenticationService) GenerateTokenPair(ctx context.Context, userID uuid.UUID, userAgent, ipAddress string) (*domain.TokenPair, error) {
	sessionID := uuid.New().String()

	accessToken, err := s.signToken(userID, sessionID, "access", AccessTokenDuration)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.signToken(userID, sessionID, "refresh", RefreshTokenDuration)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &domain.Session{
		ID:           sessionID,
		UserID:       userID,
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(RefreshTokenDuration),
		CreatedAt:    now,
		LastUsedAt:   now,
		UserAgent:    userAgent,
		IPAddress:    ipAddress,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    sessionID,
	}, nil
}

func (s *authenticationService) signToken(userID uuid.UUID, sessionID, tokenType string, ttl time.Duration) (string, error) {
	claims := &Claims{
		UserID:    userID,
		SessionID: sessionID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authenticationService) RefreshAccessToken(ctx context.Context, refreshToken, userAgent, ipAddress string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}

	token, err := jwt.ParseWithClaims(refreshToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if method, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		} else if method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected HMAC algorithm: %v", method.Alg())
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid refresh token claims")
	}

	if claims.TokenType != "refresh" {
		return nil, fmt.Errorf("invalid token type: expected refresh, got %s", claims.TokenType)
	}

	session, err := s.sessionRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("session lookup failed: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("invalid refresh token: session not found")
	}

	if time.Now().After(session.ExpiresAt) {
		if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
			log.Error().Err(err).Str("session_id", session.ID).Msg("failed to delete expired session")
		}
		return nil, fmt.Errorf("refresh token expired")
	}

	// Rotation: issue a new pair, then drop the old session so the used
	// refresh token cannot be replayed.
	newTokenPair, err := s.GenerateTokenPair(ctx, session.UserID, userAgent, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to generate new tokens: %w", err)
	}

	if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
		log.Warn().Err(err).Str("session_id", session.ID).Msg("failed to delete rotated session")
	}

	return newTokenPair, nil
}

func (s *authenticationService) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if session == nil {
		return false, nil
	}

	if time.Now().After(session.ExpiresAt) {
		if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
			log.Error().Err(err).Str("session_id", session.ID).Msg("failed to delete expired session")
		}
		return false, nil
	}

	if err := s.sessionRepo.UpdateLastUsed(ctx, sessionID); err != nil {
		log.Debug().Err(err).Str("session_id", sessionID).Msg("failed to update session last used")
	}

	return true, nil
}

func (s *authenticationService) RevokeSession(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}

func (s *authenticationService) GetUserSessions(ctx context.Context, userID uuid.UUID) ([]*domain.Session, error) {
	return s.sessionRepo.GetByUserID(ctx, userID)
}

func (s *authenticationService) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	return s.sessionRepo.DeleteByUserID(ctx, userID)
}
