package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ma6di/jobtrackr/internal/service"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID    = "user_id"
	ContextSessionID = "session_id"
)

// SessionChecker verifies that the session referenced by a token still exists,
// so revoked sessions lose access before their JWT expires.
type SessionChecker interface {
	SessionExists(ctx context.Context, sessionID string) (bool, error)
}

func AuthMiddleware(jwtSecret string, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			abortJSON(c, http.StatusUnauthorized, "Authorization header required", "MISSING_AUTH_HEADER")
			return
		}

		const bearerPrefix = "Bearer "
		tokenString, ok := strings.CutPrefix(authHeader, bearerPrefix)
		if !ok {
			abortJSON(c, http.StatusUnauthorized, "Bearer token required", "INVALID_AUTH_FORMAT")
			return
		}
		tokenString = strings.TrimSpace(tokenString)
		if tokenString == "" {
			abortJSON(c, http.StatusUnauthorized, "Token cannot be empty", "EMPTY_TOKEN")
			return
		}

		token, err := jwt.ParseWithClaims(tokenString, &service.Claims{}, func(token *jwt.Token) (interface{}, error) {
			if method, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			} else if method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected HMAC algorithm: %v", method.Alg())
			}
			return []byte(jwtSecret), nil
		})

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortJSON(c, http.StatusUnauthorized, "Token expired", "TOKEN_EXPIRED")
				return
			}
			abortJSON(c, http.StatusUnauthorized, "Invalid token", "TOKEN_INVALID")
			return
		}

		claims, ok := token.Claims.(*service.Claims)
		if !ok || !token.Valid {
			abortJSON(c, http.StatusUnauthorized, "Invalid token claims", "INVALID_CLAIMS")
			return
		}

		if err := validateTokenClaims(claims); err != nil {
			abortJSON(c, http.StatusUnauthorized, "Token validation failed", "CLAIM_VALIDATION_FAILED")
			return
		}

		// A valid JWT over a revoked session is still a dead token.
		exists, err := sessions.SessionExists(c.Request.Context(), claims.SessionID)
		if err != nil {
			abortJSON(c, http.StatusInternalServerError, "Session verification failed", "SESSION_CHECK_FAILED")
			return
		}
		if !exists {
			abortJSON(c, http.StatusUnauthorized, "Session revoked or expired", "SESSION_REVOKED")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextSessionID, claims.SessionID)
	}
}

func validateTokenClaims(claims *service.Claims) error {
	now := time.Now()

	if claims.ExpiresAt != nil && now.After(claims.ExpiresAt.Time) {
		return fmt.Errorf("token has expired")
	}

	if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
		return fmt.Errorf("token not valid yet")
	}

	if claims.TokenType != "access" {
		return fmt.Errorf("invalid token type: expected access, got %s", claims.TokenType)
	}

	if claims.UserID == uuid.Nil {
		return fmt.Errorf("invalid user ID")
	}

	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return fmt.Errorf("invalid session ID")
	}

	return nil
}

func abortJSON(c *gin.Context, code int, message, errorCode string) {
	c.JSON(code, gin.H{
		"error": message,
		"code":  errorCode,
	})
	c.Abort()
}
