package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const healthCheckTimeout = 2 * time.Second

// DBPinger is satisfied by *sql.DB.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// RedisPinger is satisfied by *redis.Client.
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type HealthHandler struct {
	db    DBPinger
	redis RedisPinger
}

func NewHealthHandler(db DBPinger, redisClient RedisPinger) *HealthHandler {
	return &HealthHandler{db: db, redis: redisClient}
}

// Health handles GET /api/v1/health. It pings Postgres and Redis with a short
// timeout and reports 503 when either backend is unreachable.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	services := gin.H{
		"database": "connected",
		"redis":    "connected",
	}
	healthy := true

	if err := h.db.PingContext(ctx); err != nil {
		services["database"] = "unavailable"
		healthy = false
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		services["redis"] = "unavailable"
		healthy = false
	}

	status := http.StatusOK
	state := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	c.JSON(status, gin.H{
		"status":    state,
		"timestamp": time.Now().Unix(),
		"services":  services,
	})
}
