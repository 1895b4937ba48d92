package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ma6di/jobtrackr/internal/config"
	"github.com/ma6di/jobtrackr/internal/domain"
	"github.com/ma6di/jobtrackr/internal/handler"
	"github.com/ma6di/jobtrackr/internal/middleware"
	"github.com/ma6di/jobtrackr/internal/repository"
	"github.com/ma6di/jobtrackr/internal/security"
	"github.com/ma6di/jobtrackr/internal/service"
	"github.com/ma6di/jobtrackr/internal/storage"
	"github.com/ma6di/jobtrackr/pkg/database"
	"github.com/ma6di/jobtrackr/pkg/redis"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	redisClient, err := redis.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	store, err := storage.NewS3Store(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object storage")
	}

	rateLimiter := security.NewRateLimiter(security.RateLimiterConfig{
		Redis:    redisClient,
		Limit:    cfg.RateLimitPerMinute,
		Interval: cfg.RateLimitInterval,
	})

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient)
	appRepo := repository.NewApplicationRepository(db)
	resumeRepo := repository.NewResumeRepository(db)

	authService := service.NewAuthenticationService(cfg, userRepo, sessionRepo)
	appService := service.NewApplicationService(appRepo, resumeRepo)
	resumeService := service.NewResumeService(resumeRepo, store, cfg.MaxUploadBytes)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userRepo)
	appHandler := handler.NewApplicationHandler(appService)
	resumeHandler := handler.NewResumeHandler(resumeService, cfg.MaxUploadBytes)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	router := setupRouter(cfg, authService, authHandler, userHandler, appHandler, resumeHandler, healthHandler, rateLimiter)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server startup failed")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Int("rate_limit", cfg.RateLimitPerMinute).
		Dur("rate_interval", cfg.RateLimitInterval).
		Msg("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func setupRouter(
	cfg *config.Config,
	authService domain.AuthenticationService,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	appHandler *handler.ApplicationHandler,
	resumeHandler *handler.ResumeHandler,
	healthHandler *handler.HealthHandler,
	rateLimiter *security.RateLimiter,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.FrontendURL))
	router.Use(rateLimiter.GinMiddleware())

	requireAuth := middleware.AuthMiddleware(cfg.JWTSecret, authService)

	api := router.Group("/api/v1")
	{
		api.GET("/health", healthHandler.Health)

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.PUT("/password", requireAuth, authHandler.ChangePassword)

			auth.GET("/sessions", requireAuth, authHandler.GetSessions)
			auth.DELETE("/sessions/:sessionId", requireAuth, authHandler.RevokeSession)
			auth.DELETE("/sessions", requireAuth, authHandler.RevokeAllSessions)
		}

		protected := api.Group("/")
		protected.Use(requireAuth)
		{
			protected.GET("/profile", userHandler.GetProfile)
			protected.PUT("/profile", userHandler.UpdateProfile)

			applications := protected.Group("/applications")
			{
				applications.GET("/stats", appHandler.GetStats)
				applications.GET("", appHandler.ListApplications)
				applications.POST("", appHandler.CreateApplication)
				applications.GET("/:id", appHandler.GetApplication)
				applications.PUT("/:id", appHandler.UpdateApplication)
				applications.DELETE("/:id", appHandler.DeleteApplication)
				applications.GET("/:id/events", appHandler.GetApplicationEvents)
			}

			resumes := protected.Group("/resumes")
			{
				resumes.GET("", resumeHandler.ListResumes)
				resumes.POST("", resumeHandler.UploadResume)
				resumes.GET("/:id", resumeHandler.GetResume)
				resumes.GET("/:id/download", resumeHandler.DownloadResume)
				resumes.PUT("/:id", resumeHandler.UpdateResume)
				resumes.DELETE("/:id", resumeHandler.DeleteResume)
			}
		}
	}

	return router
}
