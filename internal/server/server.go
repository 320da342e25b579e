// Package server implements the Briefhub REST API: user and admin
// authentication, account management, the employee roster and the briefing
// workflow.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/briefhub-dev/briefhub/internal/ai"
	"github.com/briefhub-dev/briefhub/internal/auth"
	"github.com/briefhub-dev/briefhub/internal/briefings"
	"github.com/briefhub-dev/briefhub/internal/config"
	"github.com/briefhub-dev/briefhub/internal/employees"
	"github.com/briefhub-dev/briefhub/internal/models"
)

// Server represents the HTTP server
type Server struct {
	router           *gin.Engine
	db               *gorm.DB
	config           *config.Config
	logger           zerolog.Logger
	validator        *validator.Validate
	asynqClient      *asynq.Client
	briefingsService *briefings.Service
	aiClient         *ai.Client
	version          string
	httpServer       *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	db, err := initDatabase(cfg, zlog)
	if err != nil {
		return nil, err
	}

	// Run database migrations
	if err := models.AutoMigrate(db); err != nil {
		return nil, err
	}

	// Load JWT secret from database (auto-generated during first setup)
	var conf models.Config
	if err := db.First(&conf).Error; err == nil {
		auth.InitializeJWT(conf.JWTSecret)
		zlog.Debug().Msg("Loaded JWT secret from database")
	} else {
		zlog.Info().Msg("No config found - JWT will be initialized during first setup")
	}

	// Seed the fixed AI employee roster
	if err := employees.Seed(db, zlog); err != nil {
		return nil, err
	}

	validate := newValidator()

	// Initialize Asynq client for enqueueing compile tasks
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr: cfg.Redis.Address,
	})

	aiClient := ai.New(cfg.AI)
	briefingsService := briefings.NewService(db, aiClient, zlog)

	server := &Server{
		db:               db,
		config:           cfg,
		logger:           zlog,
		validator:        validate,
		asynqClient:      asynqClient,
		briefingsService: briefingsService,
		aiClient:         aiClient,
		version:          version,
	}

	server.setupRouter()

	return server, nil
}

// newValidator builds the request validator with the custom field rules
func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterValidation("nickname", func(fl validator.FieldLevel) bool {
		// Alphanumeric, hyphens, underscores and spaces only
		value := fl.Field().String()
		for _, char := range value {
			if !((char >= 'a' && char <= 'z') ||
				(char >= 'A' && char <= 'Z') ||
				(char >= '0' && char <= '9') ||
				char == '-' ||
				char == '_' ||
				char == ' ') {
				return false
			}
		}
		return true
	})
	validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		// 12 to 14 digits, country and area code included, no punctuation
		value := fl.Field().String()
		if len(value) < 12 || len(value) > 14 {
			return false
		}
		for _, char := range value {
			if char < '0' || char > '9' {
				return false
			}
		}
		return true
	})
	return validate
}

// initDatabase opens the database connection. Postgres DSNs get the postgres
// driver, everything else is treated as a sqlite path.
func initDatabase(cfg *config.Config, zlog zerolog.Logger) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	}

	var (
		db  *gorm.DB
		err error
	)
	if strings.HasPrefix(cfg.Database.URL, "postgres://") || strings.HasPrefix(cfg.Database.URL, "postgresql://") {
		db, err = gorm.Open(postgres.Open(cfg.Database.URL), gormConfig)
	} else {
		db, err = gorm.Open(sqlite.Open(cfg.Database.URL), gormConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(8)
	sqlDB.SetMaxIdleConns(4)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// sqlite needs WAL for concurrent API + worker access
	if !strings.HasPrefix(cfg.Database.URL, "postgres") {
		pragmas := []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA synchronous=NORMAL",
			"PRAGMA busy_timeout=5000",
			"PRAGMA foreign_keys=1",
		}
		for _, pragma := range pragmas {
			if err := db.Exec(pragma).Error; err != nil {
				zlog.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
			}
		}
	}

	return db, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	// CORS middleware (browser clients in development)
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "ngrok-skip-browser-warning"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint (no auth required)
	s.router.GET("/health", s.healthCheck)

	// Public auth endpoints (no auth required)
	s.router.POST("/setup", s.setupFirstAdmin)
	s.router.POST("/auth/login/user", s.loginUser)
	s.router.POST("/auth/login/admin", s.loginAdmin)
	s.router.POST("/auth/register", s.registerUser)

	// Self-service endpoints (user token)
	userAPI := s.router.Group("/")
	userAPI.Use(UserAuthMiddleware(s.db, s.logger))
	{
		userAPI.GET("/users/me", s.getOwnProfile)
		userAPI.PUT("/users/me", s.updateOwnProfile)

		userAPI.POST("/briefings", s.createBriefing)
		userAPI.GET("/briefings", s.listBriefings)
		userAPI.GET("/briefings/:id", s.getBriefing)
		userAPI.PUT("/briefings/:id", s.updateBriefing)
		userAPI.DELETE("/briefings/:id", s.deleteBriefing)
		userAPI.POST("/briefings/:id/chat/:employee_name", s.chatWithEmployee)
		userAPI.POST("/briefings/:id/compile", s.compileBriefing)
	}

	// Administration endpoints (admin token)
	adminAPI := s.router.Group("/")
	adminAPI.Use(AdminAuthMiddleware(s.db, s.logger))
	{
		adminAPI.GET("/users", s.listUsers)
		adminAPI.GET("/users/:id", s.getUser)
		adminAPI.PUT("/users/:id", s.updateUser)
		adminAPI.DELETE("/users/:id", s.deleteUser)

		adminAPI.GET("/admin_users", s.listAdminUsers)
		adminAPI.POST("/admin_users", s.createAdminUser)
		adminAPI.GET("/admin_users/me", s.getOwnAdminProfile)
		adminAPI.GET("/admin_users/:id", s.getAdminUser)
		adminAPI.PUT("/admin_users/:id", s.updateAdminUser)
		adminAPI.DELETE("/admin_users/:id", s.deleteAdminUser)

		adminAPI.GET("/employees", s.listEmployees)
		adminAPI.GET("/employees/test_ai_connections", s.testAIConnections)
		adminAPI.GET("/employees/:id", s.getEmployee)
		adminAPI.PUT("/employees/:id", s.updateEmployee)
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

// @Summary Health check
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": s.version,
	})
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down gracefully
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:    s.config.Server.Address,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		s.logger.Info().Str("signal", sig.String()).Msg("Shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	s.asynqClient.Close()
	return nil
}

// GetDB returns the database handle (shared with the worker process setup)
func (s *Server) GetDB() *gorm.DB {
	return s.db
}

// Router exposes the configured handler, used by integration tests
func (s *Server) Router() http.Handler {
	return s.router
}
