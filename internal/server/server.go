package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"legacybook/config"
	"legacybook/internal/domain/admin"
	"legacybook/internal/handler"
	"legacybook/internal/middleware"
	"legacybook/internal/redis"
	"legacybook/internal/services"
	"legacybook/internal/transport/httpdto"
	"legacybook/pkg/database"
	"legacybook/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Submission *handler.SubmissionHandler
	Admin      *handler.AdminHandler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

// SetupRoutes wires the public intake surface and the authenticated admin
// surface. limiter may be nil, which disables rate limiting entirely.
func (s *Server) SetupRoutes(handlers *Handlers, directory services.AdminDirectory, limiter *redis.RateLimiter) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := database.HealthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse(err.Error(), "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	s.engine.POST("/v1/submissions",
		middleware.SubmitRateLimitMiddleware(limiter),
		handlers.Submission.Create,
	)

	authed := s.engine.Group("/v1/admin", middleware.AuthMiddleware(s.config.JWTSecret, directory))

	view := authed.Group("", middleware.RequireRole(admin.RoleReviewer, admin.RoleAdmin, admin.RoleSuperAdmin))
	{
		view.GET("/submissions", handlers.Admin.ListSubmissions)
		view.GET("/submissions/:id", handlers.Admin.GetSubmission)
		view.POST("/media/signed-urls",
			middleware.SignedURLRateLimitMiddleware(limiter),
			handlers.Admin.SignedURLs,
		)
	}

	mutate := authed.Group("", middleware.RequireRole(admin.RoleAdmin, admin.RoleSuperAdmin))
	{
		mutate.PATCH("/submissions/:id", handlers.Admin.UpdateReview)
		mutate.DELETE("/submissions/:id", handlers.Admin.DeleteSubmission)
		mutate.POST("/export", handlers.Admin.ExportBulk)
		mutate.GET("/export/:id", handlers.Admin.ExportSingle)
	}

	super := authed.Group("", middleware.RequireRole(admin.RoleSuperAdmin))
	{
		super.GET("/admins", handlers.Admin.ListAdmins)
		super.POST("/admins", handlers.Admin.CreateAdmin)
		super.PATCH("/admins/:id/role", handlers.Admin.UpdateAdminRole)
		super.DELETE("/admins/:id", handlers.Admin.DeleteAdmin)
	}
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
