package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"gym_checkin/internal/domain"
	"gym_checkin/internal/model"
	"gym_checkin/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CheckInService interface {
	CheckIn(ctx context.Context, rawPhone string) *model.Verdict
}

type SystemLogService interface {
	domain.SystemLogger
	Poll(ctx context.Context, afterID uint, limit int) ([]model.SystemLog, error)
}

type SessionStore interface {
	Create(values map[string]any) (string, error)
	Get(token string) (*session.Session, error)
	Destroy(token string) error
}

type Options struct {
	Addr            string
	ShutdownTimeout time.Duration

	// Админка
	PasswordHash string
	CookieName   string
	SessionTTL   time.Duration
	SecureCookie bool
}

// Server: HTTP сервер чекина и API админки
type Server struct {
	checkIn   CheckInService
	systemLog SystemLogService
	checkIns  domain.CheckInRepo
	sessions  SessionStore
	opts      Options
	logger    *zap.Logger

	router *gin.Engine
	srv    *http.Server
}

func NewServer(
	checkIn CheckInService,
	systemLog SystemLogService,
	checkIns domain.CheckInRepo,
	sessions SessionStore,
	opts Options,
	logger *zap.Logger,
) *Server {
	if opts.CookieName == "" {
		opts.CookieName = "gym_admin_session"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * 24 * time.Hour
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{
		checkIn:   checkIn,
		systemLog: systemLog,
		checkIns:  checkIns,
		sessions:  sessions,
		opts:      opts,
		logger:    logger,
		router:    router,
	}

	// Чекин
	router.POST("/check-in", s.handleCheckIn)

	api := router.Group("/api")
	{
		api.POST("/check-in", s.handleCheckIn)

		admin := api.Group("/admin")
		admin.POST("/login", s.handleAdminLogin)
		admin.POST("/logout", s.handleAdminLogout)

		protected := admin.Group("", s.requireAdmin())
		protected.GET("/logs", s.handleLogs)
		protected.GET("/check-ins", s.handleRecentCheckIns)
	}

	s.srv = &http.Server{
		Addr:              opts.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run слушает адрес до отмены ctx, затем мягко останавливает сервер
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server started", zap.String("addr", s.opts.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
