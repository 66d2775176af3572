// Package server exposes the habit store over a JSON HTTP API built on gin.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/habits/pkg/types"
)

// shutdownTimeout bounds how long ListenAndServe waits for in-flight
// requests after its context is cancelled.
const shutdownTimeout = 10 * time.Second

// Server routes API requests to a types.Store.
type Server struct {
	store  types.Store
	logger *zap.Logger
	now    func() time.Time
	engine *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithClock replaces time.Now, which names export files.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New builds a Server and registers all routes. A nil logger discards
// output.
func New(store types.Store, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), s.accessLog(), observe())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.GET("/habits", s.listHabits)
		api.POST("/habits", s.createHabit)
		api.PUT("/habits/:id", s.updateHabit)
		api.DELETE("/habits/:id", s.deleteHabit)

		api.GET("/entries/:date", s.entriesForDate)
		api.GET("/entries/month/:year/:month", s.entriesForMonth)
		api.POST("/entries", s.upsertEntry)
		api.DELETE("/entries/:habit_id/:date", s.deleteEntry)

		api.GET("/export", s.exportCSV)
		api.POST("/import", s.importCSV)
		api.POST("/cleanup-duplicates", s.cleanupDuplicates)
	}
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
