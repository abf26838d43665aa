package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"pumpdetector/internal/pump"
	"pumpdetector/pkg/storage/postgres"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatusSource exposes the latest window summary.
type StatusSource interface {
	Status() pump.Status
}

// AlertLister reads the alert audit log.
type AlertLister interface {
	ListAlerts(ctx context.Context, symbol string, since time.Time) ([]postgres.AlertRecord, error)
}

// defaultAlertLookback bounds GET /alerts when no since is given.
const defaultAlertLookback = 24 * time.Hour

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) bool

// Server is the operational HTTP surface: health, window status and metrics.
type Server struct {
	engine  *gin.Engine
	srv     *http.Server
	status  StatusSource
	metrics http.Handler
	checks  map[string]HealthCheck
	alerts  AlertLister
	logger  *zap.Logger
}

func New(addr string, status StatusSource, metrics http.Handler, checks map[string]HealthCheck, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:  gin.New(),
		status:  status,
		metrics: metrics,
		checks:  checks,
		logger:  logger,
	}
	s.engine.Use(gin.Recovery())
	s.setupRoutes()

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", s.getHealth)
	s.engine.GET("/status", s.getStatus)
	if s.metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.metrics))
	}
}

// EnableAlerts serves GET /alerts from lister.
func (s *Server) EnableAlerts(lister AlertLister) {
	s.alerts = lister
	s.engine.GET("/alerts", s.getAlerts)
}

// Handler is the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("ops server listening", zap.String("addr", s.srv.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

func (s *Server) getHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	deps := make(map[string]string, len(s.checks))
	healthy := true
	for name, check := range s.checks {
		if check(ctx) {
			deps[name] = "ok"
			continue
		}
		deps[name] = "down"
		healthy = false
	}

	code := http.StatusOK
	state := "ok"
	if !healthy {
		code = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(code, gin.H{"status": state, "dependencies": deps})
}

func (s *Server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.status.Status())
}

// getAlerts lists audited alerts. Query: symbol (optional), since (RFC3339,
// default 24h ago).
func (s *Server) getAlerts(c *gin.Context) {
	since := time.Now().UTC().Add(-defaultAlertLookback)
	if raw := c.Query("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be RFC3339"})
			return
		}
		since = t
	}

	records, err := s.alerts.ListAlerts(c.Request.Context(), strings.ToUpper(c.Query("symbol")), since)
	if err != nil {
		s.logger.Error("failed to list alerts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list alerts"})
		return
	}
	if records == nil {
		records = []postgres.AlertRecord{}
	}
	c.JSON(http.StatusOK, records)
}
