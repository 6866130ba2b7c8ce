package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/mcncl/jsontree/internal/config"
	"github.com/mcncl/jsontree/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// NewRouter returns a gin engine with every route registered.
func NewRouter(cfg *config.Config, logger *log.Logger) *gin.Engine {
	if logger == nil {
		logger = log.Default()
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	RegisterRoutes(router, NewHandlers(cfg, logger))
	return router
}

// RegisterRoutes registers the handlers on r.
func RegisterRoutes(r gin.IRouter, h *Handlers) {
	r.GET("/healthz", h.HandleHealth)

	v1 := r.Group("/v1")
	v1.POST("/graph", h.HandleGraph)
	v1.POST("/search", h.HandleSearch)
	v1.POST("/render", h.HandleRender)
}

func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("Request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start).Round(time.Microsecond),
		)
	}
}

// Run serves the API on cfg.Server.Addr until ctx is cancelled. It logs to
// the logger carried by ctx.
func Run(ctx context.Context, cfg *config.Config) error {
	logger := logging.FromContext(ctx)
	if cfg.Dev.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           NewRouter(cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", "addr", cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
