// Package api exposes the matching engine over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/job-matcher/internal/logger"
	"github.com/spigell/job-matcher/internal/matching"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

type Options struct {
	Workers int
	Version string
	// Token protects the /v1 routes when set.
	Token string
}

type Server struct {
	router *gin.Engine
	logger *zap.Logger
}

// New builds the router. The engine must already be validated.
func New(engine *matching.Engine, log *zap.Logger, opts Options) *Server {
	log = logger.WithFields(log)
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	h := &handler{
		engine:  engine,
		logger:  log,
		workers: opts.Workers,
		version: opts.Version,
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware(log))

	router.GET("/healthz", h.health)

	v1 := router.Group("/v1")
	if opts.Token != "" {
		v1.Use(TokenAuthMiddleware(opts.Token))
	}
	v1.POST("/score", h.score)
	v1.POST("/match", h.match)
	v1.GET("/weights", h.weights)

	router.NoRoute(func(c *gin.Context) {
		SendError(c, http.StatusNotFound, ErrCodeNotFound, "route not found", c.Request.URL.Path)
	})

	return &Server{router: router, logger: log}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("address", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
