// Package api provides the HTTP API server for the browser chat proxy. It
// wires the Gin engine, the OpenAI-compatible handlers, request logging,
// metrics and the 404 fallback into one Server with graceful shutdown.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/router-for-me/BrowserProxyAPI/internal/api/handlers/openai"
	"github.com/router-for-me/BrowserProxyAPI/internal/api/middleware"
	"github.com/router-for-me/BrowserProxyAPI/internal/browser"
	"github.com/router-for-me/BrowserProxyAPI/internal/config"
	"github.com/router-for-me/BrowserProxyAPI/internal/conversation"
	"github.com/router-for-me/BrowserProxyAPI/internal/logging"
)

type serverOptionConfig struct {
	extraMiddleware []gin.HandlerFunc
}

// ServerOption customises HTTP server construction.
type ServerOption func(*serverOptionConfig)

// WithMiddleware appends additional Gin middleware during server construction.
func WithMiddleware(mw ...gin.HandlerFunc) ServerOption {
	return func(cfg *serverOptionConfig) {
		cfg.extraMiddleware = append(cfg.extraMiddleware, mw...)
	}
}

// Server represents the proxy API server.
type Server struct {
	engine  *gin.Engine
	server  *http.Server
	handler *openai.Handler
}

// New constructs a Server serving the OpenAI-compatible surface over the
// given driver and memory.
func New(cfg *config.Config, driver browser.Driver, memory *conversation.Memory, opts ...ServerOption) *Server {
	optCfg := &serverOptionConfig{}
	for _, opt := range opts {
		opt(optCfg)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(logging.GinRecovery(), logging.GinLogrusLogger(), middleware.Metrics())
	engine.Use(optCfg.extraMiddleware...)

	handler := openai.NewHandler(driver, memory)
	handler.SetStreaming(cfg.Stream)

	s := &Server{
		engine:  engine,
		handler: handler,
		server: &http.Server{
			Addr:    cfg.Addr(),
			Handler: engine,
			// No write timeout: a completion response legitimately takes
			// as long as the browser exchange does.
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.POST("/chat/completions", s.handler.ChatCompletions)
	s.engine.GET("/models", s.handler.OpenAIModels)

	// Mirror the endpoints under /v1 for clients that hardcode the prefix.
	v1 := s.engine.Group("/v1")
	{
		v1.POST("/chat/completions", s.handler.ChatCompletions)
		v1.GET("/models", s.handler.OpenAIModels)
	}

	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"message":       "Undefined route",
			"requested_url": c.Request.URL.Path,
		})
	})
}

// ApplyConfig re-applies the runtime-safe subset of a reloaded configuration:
// log verbosity and the streaming toggle. Bind address and site selection
// require a restart.
func (s *Server) ApplyConfig(cfg *config.Config) {
	logging.SetVerbosity(cfg.Verbosity)
	s.handler.SetStreaming(cfg.Stream)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start begins serving. It blocks until the server stops and returns an error
// only for abnormal termination.
func (s *Server) Start() error {
	log.Infof("starting API server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
