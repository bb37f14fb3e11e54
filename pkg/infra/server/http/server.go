// Package http provides the gin-based HTTP server.
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	apierrors "github.com/kart-io/medisearch/pkg/errors"
	"github.com/kart-io/medisearch/pkg/infra/middleware"
	"github.com/kart-io/medisearch/pkg/observability/metrics"
	options "github.com/kart-io/medisearch/pkg/options/server/http"
	"github.com/kart-io/medisearch/pkg/utils/response"
)

// Server is the HTTP server implementation.
type Server struct {
	opts     *options.Options
	engine   *gin.Engine
	handler  http.Handler
	server   *http.Server
	listener net.Listener
}

// ServerOption customizes a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	registry  *metrics.Registry
	namespace string
}

// WithMetrics records request metrics into registry, named under namespace.
func WithMetrics(registry *metrics.Registry, namespace string) ServerOption {
	return func(c *serverConfig) {
		c.registry = registry
		c.namespace = namespace
	}
}

// NewServer creates a gin engine with the standard middleware chain:
// recovery, request id, tracing, request metrics, then access logging.
// CORS wraps the engine so preflight requests never reach the router.
func NewServer(opts *options.Options, serverOpts ...ServerOption) (*Server, error) {
	if opts == nil {
		opts = options.NewOptions()
	}
	var cfg serverConfig
	for _, o := range serverOpts {
		o(&cfg)
	}

	// Gin mode
	gin.SetMode(gin.ReleaseMode)

	// Engine without the default middleware
	engine := gin.New()
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Tracing(opts.APIPrefix+"/health"),
	)
	if cfg.registry != nil {
		collector := middleware.NewMetricsCollector(cfg.registry, cfg.namespace)
		engine.Use(middleware.Metrics(collector, "/metrics"))
	}
	engine.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		SkipPaths: []string{opts.APIPrefix + "/health", "/metrics"},
	}))
	engine.NoRoute(func(c *gin.Context) {
		response.Fail(c, apierrors.ErrNotFound.WithMessage("Route not found"))
	})

	wrap, err := middleware.CORS(middleware.CORSConfig{AllowOrigins: opts.CORSAllowedOrigins})
	if err != nil {
		return nil, err
	}

	return &Server{
		opts:    opts,
		engine:  engine,
		handler: wrap(engine),
	}, nil
}

// Name returns the server name.
func (s *Server) Name() string {
	return "http[gin]"
}

// Engine returns the underlying gin.Engine for route registration.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler returns the engine wrapped with CORS handling.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the bound address once started, or the configured one.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.opts.Addr
}

// Start binds the listen address and serves in the background. Bind
// failures are returned synchronously.
func (s *Server) Start(_ context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.opts.Addr, err)
	}
	s.listener = ln

	s.server = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  s.opts.IdleTimeout,
	}

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("HTTP server stopped unexpectedly", "addr", ln.Addr().String(), "error", err.Error())
		}
	}()

	logger.Infow("HTTP server listening", "addr", ln.Addr().String(), "api_prefix", s.opts.APIPrefix)
	return nil
}

// Stop stops the HTTP server gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
