package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dimerapp/config-parser/internal/http/health"
)

const (
	readTimeout  = 15 * time.Second
	writeTimeout = 15 * time.Second
	idleTimeout  = 60 * time.Second
)

// Options describes the HTTP surface of the MCP server.
type Options struct {
	// Listen is the listen address.
	Listen string
	// Path is the MCP endpoint path.
	Path string
	// MCP serves the streamable MCP endpoint.
	MCP http.Handler
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration
}

// App controls the HTTP server lifecycle.
type App struct {
	baseCtx         context.Context
	server          *http.Server
	health          *health.Handler
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// New initializes the HTTP server with the MCP endpoint and health routes.
func New(baseCtx context.Context, opts Options, logger *slog.Logger) (*App, error) {
	if opts.MCP == nil {
		return nil, fmt.Errorf("mcp handler is nil")
	}
	if baseCtx == nil {
		return nil, fmt.Errorf("base context is nil")
	}
	path := strings.TrimSpace(opts.Path)
	if path == "" {
		path = "/mcp"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	healthHandler := health.New()
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Handle(path, opts.MCP)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics)
	}

	srv := &http.Server{
		Addr:         opts.Listen,
		Handler:      r,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		BaseContext:  func(net.Listener) context.Context { return baseCtx },
	}

	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}

	return &App{
		baseCtx:         baseCtx,
		server:          srv,
		health:          healthHandler,
		logger:          logger,
		shutdownTimeout: shutdownTimeout,
	}, nil
}

// Handler returns the routed handler.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Ready marks the server ready for traffic.
func (a *App) Ready() {
	a.health.SetReady()
}

// Run binds the listen address, reports ready and blocks until ctx is done or
// the server fails. A bind failure is returned before readiness changes.
func (a *App) Run(ctx context.Context) error {
	addr := a.server.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		if a.logger != nil {
			a.logger.Error("http listen failed", "addr", addr, "error", err)
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	a.Ready()
	if a.logger != nil {
		a.logger.Info("http server started", "addr", ln.Addr().String())
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		if a.logger != nil {
			a.logger.Info("shutdown requested")
		}
		return a.shutdown()
	case err := <-errCh:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		if a.logger != nil {
			a.logger.Error("http server error", "error", err)
		}
		return err
	}
}

func (a *App) shutdown() error {
	a.health.SetNotReady()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(a.baseCtx), a.shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
