// Package server serves an HTTP preview of mixed prose-and-math text.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alnah/go-mdmath"
)

// Defaults used when Options leaves a field empty.
const (
	DefaultAddr         = "127.0.0.1:8080"
	DefaultMaxBodyBytes = 1 << 20

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// ConverterPool hands out converters for the duration of one request.
type ConverterPool interface {
	Acquire(ctx context.Context) (*mdmath.Converter, error)
	Release(conv *mdmath.Converter)
}

// Options configures a Server.
type Options struct {
	Addr         string
	MaxBodyBytes int64
	Logger       *slog.Logger
}

// Server is the HTTP preview server.
type Server struct {
	router       chi.Router
	pool         ConverterPool
	log          *slog.Logger
	addr         string
	maxBodyBytes int64
}

// New creates a Server rendering with converters from pool.
func New(pool ConverterPool, opts Options) *Server {
	s := &Server{
		pool:         pool,
		log:          opts.Logger,
		addr:         opts.Addr,
		maxBodyBytes: opts.MaxBodyBytes,
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	if s.addr == "" {
		s.addr = DefaultAddr
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = DefaultMaxBodyBytes
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Addr returns the address Run listens on.
func (s *Server) Addr() string {
	return s.addr
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Post("/render", s.handleRender)

	s.router = r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       baseContext(ctx),
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving %s: %w", s.addr, err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// baseContext keeps ctx values on every request but not its cancellation,
// so Shutdown can drain in-flight renders after ctx is done.
func baseContext(ctx context.Context) func(net.Listener) context.Context {
	base := context.WithoutCancel(ctx)
	return func(_ net.Listener) context.Context { return base }
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
