package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mockingj/mockingj/pkg/config"
	"github.com/mockingj/mockingj/pkg/generator"
	"github.com/mockingj/mockingj/pkg/logging"
	"github.com/mockingj/mockingj/pkg/parser"
)

// Server serves synthetic responses for every endpoint of a parsed
// specification document.
type Server struct {
	cfg *config.Config
	doc *parser.Document
	gen *generator.MockDataGenerator
	log *slog.Logger

	httpServer *http.Server
	listener   net.Listener

	mu      sync.RWMutex
	running bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a server for the document's endpoints. The generator is
// used to produce every response body.
func New(cfg *config.Config, doc *parser.Document, gen *generator.MockDataGenerator, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Server{
		cfg: cfg,
		doc: doc,
		gen: gen,
		log: logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.httpServer = &http.Server{
		Handler:           s.buildHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start binds the listener and begins serving in the background. It
// returns once the listener is bound, so Addr() is valid afterwards.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return errors.New("server already running")
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = ln
	s.running = true

	tls := s.cfg.Server.TLS
	go func() {
		var serveErr error
		if tls.Enabled {
			serveErr = s.httpServer.ServeTLS(ln, tls.CertFile, tls.KeyFile)
		} else {
			serveErr = s.httpServer.Serve(ln)
		}
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.log.Error("server stopped unexpectedly", "error", serveErr)
		}
	}()

	s.log.Info("server started",
		"addr", ln.Addr().String(),
		"endpoints", len(s.doc.Endpoints),
		"tls", tls.Enabled)
	return nil
}

// Stop drains in-flight requests and shuts the server down. The context
// bounds how long draining may take.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// Addr returns the bound listen address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning reports whether the server is accepting requests.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}
