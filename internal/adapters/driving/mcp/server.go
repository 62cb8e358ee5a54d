package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/vibe/internal/core/session"
	"github.com/custodia-labs/vibe/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// MetricsPath is where RunHTTP serves Prometheus metrics.
const MetricsPath = "/metrics"

// Server is the MCP server for vibe.
type Server struct {
	ports  *Ports
	server *mcp.Server

	// defaultID is the workspace used when a call names none.
	mu        sync.Mutex
	defaultID string
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "vibe",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, nil),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the HTTP handler serving MCP at / and metrics at MetricsPath.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(MetricsPath, promhttp.Handler())
	mux.Handle("/", mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil))
	return mux
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("MCP server listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// session resolves a workspace ID, opening the default workspace on
// first use when id is empty.
func (s *Server) session(ctx context.Context, id string) (*session.Session, error) {
	if id != "" {
		return s.ports.Sessions.Get(ctx, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.defaultID != "" {
		if sess, err := s.ports.Sessions.Get(ctx, s.defaultID); err == nil {
			return sess, nil
		}
	}
	sess, err := s.ports.Sessions.Open(ctx, nil)
	if err != nil {
		return nil, err
	}
	s.defaultID = sess.ID()
	return sess, nil
}
