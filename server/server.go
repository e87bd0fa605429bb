// Package server implements the OCR HTTP gateway: a stateless adapter from
// multipart or base64 image uploads to a single ocr.Engine invocation, with
// JSON responses and interactive API documentation.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"golang.org/x/net/netutil"

	"github.com/wudi/ocrkit/observability"
	"github.com/wudi/ocrkit/ocr"
)

// Server owns the loaded engine and the route table. It is constructed once
// at process start, after the engine has loaded, and holds no per-request
// state.
type Server struct {
	cfg    Config
	engine ocr.Engine
	log    observability.Logger
	tracer observability.Tracer
	sem    chan struct{}
	mux    *http.ServeMux
}

// New wires the gateway's routes around a loaded engine.
func New(engine ocr.Engine, cfg Config) *Server {
	cfg = cfg.withDefaults()
	s := &Server{
		cfg:    cfg,
		engine: engine,
		log:    cfg.Logger,
		tracer: cfg.Tracer,
		sem:    make(chan struct{}, cfg.MaxInflight),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/ocr", s.handleOCR)
	mux.HandleFunc("/openapi.json", s.handleOpenAPI)
	mux.HandleFunc("/docs", s.handleDocs)
	mux.HandleFunc("/redoc", s.handleRedoc)
	s.mux = mux
	return s
}

// Handler returns the full middleware-wrapped route table.
func (s *Server) Handler() http.Handler {
	return s.withCORS(s.withRecovery(s.withLogging(s.mux)))
}

// Run listens on cfg.Addr and serves until ctx is canceled, then drains
// in-flight requests within the shutdown timeout. The listener is only
// opened here, after engine construction, so a liveness probe cannot succeed
// before the model has loaded.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	if s.cfg.MaxConns > 0 {
		ln = netutil.LimitListener(ln, s.cfg.MaxConns)
	}

	srv := &http.Server{Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	s.log.Info("gateway listening",
		observability.String("addr", ln.Addr().String()),
		observability.String("engine", s.engine.Name()),
		observability.Int("max_inflight", s.cfg.MaxInflight))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
