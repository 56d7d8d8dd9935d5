// Package server exposes the converter over HTTP.
//
// Routes:
//
//	POST /vecpic  multipart upload (file, colormode, filename) -> SVG
//	GET  /        health check -> {"status":"OK"}
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/klauspost/compress/gzhttp"
	"go.uber.org/zap"

	vecpic "github.com/alnah/go-vecpic"
	"github.com/alnah/go-vecpic/internal/config"
)

// ErrNilConverter is returned by New when no converter is given.
var ErrNilConverter = errors.New("server: converter is required")

// Converter is the part of vecpic.Converter the handlers need.
type Converter interface {
	Convert(ctx context.Context, in vecpic.Input) (*vecpic.Result, error)
}

// Compile-time interface implementation check.
var _ Converter = (*vecpic.Converter)(nil)

// Server serves conversion requests.
type Server struct {
	cfg      config.ServerConfig
	conv     Converter
	log      *zap.Logger
	maxBytes int64
	handler  http.Handler
}

// New builds a Server. The handler chain is assembled once here.
func New(cfg config.ServerConfig, conv Converter, log *zap.Logger) (*Server, error) {
	if conv == nil {
		return nil, ErrNilConverter
	}
	if log == nil {
		log = zap.NewNop()
	}

	maxBytes, err := cfg.MaxUploadBytes()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		conv:     conv,
		log:      log,
		maxBytes: maxBytes,
	}
	if s.handler, err = s.routes(); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// compressibleTypes are the response types gzipped when Compress is set.
var compressibleTypes = []string{"image/svg+xml", "application/json"}

func (s *Server) routes() (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(accessLog(s.log))
	r.Use(recoverJSON(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-Id"},
	}))
	if s.cfg.Compress {
		gz, err := gzhttp.NewWrapper(gzhttp.ContentTypes(compressibleTypes))
		if err != nil {
			return nil, fmt.Errorf("configuring compression: %w", err)
		}
		r.Use(func(next http.Handler) http.Handler {
			return gz(next)
		})
	}

	r.Get("/", s.handleHealth)
	r.Post("/vecpic", s.handleVecpic)

	return r, nil
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully, giving in-flight conversions up to ShutdownTimeout to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		ErrorLog:          zap.NewStdLog(s.log.Named("http")),
	}

	uploadLimit := "unlimited"
	if s.maxBytes > 0 {
		uploadLimit = humanize.IBytes(uint64(s.maxBytes))
	}
	s.log.Info("listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("max_upload", uploadLimit),
		zap.Strings("allowed_origins", s.cfg.AllowedOrigins),
		zap.Bool("compress", s.cfg.Compress))

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down", zap.Duration("timeout", s.cfg.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return fmt.Errorf("shutting down: %w", err)
	}
	s.log.Info("stopped")
	return nil
}
