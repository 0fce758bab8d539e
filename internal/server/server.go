// Package server exposes the summarization pipeline over HTTP: a bare HTML
// form plus a JSON API for URL and PDF sources.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"papersum/internal/domain"
	"papersum/internal/ratelimiter"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	readHeaderTimeout = 10 * time.Second
	// Covers acquisition plus three model calls at their default timeout.
	requestTimeout = 5 * time.Minute
)

// Acquirer loads a Document from a URL or from uploaded PDF bytes.
type Acquirer interface {
	AcquireURL(ctx context.Context, rawURL string) (domain.Document, error)
	AcquireFile(ctx context.Context, name string, data []byte) (domain.Document, error)
}

// Orchestrator produces one summary per catalog kind.
type Orchestrator interface {
	SummarizeAll(ctx context.Context, doc domain.Document) (domain.SummarySet, error)
}

type Options struct {
	Addr           string
	UploadMaxBytes int64

	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}

type Server struct {
	acquirer     Acquirer
	orchestrator Orchestrator
	limiter      *ratelimiter.Limiter
	opts         Options
	log          *slog.Logger
	server       *http.Server
}

func New(
	acquirer Acquirer,
	orchestrator Orchestrator,
	limiter *ratelimiter.Limiter,
	opts Options,
	log *slog.Logger,
) *Server {
	return &Server{
		acquirer:     acquirer,
		orchestrator: orchestrator,
		limiter:      limiter,
		opts:         opts,
		log:          log,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.opts.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)

	r.Route("/api/summaries", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(s.rateLimit)
		r.Post("/url", s.handleSummarizeURL)
		r.Post("/pdf", s.handleSummarizePDF)
	})

	return r
}

// Start blocks until the server stops. A graceful Stop is not an error.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	s.log.Info("Starting server",
		"addr", s.opts.Addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}

	return nil
}
