// Package server exposes the portfolio API and rendered backdrops over HTTP.
//
// Routes:
//
//	GET  /healthz                  liveness and version
//	GET  /api/content              every category's records
//	GET  /api/content/{category}   one category's records
//	GET  /api/nav?y=&vh=           active section for a scroll position
//	POST /api/contact              deliver a contact-form message
//	GET  /backdrop.{format}        render (or serve cached) svg, png or txt
//
// Errors are JSON objects carrying the error code and a user message.
package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/ridgeline/pkg/contact"
	"github.com/matzehuels/ridgeline/pkg/content"
	"github.com/matzehuels/ridgeline/pkg/nav"
	"github.com/matzehuels/ridgeline/pkg/pipeline"
)

// Sender delivers contact messages. *contact.Client implements it.
type Sender interface {
	Send(ctx context.Context, msg contact.Message) (contact.Receipt, error)
}

// Timeouts for the underlying http.Server.
type Timeouts struct {
	Read     time.Duration
	Write    time.Duration
	Shutdown time.Duration
}

// DefaultTimeouts returns conservative server timeouts.
func DefaultTimeouts() Timeouts {
	return Timeouts{Read: 10 * time.Second, Write: 60 * time.Second, Shutdown: 10 * time.Second}
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSender enables POST /api/contact.
func WithSender(snd Sender) Option {
	return func(s *Server) { s.sender = snd }
}

// WithNavOffsets sets the section offsets used by /api/nav.
func WithNavOffsets(offsets map[string]float64) Option {
	return func(s *Server) { s.navOffsets = offsets }
}

// WithRenderDefaults sets the options /backdrop requests start from.
func WithRenderDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.renderDefaults = opts }
}

// WithTimeouts overrides [DefaultTimeouts].
func WithTimeouts(t Timeouts) Option {
	return func(s *Server) { s.timeouts = t }
}

// Server routes requests to the content store, the nav tracker, the contact
// sender and the render pipeline.
type Server struct {
	store          content.Store
	runner         *pipeline.Runner
	sender         Sender
	tracker        *nav.Tracker
	navOffsets     map[string]float64
	renderDefaults pipeline.Options
	timeouts       Timeouts
	logger         *log.Logger
	router         chi.Router
}

// New builds the server and its routes.
func New(store content.Store, runner *pipeline.Runner, opts ...Option) (*Server, error) {
	s := &Server{
		store:    store,
		runner:   runner,
		timeouts: DefaultTimeouts(),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	tracker, err := nav.NewTracker(s.navOffsets)
	if err != nil {
		return nil, err
	}
	s.tracker = tracker
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/content", s.handleContentAll)
		r.Get("/content/{category}", s.handleContent)
		r.Get("/nav", s.handleNav)
		r.Post("/contact", s.handleContact)
	})
	r.Get("/backdrop.{format}", s.handleBackdrop)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "NOT_FOUND", Message: "no such route"})
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully,
// letting in-flight requests finish within the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.timeouts.Read,
		WriteTimeout: s.timeouts.Write,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.Shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
