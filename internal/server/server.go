// Package server provides the HTTP form and JSON API.
package server

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"BuySignal/internal/advisor"
	"BuySignal/internal/recorder"
	"BuySignal/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// Config holds server dependencies.
type Config struct {
	Addr           string
	AllowedOrigins []string
	Advisor        *advisor.Advisor
	Store          *store.SelectionStore
	Recorder       recorder.Recorder
	Log            zerolog.Logger
}

// Server serves the questionnaire page and the API.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	advisor  *advisor.Advisor
	store    *store.SelectionStore
	recorder recorder.Recorder
	page     *template.Template
	log      zerolog.Logger
}

// New creates a new HTTP server.
func New(cfg Config) (*Server, error) {
	page, err := template.New("index.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	rec := cfg.Recorder
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}

	s := &Server{
		router:   chi.NewRouter(),
		advisor:  cfg.Advisor,
		store:    cfg.Store,
		recorder: rec,
		page:     page,
		log:      cfg.Log.With().Str("component", "server").Logger(),
	}
	s.setupRoutes(cfg.AllowedOrigins)

	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
	return s, nil
}

func (s *Server) setupRoutes(allowedOrigins []string) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.handleIndex)
	s.router.Post("/", s.handleSubmit)
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		if len(allowedOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: allowedOrigins,
				AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
				AllowedHeaders: []string{"Accept", "Content-Type"},
				MaxAge:         300,
			}))
		}
		r.Post("/evaluate", s.handleEvaluate)
		r.Get("/chart", s.handleChart)
		r.Get("/history", s.handleHistory)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
