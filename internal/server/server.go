// Package server exposes now playing, recently played and the local
// history log over a small JSON HTTP API.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tessro/tuneboard/internal/core"
	"github.com/tessro/tuneboard/internal/history"
	"github.com/tessro/tuneboard/internal/nowplaying"
)

// Deps are the services the handlers call into.
type Deps struct {
	Player   core.Player
	Creds    core.CredentialSource
	Watcher  *nowplaying.Watcher
	Poller   *nowplaying.HistoryPoller
	Recorder *history.Recorder

	// RecentLimit is the default for /api/recently-played.
	RecentLimit int
}

// Options configures the router.
type Options struct {
	CORSOrigins []string
	// RateLimit is requests per minute per client IP. Zero or negative
	// disables limiting.
	RateLimit int
}

// Server holds the HTTP handlers.
type Server struct {
	deps Deps
	opts Options
}

// New creates a Server.
func New(deps Deps, opts Options) *Server {
	if deps.RecentLimit <= 0 {
		deps.RecentLimit = 10
	}
	return &Server{deps: deps, opts: opts}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(requestLogging)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if s.opts.RateLimit > 0 {
			r.Use(httprate.LimitByIP(s.opts.RateLimit, time.Minute))
		}
		r.Get("/now-playing", s.handleNowPlaying)
		r.Get("/recently-played", s.handleRecentlyPlayed)
		r.Get("/history", s.handleHistory)
		r.Post("/track", s.handleTrack)
		r.Post("/player/{action}", s.handlePlayer)
	})

	return r
}

// HTTPServer returns an *http.Server serving Handler on addr.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
