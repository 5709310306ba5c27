package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/lifts/internal/tracker"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	tracker *tracker.Tracker
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(tr *tracker.Tracker, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		tracker: tr,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Route("/api/v1/lifts", func(r chi.Router) {
		r.Get("/", s.handleListLifts)
		r.Get("/{lift}", s.handleGetLift)

		// Edits (API key required)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Put("/{lift}/work-weight", s.handleSetWorkWeight)
			r.Put("/{lift}/notes", s.handleSetNotes)
		})
	})

	// Stateless calculator endpoints
	s.router.Get("/api/v1/plates", s.handlePlates)
	s.router.Get("/api/v1/calculate", s.handleCalculate)
}

// MountMCP exposes an MCP transport under /mcp behind the API key.
func (s *Server) MountMCP(h http.Handler) {
	s.router.With(APIKeyAuth(s.apiKey)).Handle("/mcp", h)
}
