package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/JonasdeSouza/rusty-weather/internal/auth"
	"github.com/JonasdeSouza/rusty-weather/internal/config"
	"github.com/JonasdeSouza/rusty-weather/internal/models"
	"github.com/JonasdeSouza/rusty-weather/internal/store"
	"github.com/JonasdeSouza/rusty-weather/internal/web"
	"github.com/JonasdeSouza/rusty-weather/internal/ws"
)

// Transport is the slice of the MQTT client the API needs for health checks.
type Transport interface {
	Connected() bool
}

type Server struct {
	cfg       *config.Config
	store     *store.Store
	hub       *ws.Hub
	transport Transport
	auth      *auth.JWTManager
	router    *chi.Mux
	started   time.Time
}

func NewServer(cfg *config.Config, store *store.Store, hub *ws.Hub, transport Transport) *Server {
	s := &Server{
		cfg:       cfg,
		store:     store,
		hub:       hub,
		transport: transport,
		router:    chi.NewRouter(),
		started:   time.Now(),
	}
	if cfg.JWTSecret != "" {
		s.auth = auth.NewJWTManager(cfg.JWTSecret)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", web.Dashboard)
	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Group(func(r chi.Router) {
		if s.auth != nil {
			r.Use(s.jwtMiddleware)
		}
		r.Get("/api/readings", s.handleSnapshotAll)
		r.Get("/api/readings/*", s.handleSnapshot)
		r.Get("/ws", s.handleWS)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handleSnapshot returns the latest reading for one topic, or 404 when
// nothing has been ingested for it yet.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "*")
	reading, ok := s.store.Read(topic)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no data"})
		return
	}
	writeJSON(w, http.StatusOK, reading.Payload())
}

func (s *Server) handleSnapshotAll(w http.ResponseWriter, r *http.Request) {
	snapshot := s.store.Snapshot()
	out := make(map[string]models.Payload, len(snapshot))
	for topic, reading := range snapshot {
		out[topic] = reading.Payload()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	ws.Serve(s.hub, w, r, topic, s.cfg.ViewerBuffer)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
