package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/danipagano/digital-collections-monitor/internal/repo"
	"github.com/danipagano/digital-collections-monitor/internal/stats"
)

// Server exposes read-only JSON views over the result store: current
// status, windowed uptime stats, and recorded alerts.
type Server struct {
	Logger  *zap.Logger
	Results repo.ResultStore
	Alerts  repo.AlertStore
	Window  time.Duration
}

func NewServer(l *zap.Logger, results repo.ResultStore, alerts repo.AlertStore, window time.Duration) *Server {
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &Server{Logger: l, Results: results, Alerts: alerts, Window: window}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/status", s.handleStatus)
	r.Get("/api/stats", s.handleStats)
	r.Get("/api/alerts", s.handleAlerts)

	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	current, err := s.Results.CurrentStatus(r.Context())
	if err != nil {
		s.Logger.Warn("status_error", zap.Error(err))
		http.Error(w, "status error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, current)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	window := s.Window
	if v := r.URL.Query().Get("hours"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "bad hours", http.StatusBadRequest)
			return
		}
		window = time.Duration(n) * time.Hour
	}

	now := time.Now().UTC()
	history, err := s.Results.History(r.Context(), now.Add(-window))
	if err != nil {
		s.Logger.Warn("stats_error", zap.Error(err))
		http.Error(w, "stats error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats.Uptime(history, window, now))
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	onlyUnresolved := r.URL.Query().Get("unresolved") == "true"
	alerts, err := s.Alerts.Alerts(r.Context(), onlyUnresolved)
	if err != nil {
		s.Logger.Warn("alerts_error", zap.Error(err))
		http.Error(w, "alerts error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, alerts)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
