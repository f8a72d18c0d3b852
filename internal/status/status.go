// Package status serves the liveness, welcome and not-found responses.
package status

import (
	"log/slog"
	"net/http"
	"time"

	"portfolio-backend/internal/transport"
)

// Version is reported by the welcome payload; overridden at build time with -ldflags.
var Version = "1.0.0"

// ConnState reports whether the database has been reached.
type ConnState interface {
	Connected() bool
}

type Handler struct {
	db      ConnState
	started time.Time
	log     *slog.Logger
	now     func() time.Time
}

func NewHandler(db ConnState, started time.Time, log *slog.Logger) *Handler {
	return &Handler{
		db:      db,
		started: started,
		log:     log,
		now:     time.Now,
	}
}

type healthResponse struct {
	Status    string  `json:"status"`
	Message   string  `json:"message"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
	Database  string  `json:"database"`
}

// Health always answers 200; the database field carries the connection state.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	database := "Connecting..."
	if h.db != nil && h.db.Connected() {
		database = "Connected"
	}
	transport.WriteJSON(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Message:   "Portfolio API is running",
		Timestamp: now.UTC().Format(time.RFC3339Nano),
		Uptime:    now.Sub(h.started).Seconds(),
		Database:  database,
	})
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Welcome to the Portfolio API",
		"version": Version,
		"endpoints": map[string]string{
			"health":     "/health",
			"contact":    "/api/v1/contact",
			"projects":   "/api/v1/projects",
			"experience": "/api/v1/experience",
		},
	})
}

// NotFound also serves unmatched methods so both answer with the same body.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	if h.log != nil {
		h.log.Warn("route not found", slog.String("method", r.Method), slog.String("path", r.URL.Path))
	}
	transport.WriteError(w, http.StatusNotFound, "Route not found", "The route "+r.URL.Path+" does not exist", nil)
}
