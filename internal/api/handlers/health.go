package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Pinger is the slice of pgxpool.Pool the readiness probe needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	DB      Pinger
	Version string
}

func NewHealthHandler(db Pinger, version string) *HealthHandler {
	return &HealthHandler{DB: db, Version: version}
}

// Healthz reports process liveness. It never touches dependencies.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeProbe(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": h.Version,
	})
}

// Readyz reports whether the server can do useful work, which for this
// service means the database answers a ping.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.DB == nil {
		writeProbe(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	if err := h.DB.Ping(ctx); err != nil {
		writeProbe(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unavailable",
			"database": "fail",
		})
		return
	}

	writeProbe(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"database": "ok",
	})
}

func writeProbe(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
