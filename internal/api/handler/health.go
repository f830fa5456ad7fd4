package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/daap14/members/internal/api/middleware"
	"github.com/daap14/members/internal/api/response"
)

const pingTimeout = 2 * time.Second

// DBPinger checks database reachability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	db      DBPinger
	version string
}

// NewHealthHandler creates a new HealthHandler. A nil pinger reports the
// database as disconnected.
func NewHealthHandler(db DBPinger, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		version: version,
	}
}

type databaseStatus struct {
	Connected bool `json:"connected"`
}

type healthData struct {
	Status   string         `json:"status"`
	Version  string         `json:"version"`
	Database databaseStatus `json:"database"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	connected := false
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		err := h.db.Ping(ctx)
		cancel()
		if err != nil {
			slog.Warn("database ping failed", "error", err, "requestId", requestID)
		}
		connected = err == nil
	}

	status := "healthy"
	if !connected {
		status = "degraded"
	}

	response.Success(w, http.StatusOK, healthData{
		Status:   status,
		Version:  h.version,
		Database: databaseStatus{Connected: connected},
	}, requestID)
}
