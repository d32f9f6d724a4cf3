package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/thehfhotel/loyalty-backend/internal/api/middleware"
	"github.com/thehfhotel/loyalty-backend/internal/api/response"
	"github.com/thehfhotel/loyalty-backend/internal/ledger"
)

// DBPinger reports database connectivity.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// SweepStatus reports the expiry sweeper's state.
type SweepStatus interface {
	Running() bool
	LastSweep() (time.Time, *ledger.SweepResult)
}

// HealthHandler handles the GET /health endpoint.
type HealthHandler struct {
	db      DBPinger
	sweeper SweepStatus
	version string
}

// NewHealthHandler creates a new HealthHandler. sweeper may be nil when the
// expiry sweeper is disabled.
func NewHealthHandler(db DBPinger, sweeper SweepStatus, version string) *HealthHandler {
	return &HealthHandler{
		db:      db,
		sweeper: sweeper,
		version: version,
	}
}

type databaseStatus struct {
	Connected bool `json:"connected"`
}

type sweeperStatus struct {
	Enabled     bool    `json:"enabled"`
	Running     bool    `json:"running"`
	LastSweepAt *string `json:"lastSweepAt"`
}

type healthData struct {
	Status   string         `json:"status"`
	Version  string         `json:"version"`
	Database databaseStatus `json:"database"`
	Sweeper  sweeperStatus  `json:"sweeper"`
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	connected := h.db.Ping(r.Context()) == nil

	status := "healthy"
	if !connected {
		status = "degraded"
	}

	sweeper := sweeperStatus{Enabled: h.sweeper != nil}
	if h.sweeper != nil {
		sweeper.Running = h.sweeper.Running()
		if at, _ := h.sweeper.LastSweep(); !at.IsZero() {
			formatted := at.UTC().Format(time.RFC3339)
			sweeper.LastSweepAt = &formatted
		}
	}

	data := healthData{
		Status:   status,
		Version:  h.version,
		Database: databaseStatus{Connected: connected},
		Sweeper:  sweeper,
	}

	response.Success(w, http.StatusOK, data, requestID)
}
