package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthStatus is what /health reports about the console.
type HealthStatus struct {
	Status         string    `json:"status"`
	LastChecked    time.Time `json:"last_checked"`
	Uptime         string    `json:"uptime"`
	Version        string    `json:"version"`
	APIURL         string    `json:"api_url"`
	OpenWorkspaces int       `json:"open_workspaces"`
}

type Health struct {
	mu         sync.RWMutex
	status     HealthStatus
	startTime  time.Time
	workspaces func() int
}

func NewHealth(version, apiURL string, workspaces func() int) *Health {
	now := time.Now()
	return &Health{
		status: HealthStatus{
			Status:      HealthOK,
			LastChecked: now,
			Version:     version,
			APIURL:      apiURL,
		},
		startTime:  now,
		workspaces: workspaces,
	}
}

// Handler serves the health endpoint.
func (h *Health) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.mu.Lock()
		h.status.Uptime = time.Since(h.startTime).Round(time.Second).String()
		h.status.LastChecked = time.Now()
		if h.workspaces != nil {
			h.status.OpenWorkspaces = h.workspaces()
		}
		snapshot := h.status
		h.mu.Unlock()

		c.JSON(http.StatusOK, snapshot)
	}
}

const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// TrackUpstream reports degraded while the inventory API cannot be reached.
func (h *Health) TrackUpstream(reachable bool) {
	if reachable {
		h.UpdateStatus(HealthOK)
		return
	}
	h.UpdateStatus(HealthDegraded)
}

// UpdateStatus sets the reported status.
func (h *Health) UpdateStatus(status string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.status.Status = status
	h.status.LastChecked = time.Now()
}
