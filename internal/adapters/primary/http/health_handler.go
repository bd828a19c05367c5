package http

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/lorrc/kanban-board/internal/core/domain"
)

// HealthChecker defines the interface for health check dependencies
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// SnapshotProvider exposes the installed board snapshot
type SnapshotProvider interface {
	Snapshot() *domain.Snapshot
}

// ViewCacheReporter is implemented by boards that memoize computed views
type ViewCacheReporter interface {
	ViewCacheStats() (hits, misses uint64, entries int)
}

// ViewCacheStats is the view cache section of the health report
type ViewCacheStats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// HealthHandler handles health check requests
type HealthHandler struct {
	store     HealthChecker
	board     SnapshotProvider
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store HealthChecker, board SnapshotProvider, version string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		board:     board,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp string           `json:"timestamp"`
	Version   string           `json:"version,omitempty"`
	Uptime    string           `json:"uptime,omitempty"`
	Checks    map[string]Check `json:"checks,omitempty"`
}

// Check represents an individual health check result
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// HandleLiveness reports that the process is up
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleReadiness reports whether the preference store answers and a
// board snapshot has been loaded
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	response := h.runChecks(r.Context())

	statusCode := http.StatusOK
	if response.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	WriteJSON(w, statusCode, response)
}

// HandleHealth adds runtime stats to the readiness checks
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	response := struct {
		HealthResponse
		Memory struct {
			Alloc uint64 `json:"alloc_bytes"`
			Sys   uint64 `json:"sys_bytes"`
			NumGC uint32 `json:"num_gc"`
		} `json:"memory"`
		Goroutines int             `json:"goroutines"`
		ViewCache  *ViewCacheStats `json:"view_cache,omitempty"`
	}{
		HealthResponse: h.runChecks(r.Context()),
		Goroutines:     runtime.NumGoroutine(),
	}
	response.Memory.Alloc = memStats.Alloc
	response.Memory.Sys = memStats.Sys
	response.Memory.NumGC = memStats.NumGC
	if reporter, ok := h.board.(ViewCacheReporter); ok {
		hits, misses, entries := reporter.ViewCacheStats()
		response.ViewCache = &ViewCacheStats{Hits: hits, Misses: misses, Entries: entries}
	}

	statusCode := http.StatusOK
	if response.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	WriteJSON(w, statusCode, response)
}

func (h *HealthHandler) runChecks(ctx context.Context) HealthResponse {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	checks := map[string]Check{
		"preferences": h.checkStore(ctx),
		"board":       h.checkBoard(),
	}

	status := "healthy"
	for _, c := range checks {
		if c.Status != "healthy" {
			status = "unhealthy"
		}
	}

	return HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    checks,
	}
}

func (h *HealthHandler) checkStore(ctx context.Context) Check {
	if h.store == nil {
		return Check{Status: "unhealthy", Message: "Preference store not configured"}
	}

	start := time.Now()
	err := h.store.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{Status: "unhealthy", Message: err.Error(), Latency: latency.String()}
	}
	return Check{Status: "healthy", Latency: latency.String()}
}

func (h *HealthHandler) checkBoard() Check {
	if h.board == nil {
		return Check{Status: "unhealthy", Message: "Board not configured"}
	}
	if !h.board.Snapshot().IsLoaded() {
		return Check{Status: "unhealthy", Message: "Board snapshot has not been loaded"}
	}
	return Check{Status: "healthy"}
}
