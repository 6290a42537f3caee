// internal/handlers/health.go
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/hibiken/asynq"
)

// Pinger is anything whose reachability can be checked
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

// Ping calls f
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Dependency is a named backend the service relies on. Optional
// dependencies degrade health without failing readiness.
type Dependency struct {
	Name     string
	Check    Pinger
	Optional bool
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	deps        []Dependency
	inspector   *asynq.Inspector
	version     string
	environment string
	logger      *slog.Logger
	startTime   time.Time
}

// NewHealthHandler creates a new health handler. inspector may be nil.
func NewHealthHandler(deps []Dependency, inspector *asynq.Inspector, version, environment string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		deps:        deps,
		inspector:   inspector,
		version:     version,
		environment: environment,
		logger:      logger.With(slog.String("handler", "health")),
		startTime:   time.Now(),
	}
}

// HealthStatus represents the health status of the application
type HealthStatus struct {
	Status      string                 `json:"status"`
	Version     string                 `json:"version"`
	Environment string                 `json:"environment"`
	Uptime      string                 `json:"uptime"`
	Timestamp   time.Time              `json:"timestamp"`
	Services    map[string]ServiceInfo `json:"services"`
	System      SystemInfo             `json:"system"`
}

// ServiceInfo represents the status of a service dependency
type ServiceInfo struct {
	Status       string         `json:"status"`
	Message      string         `json:"message,omitempty"`
	ResponseTime string         `json:"response_time,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}

// SystemInfo represents process-level information
type SystemInfo struct {
	GoVersion     string `json:"go_version"`
	NumGoroutines int    `json:"num_goroutines"`
	MemoryAllocMB uint64 `json:"memory_alloc_mb"`
	NumGC         uint32 `json:"num_gc"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := HealthStatus{
		Status:      "healthy",
		Version:     h.version,
		Environment: h.environment,
		Uptime:      time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:   time.Now().UTC(),
		Services:    make(map[string]ServiceInfo, len(h.deps)+1),
		System:      systemInfo(),
	}

	for _, dep := range h.deps {
		info := h.check(ctx, dep)
		health.Services[dep.Name] = info
		if info.Status != "healthy" {
			health.Status = "degraded"
		}
	}

	if h.inspector != nil {
		info := h.checkQueues()
		health.Services["asynq"] = info
		if info.Status != "healthy" {
			health.Status = "degraded"
		}
	}

	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	h.write(ctx, w, status, health)
}

// Readiness handles GET /ready. Only required dependencies count.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ready := true
	details := make(map[string]string, len(h.deps))
	for _, dep := range h.deps {
		if dep.Optional {
			continue
		}
		if err := dep.Check.Ping(ctx); err != nil {
			ready = false
			details[dep.Name] = "not ready"
			continue
		}
		details[dep.Name] = "ready"
	}

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	h.write(ctx, w, status, map[string]any{"ready": ready, "details": details})
}

func (h *HealthHandler) check(ctx context.Context, dep Dependency) ServiceInfo {
	start := time.Now()
	if err := dep.Check.Ping(ctx); err != nil {
		h.logger.ErrorContext(ctx, "health check failed",
			slog.String("dependency", dep.Name),
			slog.String("error", err.Error()))
		return ServiceInfo{Status: "unhealthy", Message: err.Error()}
	}
	return ServiceInfo{Status: "healthy", ResponseTime: time.Since(start).String()}
}

func (h *HealthHandler) checkQueues() ServiceInfo {
	queues, err := h.inspector.Queues()
	if err != nil {
		return ServiceInfo{Status: "unhealthy", Message: err.Error()}
	}

	details := make(map[string]any, len(queues))
	for _, name := range queues {
		info, err := h.inspector.GetQueueInfo(name)
		if err != nil {
			continue
		}
		details[name] = map[string]int{
			"pending":  info.Pending,
			"active":   info.Active,
			"retry":    info.Retry,
			"archived": info.Archived,
		}
	}
	return ServiceInfo{Status: "healthy", Details: details}
}

func (h *HealthHandler) write(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.ErrorContext(ctx, "failed to encode health response", slog.String("error", err.Error()))
	}
}

func systemInfo() SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return SystemInfo{
		GoVersion:     runtime.Version(),
		NumGoroutines: runtime.NumGoroutine(),
		MemoryAllocMB: m.Alloc / 1024 / 1024,
		NumGC:         m.NumGC,
	}
}
