// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package api

import (
	"context"
	"net/http"
	"time"
)

// healthCheckTimeout bounds each dependency ping in /health.
const healthCheckTimeout = 5 * time.Second

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status           string          `json:"status"` // "healthy" or "degraded"
	Version          string          `json:"version,omitempty"`
	Uptime           float64         `json:"uptime_seconds"`
	WordPress        DependencyState `json:"wordpress"`
	Store            DependencyState `json:"store"`
	Sessions         int             `json:"feed_sessions"`
	WebSocketClients int             `json:"websocket_clients"`
}

// DependencyState describes one upstream dependency.
type DependencyState struct {
	Connected bool   `json:"connected"`
	Circuit   string `json:"circuit,omitempty"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ReadinessStatus is the body of GET /health/ready.
type ReadinessStatus struct {
	Ready          bool   `json:"ready"`
	StoreConnected bool   `json:"store_connected"`
	Circuit        string `json:"circuit,omitempty"`
}

// Health reports dependency status. It always answers 200; status is
// "degraded" when WordPress or the snapshot store cannot be reached.
//
// @Summary Get service health
// @Description Reports WordPress, snapshot store and circuit breaker status. Always 200; status is degraded when a dependency fails.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} APIResponse{data=HealthStatus} "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Seconds(),
		WordPress: h.ping(r.Context(), h.wp),
		Store:     h.ping(r.Context(), h.store),
	}
	status.WordPress.Circuit = h.circuitState()

	if !status.WordPress.Connected || !status.Store.Connected {
		status.Status = "degraded"
	}
	if h.registry != nil {
		status.Sessions = h.registry.Len()
	}
	if h.hub != nil {
		status.WebSocketClients = h.hub.GetClientCount()
	}

	NewResponseWriter(w, r).Success(status)
}

// HealthLive answers 200 while the process is alive.
//
// @Summary Liveness probe
// @Description Returns 200 OK while the process is alive, regardless of dependencies.
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady answers 200 when the service can serve traffic: the snapshot
// store responds and the WordPress circuit is not open. WordPress itself is
// not pinged, so probes never add upstream load.
//
// @Summary Readiness probe
// @Description Returns 200 OK when the snapshot store responds and the WordPress circuit is not open. Returns 503 otherwise.
// @Tags Core
// @Produce json
// @Success 200 {object} APIResponse{data=ReadinessStatus} "Service is ready"
// @Failure 503 {object} APIResponse{data=ReadinessStatus} "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	storeOK := h.ping(r.Context(), h.store).Connected
	circuit := h.circuitState()

	status := ReadinessStatus{
		Ready:          storeOK && circuit != "open",
		StoreConnected: storeOK,
		Circuit:        circuit,
	}

	rw := NewResponseWriter(w, r)
	if !status.Ready {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Service is not ready", status)
		return
	}
	rw.Success(status)
}

// ping checks one dependency. A nil dependency counts as connected: the
// store is optional and an unset client is a test configuration.
func (h *Handler) ping(ctx context.Context, p Pinger) DependencyState {
	if p == nil {
		return DependencyState{Connected: true}
	}
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	state := DependencyState{
		Connected: err == nil,
		LatencyMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		state.Error = sanitizeLogValue(err.Error())
	}
	return state
}

func (h *Handler) circuitState() string {
	if h.breaker == nil {
		return ""
	}
	return h.breaker.State()
}
