// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"net/http"
	"time"

	"github.com/go-agentrun/agentrun"
)

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   a.serviceName,
	})
}

func (a *App) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if !a.ready.Load() {
		writeError(w, http.StatusInternalServerError, "not_ready", "application is not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("success"))
}

func (a *App) handleLiveness(w http.ResponseWriter, r *http.Request) {
	if !a.healthy.Load() {
		writeError(w, http.StatusInternalServerError, "not_healthy", "application is not healthy")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("success"))
}

func (a *App) handleRoot(w http.ResponseWriter, r *http.Request) {
	endpoints := map[string]string{
		"process":   a.endpointPath,
		"health":    "/health",
		"readiness": "/readiness",
		"liveness":  "/liveness",
	}
	if a.mode == agentrun.ModeDetached {
		endpoints["admin_status"] = "/admin/status"
		endpoints["admin_shutdown"] = "/admin/shutdown"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"service":   a.serviceName,
		"version":   agentrun.Version,
		"mode":      a.mode,
		"endpoints": endpoints,
	})
}
