// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

// Package server is the HTTP service surface in front of a runner. It
// translates inbound requests into runner queries and the resulting
// event stream onto the wire, either as Server-Sent Events or as one
// JSON document.
package server

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"

	"github.com/go-agentrun/agentrun"
	"github.com/go-agentrun/agentrun/auth"
	"github.com/go-agentrun/agentrun/runner"
)

// ResponseType selects how the event stream is written to the client.
type ResponseType string

// Response types.
const (
	// ResponseTypeSSE serializes and flushes every event immediately as
	// one SSE frame.
	ResponseTypeSSE ResponseType = "sse"

	// ResponseTypeJSON drains the stream and returns the terminal
	// envelope as a single JSON document.
	ResponseTypeJSON ResponseType = "json"
)

// DefaultEndpointPath is the default processing route.
const DefaultEndpointPath = "/process"

// App is the http.Handler exposing a runner as a service.
type App struct {
	runner       *runner.Runner
	mux          *http.ServeMux
	handler      http.Handler
	endpointPath string
	responseType ResponseType
	mode         agentrun.DeployMode
	serviceName  string
	logger       *slog.Logger
	tracer       trace.Tracer
	verifier     auth.TokenVerifier

	ready   atomic.Bool
	healthy atomic.Bool
}

// New creates the service surface for the runner.
func New(r *runner.Runner, opts ...Option) *App {
	a := &App{
		runner:       r,
		mux:          http.NewServeMux(),
		endpointPath: DefaultEndpointPath,
		responseType: ResponseTypeSSE,
		mode:         agentrun.ModeDaemon,
		serviceName:  agentrun.ServiceName,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ready.Store(true)
	a.healthy.Store(true)

	a.registerRoutes()

	handler := http.Handler(a.mux)
	if a.verifier != nil {
		handler = AuthMiddleware(a.verifier, a.logger)(handler)
	}
	handler = CORSMiddleware()(handler)
	handler = LoggingMiddleware(a.logger)(handler)
	handler = RecoveryMiddleware(a.logger)(handler)
	a.handler = handler

	return a
}

// ServeHTTP implements the http.Handler interface.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) registerRoutes() {
	a.mux.HandleFunc("POST "+a.endpointPath, a.handleProcess)
	a.mux.HandleFunc("GET /health", a.handleHealth)
	a.mux.HandleFunc("GET /readiness", a.handleReadiness)
	a.mux.HandleFunc("GET /liveness", a.handleLiveness)
	a.mux.HandleFunc("GET /{$}", a.handleRoot)

	// Process control is only exposed when the process exists solely to
	// host this service.
	if a.mode == agentrun.ModeDetached {
		a.mux.HandleFunc("POST /admin/shutdown", a.handleAdminShutdown)
		a.mux.HandleFunc("GET /admin/status", a.handleAdminStatus)
	}
}

// SetReady flips the readiness probe result.
func (a *App) SetReady(ready bool) {
	a.ready.Store(ready)
}

// SetHealthy flips the liveness probe result.
func (a *App) SetHealthy(healthy bool) {
	a.healthy.Store(healthy)
}

// EndpointPath returns the configured processing route.
func (a *App) EndpointPath() string {
	return a.endpointPath
}
