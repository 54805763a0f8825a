// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/go-agentrun/agentrun"
	"github.com/go-agentrun/agentrun/auth"
)

// Option configures an [App].
type Option func(*App)

// WithEndpointPath sets the processing route (default /process).
func WithEndpointPath(path string) Option {
	return func(a *App) {
		if path == "" {
			return
		}
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		a.endpointPath = path
	}
}

// WithResponseType selects SSE or JSON translation of the event stream.
func WithResponseType(t ResponseType) Option {
	return func(a *App) {
		if t == ResponseTypeSSE || t == ResponseTypeJSON {
			a.responseType = t
		}
	}
}

// WithMode records the deployment mode the surface runs under. Detached
// mode additionally exposes the /admin routes.
func WithMode(mode agentrun.DeployMode) Option {
	return func(a *App) {
		if mode.Valid() {
			a.mode = mode
		}
	}
}

// WithServiceName sets the name reported by /health and the root route.
func WithServiceName(name string) Option {
	return func(a *App) {
		if name != "" {
			a.serviceName = name
		}
	}
}

// WithLogger sets the [*slog.Logger] for the surface.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithTracer sets the [trace.Tracer] for the surface.
func WithTracer(tracer trace.Tracer) Option {
	return func(a *App) {
		a.tracer = tracer
	}
}

// WithTokenVerifier requires a verifiable bearer token on the
// processing route.
func WithTokenVerifier(verifier auth.TokenVerifier) Option {
	return func(a *App) {
		a.verifier = verifier
	}
}
