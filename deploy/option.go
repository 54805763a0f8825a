// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"log/slog"
	"time"

	"github.com/go-agentrun/agentrun"
	"github.com/go-agentrun/agentrun/server"
)

// LocalOption configures a [LocalManager].
type LocalOption func(*LocalManager)

// WithHost sets the bind host (default localhost).
func WithHost(host string) LocalOption {
	return func(m *LocalManager) {
		if host != "" {
			m.host = host
		}
	}
}

// WithPort sets the bind port (default 8090).
func WithPort(port int) LocalOption {
	return func(m *LocalManager) {
		if port > 0 {
			m.port = port
		}
	}
}

// WithMode selects the deployment mode (default daemon_thread).
func WithMode(mode agentrun.DeployMode) LocalOption {
	return func(m *LocalManager) {
		if mode.Valid() {
			m.mode = mode
		}
	}
}

// WithEndpointPath sets the processing route of the deployed surface.
func WithEndpointPath(path string) LocalOption {
	return func(m *LocalManager) {
		if path != "" {
			m.endpointPath = path
		}
	}
}

// WithResponseType selects SSE or JSON responses on the deployed
// surface.
func WithResponseType(t server.ResponseType) LocalOption {
	return func(m *LocalManager) {
		m.responseType = t
	}
}

// WithServiceName sets the service name reported by the surface.
func WithServiceName(name string) LocalOption {
	return func(m *LocalManager) {
		if name != "" {
			m.serviceName = name
		}
	}
}

// WithDeployTimeout bounds how long Deploy waits for readiness
// (default 30s).
func WithDeployTimeout(d time.Duration) LocalOption {
	return func(m *LocalManager) {
		if d > 0 {
			m.deployTimeout = d
		}
	}
}

// WithShutdownTimeout bounds how long Stop waits for termination
// (default 10s).
func WithShutdownTimeout(d time.Duration) LocalOption {
	return func(m *LocalManager) {
		if d > 0 {
			m.shutdownTimeout = d
		}
	}
}

// WithProbeInterval sets the readiness polling interval (default
// 100ms).
func WithProbeInterval(d time.Duration) LocalOption {
	return func(m *LocalManager) {
		if d > 0 {
			m.probeInterval = d
		}
	}
}

// WithHealthCheck upgrades the readiness probe from a TCP connect to a
// GET /health round trip.
func WithHealthCheck(enabled bool) LocalOption {
	return func(m *LocalManager) {
		m.healthCheck = enabled
	}
}

// WithEnvironment sets extra environment variables for a detached
// child process.
func WithEnvironment(env map[string]string) LocalOption {
	return func(m *LocalManager) {
		m.environment = env
	}
}

// WithCommand sets the command a detached deployment launches. The
// command is expected to start a service listening on the configured
// host and port.
func WithCommand(command ...string) LocalOption {
	return func(m *LocalManager) {
		m.command = command
	}
}

// WithPIDDir sets the directory for detached PID files (default the
// system temp directory).
func WithPIDDir(dir string) LocalOption {
	return func(m *LocalManager) {
		m.pidDir = dir
	}
}

// WithLogger sets the [*slog.Logger] for the manager.
func WithLogger(logger *slog.Logger) LocalOption {
	return func(m *LocalManager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithServerOptions appends extra options for the deployed surface,
// applied after the manager's own.
func WithServerOptions(opts ...server.Option) LocalOption {
	return func(m *LocalManager) {
		m.serverOpts = append(m.serverOpts, opts...)
	}
}
