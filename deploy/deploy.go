// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

// Package deploy manages the process lifecycle that turns a runner into
// a long-lived network service: start, become ready, accept traffic,
// shut down, with explicit timeouts and idempotent stop semantics.
package deploy

import (
	"context"

	"github.com/go-agentrun/agentrun"
	"github.com/go-agentrun/agentrun/runner"
)

// ServiceState is the lifecycle state of one deployment manager. It is
// owned exclusively by the manager; the runner never mutates it.
type ServiceState string

// Service states. Transitions are triggered only by Deploy and Stop:
// idle -> starting -> running -> stopping -> idle.
const (
	StateIdle     ServiceState = "idle"
	StateStarting ServiceState = "starting"
	StateRunning  ServiceState = "running"
	StateStopping ServiceState = "stopping"
)

// Manager is the deployment contract: how a runner becomes a running
// network service and how that service is later stopped.
//
// A manager instance owns at most one active deployment; Deploy while
// one is active fails with ErrAlreadyRunning. Stop is idempotent and
// always returns the manager to the idle state, even on partial
// failure. Deploy/Stop pairs are not expected to be invoked
// concurrently on the same instance.
type Manager interface {
	// Deploy starts a service hosting the runner and blocks until it is
	// ready to accept traffic (or, in standalone mode, until it stops).
	Deploy(ctx context.Context, r *runner.Runner) (*agentrun.DeploymentRecord, error)

	// Stop shuts the service down. Calling it while not running is not
	// an error.
	Stop(ctx context.Context) error

	// IsRunning reports whether a deployment is active.
	IsRunning() bool

	// ServiceURL returns the URL of the running service, or "" when not
	// running.
	ServiceURL() string
}
