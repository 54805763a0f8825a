// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package deploy

import "errors"

// Deployment errors.
var (
	// ErrAlreadyRunning is returned by Deploy while this manager
	// instance already has an active deployment.
	ErrAlreadyRunning = errors.New("deploy: service is already running")

	// ErrDeploymentTimeout is returned when the service did not become
	// ready within the deploy timeout. The failed deployment is torn
	// down before the error propagates.
	ErrDeploymentTimeout = errors.New("deploy: startup timeout")

	// ErrProcessNotResponding is returned when a detached child process
	// exited, or never opened its port, before becoming ready.
	ErrProcessNotResponding = errors.New("deploy: process not responding")

	// ErrShutdownTimeout reports that a thread or process did not
	// terminate within the shutdown timeout. It is logged, never
	// returned: Stop forces the state back to idle regardless.
	ErrShutdownTimeout = errors.New("deploy: shutdown timeout")
)
