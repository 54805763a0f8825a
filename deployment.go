// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package agentrun

import "fmt"

// DeployMode selects how the service process relates to the caller's
// process.
type DeployMode string

// Deployment modes.
const (
	// ModeDaemon hosts the service on a goroutine inside the calling
	// process; the caller stays in control.
	ModeDaemon DeployMode = "daemon_thread"

	// ModeDetached launches the service as a child OS process that
	// survives the parent's exit.
	ModeDetached DeployMode = "detached_process"

	// ModeStandalone turns the calling goroutine into the server
	// (blocking).
	ModeStandalone DeployMode = "standalone"
)

// Valid reports whether the mode is one of the known deployment modes.
func (m DeployMode) Valid() bool {
	switch m {
	case ModeDaemon, ModeDetached, ModeStandalone:
		return true
	default:
		return false
	}
}

// DeploymentRecord is the handle returned by a successful deploy. It is
// created by the deployment manager that owns the deployment and
// invalidated by that manager's Stop.
type DeploymentRecord struct {
	DeployID string     `json:"deploy_id"`
	Mode     DeployMode `json:"mode"`
	Host     string     `json:"host"`
	Port     int        `json:"port"`
	PID      int        `json:"pid,omitempty"`
	URL      string     `json:"url"`
}

// NewDeployID derives the deterministic deploy identifier for an
// in-process deployment from its mode and address.
func NewDeployID(mode DeployMode, host string, port int) string {
	return fmt.Sprintf("%s-%s-%d", mode, host, port)
}

// NewProcessDeployID derives the deploy identifier for a detached
// deployment from the child process id.
func NewProcessDeployID(pid int) string {
	return fmt.Sprintf("pid-%d", pid)
}
