// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package agentrun

// RunStatus represents the lifecycle status of an event or of the
// response envelope wrapping one request.
type RunStatus string

// Run statuses.
const (
	StatusCreated    RunStatus = "created"
	StatusInProgress RunStatus = "in_progress"
	StatusCompleted  RunStatus = "completed"
	StatusFailed     RunStatus = "failed"
)

// IsTerminal reports whether the status ends a stream. Within one
// request exactly one event carries a terminal status, and it is the
// last event of the stream.
func (s RunStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Valid reports whether the status is one of the known run statuses.
func (s RunStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusInProgress, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}
