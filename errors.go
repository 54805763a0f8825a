// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package agentrun

import "fmt"

// Error is the wire-level error payload carried by a failed response
// envelope.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewError creates an error payload.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ValidationError reports a malformed or incomplete request body. The
// service surface maps it to HTTP 400 before streaming starts.
type ValidationError struct {
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "invalid request: " + e.Reason
}
