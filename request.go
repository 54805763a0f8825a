// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package agentrun

import (
	"fmt"

	"github.com/go-json-experiment/json"
)

// Request is the inbound value object handed to a handler. It is
// constructed once per call from parsed wire data and never mutated
// afterwards, except that the runner backfills SessionID and UserID
// exactly once before handler invocation when they are absent.
type Request struct {
	SessionID string           `json:"session_id,omitempty"`
	UserID    string           `json:"user_id,omitempty"`
	Input     []*Message       `json:"input"`
	Stream    bool             `json:"stream,omitempty"`
	Tools     []map[string]any `json:"tools,omitempty"`
}

// ParseRequest decodes and validates a request from its JSON wire form.
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("malformed request body: %v", err)}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// Validate checks the required shape of the request.
func (r *Request) Validate() error {
	if len(r.Input) == 0 {
		return &ValidationError{Reason: "input is required and must not be empty"}
	}
	for i, m := range r.Input {
		if m == nil {
			return &ValidationError{Reason: fmt.Sprintf("input[%d] is null", i)}
		}
		if m.Role == "" {
			return &ValidationError{Reason: fmt.Sprintf("input[%d] is missing a role", i)}
		}
	}
	return nil
}

// InputText returns the concatenated text of all input messages. It is
// a convenience for simple handlers.
func (r *Request) InputText() string {
	var out string
	for _, m := range r.Input {
		out += m.Text()
	}
	return out
}
