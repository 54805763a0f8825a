// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package agentrun

import (
	"time"

	"github.com/google/uuid"
)

// Response is the aggregate envelope wrapping all child events of one
// request. It is emitted in created status as the first event of the
// stream, again in in_progress status, and exactly once more with a
// terminal status as the last event.
type Response struct {
	EventMeta

	Object    string     `json:"object"`
	ID        string     `json:"id"`
	CreatedAt int64      `json:"created_at"`
	SessionID string     `json:"session_id,omitempty"`
	Output    []*Message `json:"output,omitempty"`
	Error     *Error     `json:"error,omitempty"`
}

var _ Event = (*Response)(nil)

// NewResponse creates a response envelope in created status.
func NewResponse() *Response {
	return &Response{
		EventMeta: EventMeta{Status: StatusCreated},
		Object:    ResponseEventType,
		ID:        "resp_" + uuid.NewString(),
		CreatedAt: time.Now().Unix(),
	}
}

// EventType returns the object type discriminator.
func (r *Response) EventType() string { return ResponseEventType }

// InProgress marks the envelope as in progress.
func (r *Response) InProgress() *Response {
	r.Status = StatusInProgress
	return r
}

// Completed marks the envelope with the terminal completed status.
func (r *Response) Completed() *Response {
	r.Status = StatusCompleted
	return r
}

// Failed marks the envelope with the terminal failed status and records
// the error payload.
func (r *Response) Failed(e *Error) *Response {
	r.Status = StatusFailed
	r.Error = e
	return r
}

// AddOutput appends a completed message to the accumulated output.
func (r *Response) AddOutput(m *Message) {
	r.Output = append(r.Output, m)
}

// Snapshot returns a copy of the envelope safe to hand downstream while
// the original keeps accumulating output. The output slice is copied
// shallowly; messages are not mutated after completion.
func (r *Response) Snapshot() *Response {
	cp := *r
	cp.Output = make([]*Message, len(r.Output))
	copy(cp.Output, r.Output)
	return &cp
}

// OutputText returns the text of each accumulated output message, in
// order.
func (r *Response) OutputText() []string {
	texts := make([]string, 0, len(r.Output))
	for _, m := range r.Output {
		texts = append(texts, m.Text())
	}
	return texts
}
