// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"

	"github.com/go-agentrun/agentrun"
)

// Handler is the single capability every agent shape reduces to:
// produce a lazy sequence of events for one request by putting them on
// the queue. The runner owns the queue; the handler must not close it.
//
// A returned error ends the stream with a failed terminal envelope. The
// runner never retries a handler.
type Handler interface {
	Execute(ctx context.Context, r *Runner, req *agentrun.Request, q *EventQueue) error
}

// Func adapts a plain function that produces a single event. This is
// the one-shot handler shape: invoked once per request, its return
// value is the only element of the sequence.
type Func func(ctx context.Context, r *Runner, req *agentrun.Request) (agentrun.Event, error)

var _ Handler = (Func)(nil)

// Execute implements Handler.
func (f Func) Execute(ctx context.Context, r *Runner, req *agentrun.Request, q *EventQueue) error {
	event, err := f(ctx, r, req)
	if err != nil {
		return err
	}
	if event == nil {
		return nil
	}
	return q.Put(ctx, event)
}

// StreamFunc adapts a generator-shaped function that emits events
// incrementally through the emit callback. Emission may suspend; a
// non-nil emit error means the stream consumer is gone and the function
// should return promptly.
type StreamFunc func(ctx context.Context, r *Runner, req *agentrun.Request, emit func(agentrun.Event) error) error

var _ Handler = (StreamFunc)(nil)

// Execute implements Handler.
func (f StreamFunc) Execute(ctx context.Context, r *Runner, req *agentrun.Request, q *EventQueue) error {
	return f(ctx, r, req, func(event agentrun.Event) error {
		return q.Put(ctx, event)
	})
}

// ChannelFunc adapts a generator-shaped function that hands back a
// channel of events. The sequence ends when the channel is closed; a
// failure must be expressed through StreamFunc or a full Handler, since
// a bare event channel cannot carry one.
type ChannelFunc func(ctx context.Context, r *Runner, req *agentrun.Request) (<-chan agentrun.Event, error)

var _ Handler = (ChannelFunc)(nil)

// Execute implements Handler.
func (f ChannelFunc) Execute(ctx context.Context, r *Runner, req *agentrun.Request, q *EventQueue) error {
	events, err := f(ctx, r, req)
	if err != nil {
		return err
	}
	for event := range events {
		if err := q.Put(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
