// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"
	"errors"
	"sync"

	"github.com/go-agentrun/agentrun"
)

// DefaultQueueSize is the default capacity of an event queue.
const DefaultQueueSize = 64

// ErrQueueClosed is returned by queue operations after Close, once any
// buffered events have been drained.
var ErrQueueClosed = errors.New("runner: event queue is closed")

// EventQueue is the bounded, channel-backed carrier between a handler
// and the runner. The handler puts events; the runner gets them, stamps
// them and forwards them downstream. Closing the queue marks the end of
// the handler's lazy sequence.
type EventQueue struct {
	events chan agentrun.Event
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

// NewEventQueue creates an event queue with the given capacity. A
// non-positive capacity falls back to DefaultQueueSize.
func NewEventQueue(capacity int) *EventQueue {
	if capacity <= 0 {
		capacity = DefaultQueueSize
	}
	return &EventQueue{
		events: make(chan agentrun.Event, capacity),
		done:   make(chan struct{}),
	}
}

// Put adds an event to the queue, blocking while the queue is full.
func (q *EventQueue) Put(ctx context.Context, event agentrun.Event) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case q.events <- event:
		return nil
	}
}

// Get retrieves the next event, blocking until one is available. After
// Close, buffered events are still delivered in order; once the queue
// is drained Get returns ErrQueueClosed.
func (q *EventQueue) Get(ctx context.Context) (agentrun.Event, error) {
	// Prefer buffered events over the closed signal so nothing is lost.
	select {
	case event, ok := <-q.events:
		if !ok {
			return nil, ErrQueueClosed
		}
		return event, nil
	default:
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case event, ok := <-q.events:
		if !ok {
			return nil, ErrQueueClosed
		}
		return event, nil
	}
}

// Close marks the end of the sequence. It is safe to call more than
// once.
func (q *EventQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	close(q.done)
	close(q.events)
	return nil
}

// Done returns a channel that is closed when the queue is closed.
func (q *EventQueue) Done() <-chan struct{} {
	return q.done
}

// Len returns the number of buffered events.
func (q *EventQueue) Len() int {
	return len(q.events)
}
