// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

// Package runner drives an agent handler over a request and produces
// the ordered event stream consumed by the service surface.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-agentrun/agentrun"
)

// Hook is an optional lifecycle callback invoked by Start and Shutdown.
type Hook func(ctx context.Context, r *Runner) error

// SessionRecorder receives the terminal envelope of every completed
// request, keyed by session id. The session package provides
// implementations.
type SessionRecorder interface {
	Append(ctx context.Context, sessionID string, resp *agentrun.Response) error
}

// Deployer turns a runner into a running network service and stops it
// later. The deploy package provides the local implementation.
type Deployer interface {
	Deploy(ctx context.Context, r *Runner) (*agentrun.DeploymentRecord, error)
	Stop(ctx context.Context) error
}

// Runner owns one handler and executes it uniformly per request,
// wrapping the handler's events with the response envelope status
// transitions. It also tracks the deployments serving it.
type Runner struct {
	handler      Handler
	initHook     Hook
	shutdownHook Hook
	logger       *slog.Logger
	tracer       trace.Tracer
	recorder     SessionRecorder
	queueSize    int

	startOnce sync.Once
	stopOnce  sync.Once

	mu          sync.Mutex
	deployments map[string]Deployer
}

// New creates a runner for the given handler.
func New(handler Handler, opts ...Option) (*Runner, error) {
	if handler == nil {
		return nil, errors.New("runner: handler is required")
	}

	r := &Runner{
		handler:     handler,
		logger:      slog.Default(),
		queueSize:   DefaultQueueSize,
		deployments: make(map[string]Deployer),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Start invokes the init hook. It runs at most once; subsequent calls
// return nil.
func (r *Runner) Start(ctx context.Context) error {
	var err error
	r.startOnce.Do(func() {
		if r.initHook != nil {
			err = r.initHook(ctx, r)
		}
	})
	return err
}

// Shutdown invokes the shutdown hook. It runs at most once and is
// guaranteed a chance to run even when Start failed.
func (r *Runner) Shutdown(ctx context.Context) error {
	var err error
	r.stopOnce.Do(func() {
		if r.shutdownHook != nil {
			err = r.shutdownHook(ctx, r)
		}
	})
	return err
}

// Run executes fn inside the runner's lifecycle scope: Start first,
// Shutdown on every exit path. Shutdown errors on the deferred path are
// logged, not propagated, so they cannot mask fn's error.
func (r *Runner) Run(ctx context.Context, fn func(ctx context.Context, r *Runner) error) error {
	defer func() {
		if err := r.Shutdown(ctx); err != nil {
			r.logger.Error("shutdown hook failed", "error", err)
		}
	}()

	if err := r.Start(ctx); err != nil {
		return fmt.Errorf("runner init: %w", err)
	}
	return fn(ctx, r)
}

// StreamQuery validates the request and returns the lazy event stream
// for it. The returned channel yields the envelope in created then
// in_progress status, every handler event stamped in order, and exactly
// one terminal envelope; it is closed after the terminal event.
//
// A validation failure is reported eagerly as the returned error; any
// handler failure is contained in the stream as the failed terminal
// envelope.
func (r *Runner) StreamQuery(ctx context.Context, req *agentrun.Request) (<-chan agentrun.Event, error) {
	if req == nil {
		return nil, &agentrun.ValidationError{Reason: "request body is required"}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Backfill exactly once, before handler invocation.
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	out := make(chan agentrun.Event)
	go r.run(ctx, req, out)
	return out, nil
}

// Query drains the stream for the request and returns the terminal
// envelope.
func (r *Runner) Query(ctx context.Context, req *agentrun.Request) (*agentrun.Response, error) {
	events, err := r.StreamQuery(ctx, req)
	if err != nil {
		return nil, err
	}

	var last *agentrun.Response
	for event := range events {
		if resp, ok := event.(*agentrun.Response); ok {
			last = resp
		}
	}
	if last == nil || !last.EventStatus().IsTerminal() {
		return nil, ctx.Err()
	}
	return last, nil
}

func (r *Runner) run(ctx context.Context, req *agentrun.Request, out chan<- agentrun.Event) {
	defer close(out)

	if r.tracer != nil {
		var span trace.Span
		ctx, span = r.tracer.Start(ctx, "agent_step",
			trace.WithAttributes(attribute.String("session_id", req.SessionID)))
		defer span.End()
	}

	seq := agentrun.NewSequencer()
	envelope := agentrun.NewResponse()
	envelope.SessionID = req.SessionID

	emit := func(event agentrun.Event) bool {
		select {
		case out <- event:
			return true
		case <-ctx.Done():
			return false
		}
	}

	// Envelope transitions are emitted as snapshots so downstream
	// serialization never observes later mutation.
	if !emit(seq.Stamp(envelope.Snapshot())) {
		return
	}
	envelope.InProgress()
	if !emit(seq.Stamp(envelope.Snapshot())) {
		return
	}

	queue := NewEventQueue(r.queueSize)
	execErr := make(chan error, 1)
	go func() {
		defer queue.Close()
		execErr <- r.handler.Execute(ctx, r, req, queue)
	}()

	for {
		event, err := queue.Get(ctx)
		if err != nil {
			if errors.Is(err, ErrQueueClosed) {
				break
			}
			// Context cancelled: the consumer is gone, no terminal
			// event can be delivered.
			return
		}

		if msg, ok := event.(*agentrun.Message); ok && msg.EventStatus() == agentrun.StatusCompleted {
			envelope.AddOutput(msg)
		}
		if !emit(seq.Stamp(event)) {
			return
		}
	}

	if err := <-execErr; err != nil {
		r.logger.Error("handler failed", "session_id", req.SessionID, "error", err)
		envelope.Failed(agentrun.NewError("handler_error", err.Error()))
	} else {
		envelope.Completed()
	}

	terminal := envelope.Snapshot()
	if !emit(seq.Stamp(terminal)) {
		return
	}

	if r.recorder != nil {
		if err := r.recorder.Append(ctx, req.SessionID, terminal); err != nil {
			r.logger.Warn("session history append failed", "session_id", req.SessionID, "error", err)
		}
	}
}

// Deploy delegates to the deployment manager, passing this runner as
// the thing to be served, and records the returned handle.
func (r *Runner) Deploy(ctx context.Context, d Deployer) (*agentrun.DeploymentRecord, error) {
	record, err := d.Deploy(ctx, r)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.deployments[record.DeployID] = d
	r.mu.Unlock()

	return record, nil
}

// StopDeployment stops the tracked deployment with the given id. An
// unknown id is not an error.
func (r *Runner) StopDeployment(ctx context.Context, deployID string) error {
	r.mu.Lock()
	d, ok := r.deployments[deployID]
	if ok {
		delete(r.deployments, deployID)
	}
	r.mu.Unlock()

	if !ok {
		r.logger.Debug("no deployment to stop", "deploy_id", deployID)
		return nil
	}
	return d.Stop(ctx)
}

// Logger returns the runner's logger, for handlers that want to share
// it.
func (r *Runner) Logger() *slog.Logger {
	return r.logger
}
