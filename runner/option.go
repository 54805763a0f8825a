// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Option configures a [Runner].
type Option func(*Runner)

// WithInitHook sets the callback invoked once by Start.
func WithInitHook(hook Hook) Option {
	return func(r *Runner) {
		r.initHook = hook
	}
}

// WithShutdownHook sets the callback invoked once by Shutdown.
func WithShutdownHook(hook Hook) Option {
	return func(r *Runner) {
		r.shutdownHook = hook
	}
}

// WithLogger sets the [*slog.Logger] for the runner.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTracer sets the [trace.Tracer] used to span each query.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Runner) {
		r.tracer = tracer
	}
}

// WithSessionRecorder sets the recorder that receives each terminal
// envelope.
func WithSessionRecorder(recorder SessionRecorder) Option {
	return func(r *Runner) {
		r.recorder = recorder
	}
}

// WithQueueSize sets the capacity of the per-request event queue.
func WithQueueSize(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.queueSize = n
		}
	}
}
