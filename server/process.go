// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-json-experiment/json"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-agentrun/agentrun"
)

// handleProcess is the main processing endpoint. Validation failures
// are reported as HTTP 400 before streaming starts; once streaming has
// begun, failures are only representable inside the event stream.
func (a *App) handleProcess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if a.tracer != nil {
		var span trace.Span
		ctx, span = a.tracer.Start(ctx, "process_request")
		defer span.End()
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "failed to read request body")
		return
	}
	defer r.Body.Close()

	req, err := agentrun.ParseRequest(body)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	events, err := a.runner.StreamQuery(ctx, req)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	switch a.responseType {
	case ResponseTypeJSON:
		a.writeJSONResponse(w, events)
	default:
		a.writeSSEResponse(w, events)
	}
}

// writeSSEResponse serializes every event as one SSE frame, flushed
// immediately. The HTTP status stays 200 once streaming has begun.
func (a *App) writeSSEResponse(w http.ResponseWriter, events <-chan agentrun.Event) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", "response writer does not support streaming")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable Nginx buffering
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			a.logger.Error("marshal event", "error", err)
			continue
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			// Client disconnected; the runner observes the context and
			// winds the stream down.
			return
		}
		flusher.Flush()
	}
}

// writeJSONResponse drains the stream and returns the terminal envelope
// as one document.
func (a *App) writeJSONResponse(w http.ResponseWriter, events <-chan agentrun.Event) {
	var terminal *agentrun.Response
	for event := range events {
		if resp, ok := event.(*agentrun.Response); ok && resp.EventStatus().IsTerminal() {
			terminal = resp
		}
	}
	if terminal == nil {
		writeError(w, http.StatusInternalServerError, "incomplete_stream", "stream ended without a terminal response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.MarshalWrite(w, terminal); err != nil {
		a.logger.Error("write response", "error", err)
	}
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verr *agentrun.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, "validation_error", verr.Reason)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.MarshalWrite(w, map[string]*agentrun.Error{
		"error": agentrun.NewError(code, message),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.MarshalWrite(w, v)
}
