// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"

	"github.com/go-agentrun/agentrun"
	"github.com/go-agentrun/agentrun/auth"
	"github.com/go-agentrun/agentrun/runner"
)

func newEchoRunner(t *testing.T) *runner.Runner {
	t.Helper()

	r, err := runner.New(runner.StreamFunc(func(ctx context.Context, r *runner.Runner, req *agentrun.Request, emit func(agentrun.Event) error) error {
		for _, word := range strings.Fields(req.InputText()) {
			if err := emit(agentrun.NewTextMessage(agentrun.RoleAssistant, word)); err != nil {
				return err
			}
		}
		return nil
	}))
	if err != nil {
		t.Fatalf("runner.New() error = %v", err)
	}
	return r
}

const validBody = `{"input":[{"object":"message","role":"user","content":[{"type":"text","text":"hello world"}]}]}`

func TestApp_ProcessSSE(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(New(newEchoRunner(t)))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/process", "application/json", strings.NewReader(validBody))
	if err != nil {
		t.Fatalf("POST /process error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", got)
	}

	var (
		events   []agentrun.Event
		terminal *agentrun.Response
	)
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		data, ok := strings.CutPrefix(scanner.Text(), "data: ")
		if !ok {
			continue
		}
		event, err := agentrun.UnmarshalEvent([]byte(data))
		if err != nil {
			t.Fatalf("UnmarshalEvent(%s) error = %v", data, err)
		}
		events = append(events, event)
		if r, ok := event.(*agentrun.Response); ok && r.EventStatus().IsTerminal() {
			terminal = r
		}
	}

	// created + in_progress + two words + terminal.
	if len(events) != 5 {
		t.Errorf("received %d events, want 5", len(events))
	}
	if terminal == nil {
		t.Fatal("no terminal envelope in stream")
	}
	if diff := cmp.Diff([]string{"hello", "world"}, terminal.OutputText()); diff != "" {
		t.Errorf("terminal output mismatch (-want +got):\n%s", diff)
	}
	for i, event := range events {
		if got := event.Sequence(); got != int64(i) {
			t.Errorf("event %d Sequence() = %d, want %d", i, got, i)
		}
	}
}

func TestApp_ProcessJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(New(newEchoRunner(t), WithResponseType(ResponseTypeJSON)))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/process", "application/json", strings.NewReader(validBody))
	if err != nil {
		t.Fatalf("POST /process error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var out agentrun.Response
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("Unmarshal(%s) error = %v", body, err)
	}
	if got := out.EventStatus(); got != agentrun.StatusCompleted {
		t.Errorf("status = %q, want %q", got, agentrun.StatusCompleted)
	}
	if diff := cmp.Diff([]string{"hello", "world"}, out.OutputText()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestApp_ProcessValidation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(New(newEchoRunner(t)))
	t.Cleanup(srv.Close)

	tests := map[string]string{
		"malformed json": `{"input":`,
		"empty input":    `{"input":[]}`,
		"missing role":   `{"input":[{"object":"message"}]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			resp, err := http.Post(srv.URL+"/process", "application/json", strings.NewReader(body))
			if err != nil {
				t.Fatalf("POST /process error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}

			var payload struct {
				Error *agentrun.Error `json:"error"`
			}
			if err := json.UnmarshalRead(resp.Body, &payload); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if payload.Error == nil || payload.Error.Code != "validation_error" {
				t.Errorf("error payload = %+v, want code validation_error", payload.Error)
			}
		})
	}
}

func TestApp_HealthRoutes(t *testing.T) {
	t.Parallel()

	app := New(newEchoRunner(t))
	srv := httptest.NewServer(app)
	defer srv.Close()

	for _, path := range []string{"/health", "/readiness", "/liveness"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s error = %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
	}

	app.SetReady(false)
	resp, err := http.Get(srv.URL + "/readiness")
	if err != nil {
		t.Fatalf("GET /readiness error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("GET /readiness status = %d, want 500 when not ready", resp.StatusCode)
	}
}

func TestApp_RootMetadata(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(New(newEchoRunner(t),
		WithServiceName("echo-service"),
		WithEndpointPath("/run"),
	))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET / error = %v", err)
	}
	defer resp.Body.Close()

	var meta struct {
		Service   string            `json:"service"`
		Version   string            `json:"version"`
		Endpoints map[string]string `json:"endpoints"`
	}
	if err := json.UnmarshalRead(resp.Body, &meta); err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if meta.Service != "echo-service" {
		t.Errorf("service = %q, want echo-service", meta.Service)
	}
	if meta.Endpoints["process"] != "/run" {
		t.Errorf("process endpoint = %q, want /run", meta.Endpoints["process"])
	}
	if _, ok := meta.Endpoints["admin_shutdown"]; ok {
		t.Error("admin_shutdown advertised outside detached mode")
	}
}

// staticVerifier accepts exactly one token.
type staticVerifier struct {
	token string
}

func (v staticVerifier) Verify(_ context.Context, token string) (auth.User, error) {
	if token != v.token {
		return nil, auth.ErrInvalidToken
	}
	return auth.AuthenticatedUser{Name: "tester"}, nil
}

func TestApp_Auth(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(New(newEchoRunner(t),
		WithResponseType(ResponseTypeJSON),
		WithTokenVerifier(staticVerifier{token: "sekrit"}),
	))
	t.Cleanup(srv.Close)

	tests := map[string]struct {
		header     string
		wantStatus int
	}{
		"valid token":   {header: "Bearer sekrit", wantStatus: http.StatusOK},
		"wrong token":   {header: "Bearer nope", wantStatus: http.StatusUnauthorized},
		"missing token": {header: "", wantStatus: http.StatusUnauthorized},
		"not bearer":    {header: "Basic sekrit", wantStatus: http.StatusUnauthorized},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			req, err := http.NewRequest(http.MethodPost, srv.URL+"/process", strings.NewReader(validBody))
			if err != nil {
				t.Fatalf("NewRequest() error = %v", err)
			}
			req.Header.Set("Content-Type", "application/json")
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("Do() error = %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}

	// Probe routes stay open.
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health status = %d, want 200 without a token", resp.StatusCode)
	}
}
