// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

// Package client talks to a deployed agent service over HTTP,
// consuming either the single-document JSON form or the SSE event
// stream.
package client

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-json-experiment/json"

	"github.com/go-agentrun/agentrun"
)

// Client calls one agent service.
type Client struct {
	baseURL      string
	endpointPath string
	httpClient   *http.Client
	token        string
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("client: empty base URL")
	}
	c := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		endpointPath: "/process",
		httpClient:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Process sends the request and returns the terminal response. The
// service must be serving JSON responses on the processing route.
func (c *Client) Process(ctx context.Context, req *agentrun.Request) (*agentrun.Response, error) {
	resp, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.errorFromBody(resp.StatusCode, body)
	}

	var out agentrun.Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("client: decode response: %w", err)
	}
	return &out, nil
}

// StreamProcess sends the request and returns a channel of events
// decoded from the SSE stream. The channel is closed when the stream
// ends; the final event is the terminal response envelope unless the
// connection failed mid-stream.
func (c *Client) StreamProcess(ctx context.Context, req *agentrun.Request) (<-chan agentrun.Event, error) {
	resp, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, c.errorFromBody(resp.StatusCode, body)
	}

	events := make(chan agentrun.Event)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			data, ok := strings.CutPrefix(scanner.Text(), "data: ")
			if !ok {
				continue
			}
			event, err := agentrun.UnmarshalEvent([]byte(data))
			if err != nil {
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

// Health queries the service health route.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: health: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("client: health returned %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) post(ctx context.Context, req *agentrun.Request) (*http.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("client: nil request")
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("client: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.endpointPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("client: send request: %w", err)
	}
	return resp, nil
}

// errorFromBody turns an error response body into an error, preferring
// the service's structured error payload.
func (c *Client) errorFromBody(status int, body []byte) error {
	var payload struct {
		Error *agentrun.Error `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != nil {
		return fmt.Errorf("client: service returned %d: %w", status, payload.Error)
	}
	return fmt.Errorf("client: service returned %d", status)
}
