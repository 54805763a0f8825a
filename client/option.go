// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"net/http"
	"strings"
)

// Option configures a [Client].
type Option func(*Client)

// WithHTTPClient sets the underlying [*http.Client]. Streaming calls
// need a client without a response timeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithEndpointPath sets the processing route (default /process).
func WithEndpointPath(path string) Option {
	return func(c *Client) {
		if path == "" {
			return
		}
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		c.endpointPath = path
	}
}

// WithBearerToken sends the token on every processing request.
func WithBearerToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}
