// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

// Package agentrun defines the data model shared by the agent execution
// runtime: requests, the event discriminated union, the response envelope,
// per-stream sequence numbering, and deployment records.
//
// The executable pieces live in the subpackages: runner drives a handler
// over a request and produces the event stream, server translates that
// stream onto HTTP (SSE or JSON), deploy turns a runner into a managed
// network service, and client consumes a deployed service.
package agentrun

// Version is the version of the agentrun module.
const Version = "0.1.0"

// ServiceName identifies the service in health responses and logs.
const ServiceName = "agent-service"
