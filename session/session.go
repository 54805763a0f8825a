// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

// Package session persists completed responses keyed by session so
// that conversation history survives individual requests.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/go-agentrun/agentrun"
)

// ErrSessionNotFound is returned by History and Delete for an unknown
// session.
var ErrSessionNotFound = errors.New("session: not found")

// Service stores responses by session. Implementations must be safe
// for concurrent use; a Service is shared by every in-flight request
// of a runner.
type Service interface {
	// Append records one terminal response for the session, creating
	// the session on first use.
	Append(ctx context.Context, sessionID string, resp *agentrun.Response) error

	// History returns the session's responses in append order.
	History(ctx context.Context, sessionID string) ([]*agentrun.Response, error)

	// Delete removes the session and its responses.
	Delete(ctx context.Context, sessionID string) error
}

// InMemoryService keeps sessions in process memory. History is lost on
// restart; use [DatabaseService] for durability.
type InMemoryService struct {
	mu       sync.RWMutex
	sessions map[string][]*agentrun.Response
}

var _ Service = (*InMemoryService)(nil)

// NewInMemory creates an empty in-memory session service.
func NewInMemory() *InMemoryService {
	return &InMemoryService{sessions: make(map[string][]*agentrun.Response)}
}

// Append implements [Service].
func (s *InMemoryService) Append(_ context.Context, sessionID string, resp *agentrun.Response) error {
	if sessionID == "" {
		return errors.New("session: empty session id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = append(s.sessions[sessionID], resp)
	return nil
}

// History implements [Service].
func (s *InMemoryService) History(_ context.Context, sessionID string) ([]*agentrun.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	out := make([]*agentrun.Response, len(history))
	copy(out, history)
	return out, nil
}

// Delete implements [Service].
func (s *InMemoryService) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}
