// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

// Package auth provides the user identity abstractions and token
// verification used by the service surface. A surface without a
// configured verifier is open; with one, every processing request must
// carry a verifiable bearer token.
package auth

// User represents an authenticated or unauthenticated caller.
type User interface {
	// IsAuthenticated returns true if the user is authenticated.
	IsAuthenticated() bool

	// UserName returns the name of the user. For unauthenticated users,
	// this returns an empty string.
	UserName() string
}

// UnauthenticatedUser represents an unauthenticated caller. It is safe
// to use as a zero value and is immutable.
type UnauthenticatedUser struct{}

// IsAuthenticated always returns false for unauthenticated users.
func (u UnauthenticatedUser) IsAuthenticated() bool {
	return false
}

// UserName always returns an empty string for unauthenticated users.
func (u UnauthenticatedUser) UserName() string {
	return ""
}

// AuthenticatedUser represents a caller whose token was verified.
type AuthenticatedUser struct {
	Name string
}

// IsAuthenticated always returns true for authenticated users.
func (u AuthenticatedUser) IsAuthenticated() bool {
	return true
}

// UserName returns the name extracted from the verified token.
func (u AuthenticatedUser) UserName() string {
	return u.Name
}
