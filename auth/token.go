// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/lestrrat-go/jwx/v3/jwt"
)

// ErrInvalidToken is returned by verifiers for a token that does not
// resolve to a user.
var ErrInvalidToken = errors.New("auth: invalid token")

// TokenVerifier validates a raw bearer token and resolves the caller's
// identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (User, error)
}

// JWTVerifier verifies JWT bearer tokens. The parse options carry the
// verification key material, e.g. jwt.WithKey or jwt.WithKeySet.
type JWTVerifier struct {
	options []jwt.ParseOption
}

var _ TokenVerifier = (*JWTVerifier)(nil)

// NewJWTVerifier creates a verifier with the given parse options.
func NewJWTVerifier(options ...jwt.ParseOption) *JWTVerifier {
	return &JWTVerifier{options: options}
}

// Verify parses and validates the token, returning the authenticated
// user identified by the token subject.
func (v *JWTVerifier) Verify(ctx context.Context, token string) (User, error) {
	opts := append([]jwt.ParseOption{jwt.WithValidate(true)}, v.options...)
	parsed, err := jwt.Parse([]byte(token), opts...)
	if err != nil {
		return nil, fmt.Errorf("parse and validate token: %w", err)
	}

	name, _ := parsed.Subject()
	return AuthenticatedUser{Name: name}, nil
}

type userContextKey struct{}

// ContextWithUser returns a context carrying the verified user.
func ContextWithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext extracts the verified user from the context. Absent a
// verifier the surface never stores one, and UnauthenticatedUser is
// returned.
func UserFromContext(ctx context.Context) User {
	if user, ok := ctx.Value(userContextKey{}).(User); ok {
		return user
	}
	return UnauthenticatedUser{}
}
