// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"testing"
)

func TestUserTypes(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		user              User
		wantAuthenticated bool
		wantName          string
	}{
		"unauthenticated zero value": {
			user:              UnauthenticatedUser{},
			wantAuthenticated: false,
			wantName:          "",
		},
		"authenticated with name": {
			user:              AuthenticatedUser{Name: "alice"},
			wantAuthenticated: true,
			wantName:          "alice",
		},
		"authenticated without name": {
			user:              AuthenticatedUser{},
			wantAuthenticated: true,
			wantName:          "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := tt.user.IsAuthenticated(); got != tt.wantAuthenticated {
				t.Errorf("IsAuthenticated() = %v, want %v", got, tt.wantAuthenticated)
			}
			if got := tt.user.UserName(); got != tt.wantName {
				t.Errorf("UserName() = %q, want %q", got, tt.wantName)
			}
		})
	}
}

func TestUserContext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// Absent a stored user the context resolves to the unauthenticated
	// null object.
	if got := UserFromContext(ctx); got.IsAuthenticated() {
		t.Errorf("UserFromContext() on empty context = %+v, want unauthenticated", got)
	}

	ctx = ContextWithUser(ctx, AuthenticatedUser{Name: "bob"})
	got := UserFromContext(ctx)
	if !got.IsAuthenticated() || got.UserName() != "bob" {
		t.Errorf("UserFromContext() = %+v, want authenticated bob", got)
	}
}
