// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package agentrun

import "testing"

func TestSequencer_Next(t *testing.T) {
	t.Parallel()

	seq := NewSequencer()
	for want := int64(0); want < 5; want++ {
		if got := seq.Next(); got != want {
			t.Errorf("Next() = %d, want %d", got, want)
		}
	}
}

func TestSequencer_Stamp(t *testing.T) {
	t.Parallel()

	seq := NewSequencer()
	events := []Event{
		NewResponse(),
		NewTextMessage(RoleAssistant, "a"),
		NewTextMessage(RoleAssistant, "b"),
		NewReasoning("thinking"),
	}

	for want, event := range events {
		stamped := seq.Stamp(event)
		if stamped != event {
			t.Errorf("Stamp() returned a different event")
		}
		if got := stamped.Sequence(); got != int64(want) {
			t.Errorf("Sequence() = %d, want %d", got, want)
		}
	}
}

func TestSequencer_IndependentStreams(t *testing.T) {
	t.Parallel()

	a, b := NewSequencer(), NewSequencer()
	a.Next()
	a.Next()

	if got := b.Next(); got != 0 {
		t.Errorf("fresh sequencer Next() = %d, want 0", got)
	}
	if got := a.Next(); got != 2 {
		t.Errorf("Next() = %d, want 2", got)
	}
}
