// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package agentrun

// Sequencer assigns a strictly increasing, gap-free sequence number to
// every event emitted for one logical request, starting at 0. One
// instance belongs to exactly one stream and must not be shared across
// concurrent requests; it is driven by a single goroutine and therefore
// needs no locking.
type Sequencer struct {
	next int64
}

// NewSequencer creates a sequencer whose first value is 0.
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Next returns the next sequence number.
func (s *Sequencer) Next() int64 {
	n := s.next
	s.next++
	return n
}

// Stamp assigns the next sequence number to the event and returns the
// same event for convenient re-emission.
func (s *Sequencer) Stamp(e Event) Event {
	e.SetSequence(s.Next())
	return e
}
