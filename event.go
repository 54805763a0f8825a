// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package agentrun

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
)

// Event object types. The "object" field discriminates the union on the
// wire.
const (
	MessageEventType            = "message"
	FunctionCallEventType       = "function_call"
	FunctionCallOutputEventType = "function_call_output"
	ReasoningEventType          = "reasoning"
	ResponseEventType           = "response"
)

// Event is the unit of agent output. Concrete types are *Message,
// *FunctionCall, *FunctionCallOutput, *Reasoning and the *Response
// envelope.
type Event interface {
	// EventType returns the object type discriminator.
	EventType() string

	// EventStatus returns the current run status of the event.
	EventStatus() RunStatus

	// Sequence returns the stream-local sequence number.
	Sequence() int64

	// SetSequence stamps the stream-local sequence number.
	SetSequence(n int64)
}

// EventMeta carries the fields common to every event. Concrete event
// types embed it.
type EventMeta struct {
	SequenceNumber int64     `json:"sequence_number"`
	Status         RunStatus `json:"status,omitempty"`
}

// EventStatus returns the current run status of the event.
func (m *EventMeta) EventStatus() RunStatus { return m.Status }

// Sequence returns the stream-local sequence number.
func (m *EventMeta) Sequence() int64 { return m.SequenceNumber }

// SetSequence stamps the stream-local sequence number.
func (m *EventMeta) SetSequence(n int64) { m.SequenceNumber = n }

// Role of a message author.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ContentType discriminates message content parts.
type ContentType string

// Content part types.
const (
	ContentTypeText ContentType = "text"
	ContentTypeData ContentType = "data"
)

// Content is one part of a message payload.
type Content struct {
	Type ContentType    `json:"type"`
	Text string         `json:"text,omitempty"`
	Data map[string]any `json:"data,omitempty"`
}

// Message is a conversational event produced by the user or the agent.
type Message struct {
	EventMeta

	Object  string     `json:"object"`
	ID      string     `json:"id,omitempty"`
	Role    Role       `json:"role"`
	Content []*Content `json:"content,omitempty"`
}

var _ Event = (*Message)(nil)

// NewMessage creates a message event in completed status.
func NewMessage(role Role, content ...*Content) *Message {
	return &Message{
		EventMeta: EventMeta{Status: StatusCompleted},
		Object:    MessageEventType,
		ID:        "msg_" + uuid.NewString(),
		Role:      role,
		Content:   content,
	}
}

// NewTextMessage creates a completed message event with a single text
// content part.
func NewTextMessage(role Role, text string) *Message {
	return NewMessage(role, &Content{Type: ContentTypeText, Text: text})
}

// EventType returns the object type discriminator.
func (m *Message) EventType() string { return MessageEventType }

// Text returns the concatenated text parts of the message.
func (m *Message) Text() string {
	var out string
	for _, c := range m.Content {
		if c.Type == ContentTypeText {
			out += c.Text
		}
	}
	return out
}

// FunctionCall is a tool invocation requested by the agent.
type FunctionCall struct {
	EventMeta

	Object    string `json:"object"`
	CallID    string `json:"call_id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"`
}

var _ Event = (*FunctionCall)(nil)

// NewFunctionCall creates a completed function call event.
func NewFunctionCall(callID, name, arguments string) *FunctionCall {
	return &FunctionCall{
		EventMeta: EventMeta{Status: StatusCompleted},
		Object:    FunctionCallEventType,
		CallID:    callID,
		Name:      name,
		Arguments: arguments,
	}
}

// EventType returns the object type discriminator.
func (f *FunctionCall) EventType() string { return FunctionCallEventType }

// FunctionCallOutput is the result of a tool invocation.
type FunctionCallOutput struct {
	EventMeta

	Object string `json:"object"`
	CallID string `json:"call_id"`
	Output string `json:"output,omitempty"`
}

var _ Event = (*FunctionCallOutput)(nil)

// NewFunctionCallOutput creates a completed function call output event.
func NewFunctionCallOutput(callID, output string) *FunctionCallOutput {
	return &FunctionCallOutput{
		EventMeta: EventMeta{Status: StatusCompleted},
		Object:    FunctionCallOutputEventType,
		CallID:    callID,
		Output:    output,
	}
}

// EventType returns the object type discriminator.
func (f *FunctionCallOutput) EventType() string { return FunctionCallOutputEventType }

// Reasoning is an intermediate reasoning trace emitted by the agent.
type Reasoning struct {
	EventMeta

	Object string `json:"object"`
	Text   string `json:"text,omitempty"`
}

var _ Event = (*Reasoning)(nil)

// NewReasoning creates a completed reasoning event.
func NewReasoning(text string) *Reasoning {
	return &Reasoning{
		EventMeta: EventMeta{Status: StatusCompleted},
		Object:    ReasoningEventType,
		Text:      text,
	}
}

// EventType returns the object type discriminator.
func (r *Reasoning) EventType() string { return ReasoningEventType }

// UnmarshalEvent decodes a single event from its JSON representation,
// dispatching on the "object" field.
func UnmarshalEvent(data []byte) (Event, error) {
	var probe struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("probe event object type: %w", err)
	}

	var event Event
	switch probe.Object {
	case MessageEventType:
		event = &Message{}
	case FunctionCallEventType:
		event = &FunctionCall{}
	case FunctionCallOutputEventType:
		event = &FunctionCallOutput{}
	case ReasoningEventType:
		event = &Reasoning{}
	case ResponseEventType:
		event = &Response{}
	default:
		return nil, fmt.Errorf("unknown event object type %q", probe.Object)
	}

	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("unmarshal %s event: %w", probe.Object, err)
	}
	return event, nil
}
