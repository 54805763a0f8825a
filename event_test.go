// Copyright 2025 The Go AgentRun Authors
// SPDX-License-Identifier: Apache-2.0

package agentrun

import (
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/google/go-cmp/cmp"
)

func TestUnmarshalEvent(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		data     string
		want     Event
		wantErr  bool
	}{
		"message": {
			data: `{"object":"message","id":"msg_1","role":"assistant","status":"completed","content":[{"type":"text","text":"hi"}]}`,
			want: &Message{
				EventMeta: EventMeta{Status: StatusCompleted},
				Object:    MessageEventType,
				ID:        "msg_1",
				Role:      RoleAssistant,
				Content:   []*Content{{Type: ContentTypeText, Text: "hi"}},
			},
		},
		"function call": {
			data: `{"object":"function_call","call_id":"call_1","name":"search","arguments":"{\"q\":\"go\"}","status":"completed"}`,
			want: &FunctionCall{
				EventMeta: EventMeta{Status: StatusCompleted},
				Object:    FunctionCallEventType,
				CallID:    "call_1",
				Name:      "search",
				Arguments: `{"q":"go"}`,
			},
		},
		"function call output": {
			data: `{"object":"function_call_output","call_id":"call_1","output":"42","status":"completed"}`,
			want: &FunctionCallOutput{
				EventMeta: EventMeta{Status: StatusCompleted},
				Object:    FunctionCallOutputEventType,
				CallID:    "call_1",
				Output:    "42",
			},
		},
		"reasoning": {
			data: `{"object":"reasoning","text":"thinking","status":"completed"}`,
			want: &Reasoning{
				EventMeta: EventMeta{Status: StatusCompleted},
				Object:    ReasoningEventType,
				Text:      "thinking",
			},
		},
		"response envelope": {
			data: `{"object":"response","id":"resp_1","created_at":1700000000,"status":"in_progress","session_id":"s1"}`,
			want: &Response{
				EventMeta: EventMeta{Status: StatusInProgress},
				Object:    ResponseEventType,
				ID:        "resp_1",
				CreatedAt: 1700000000,
				SessionID: "s1",
			},
		},
		"unknown object type": {
			data:    `{"object":"telemetry"}`,
			wantErr: true,
		},
		"not json": {
			data:    `not json`,
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := UnmarshalEvent([]byte(tt.data))
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnmarshalEvent() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("UnmarshalEvent() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnmarshalEvent_RoundTrip(t *testing.T) {
	t.Parallel()

	original := NewTextMessage(RoleAssistant, "hello")
	original.SetSequence(7)

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	decoded, err := UnmarshalEvent(data)
	if err != nil {
		t.Fatalf("UnmarshalEvent() error = %v", err)
	}
	if diff := cmp.Diff(Event(original), decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMessage_Text(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		message *Message
		want    string
	}{
		"single text part": {
			message: NewTextMessage(RoleUser, "hello"),
			want:    "hello",
		},
		"multiple text parts": {
			message: NewMessage(RoleAssistant,
				&Content{Type: ContentTypeText, Text: "a"},
				&Content{Type: ContentTypeText, Text: "b"},
			),
			want: "ab",
		},
		"data parts skipped": {
			message: NewMessage(RoleAssistant,
				&Content{Type: ContentTypeData, Data: map[string]any{"k": "v"}},
				&Content{Type: ContentTypeText, Text: "x"},
			),
			want: "x",
		},
		"no content": {
			message: NewMessage(RoleAssistant),
			want:    "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := tt.message.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewMessage_Defaults(t *testing.T) {
	t.Parallel()

	m := NewTextMessage(RoleAssistant, "hi")
	if m.Object != MessageEventType {
		t.Errorf("Object = %q, want %q", m.Object, MessageEventType)
	}
	if m.EventStatus() != StatusCompleted {
		t.Errorf("EventStatus() = %q, want %q", m.EventStatus(), StatusCompleted)
	}
	if m.ID == "" {
		t.Error("ID is empty, want a generated message id")
	}
}
