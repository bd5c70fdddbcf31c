// Package protocol defines the wire format of the agent backend's streaming
// API: newline-delimited JSON event records, one object per line, terminated
// by a line containing exactly "null".
package protocol

import "encoding/json"

// EventType discriminates between event kinds.
type EventType string

const (
	EventTypeMessage          EventType = "message"
	EventTypeToolSelectDelta  EventType = "tool_select_delta"
	EventTypeToolCalls        EventType = "tool_calls"
	EventTypeContent          EventType = "content"
	EventTypeToolResults      EventType = "tool_results"
	EventTypeRenderMedia      EventType = "render_media"
	EventTypeCompletionStatus EventType = "completion_status"
	EventTypeThoughtDelta     EventType = "thought_delta"
	EventTypeInteractionStart EventType = "interaction_start"
	EventTypeInteractionEnd   EventType = "interaction_end"
	EventTypeHistory          EventType = "history"
)

// Event is the interface for all decoded stream events.
type Event interface {
	EvtType() EventType
}

// NoticeEvent is an operator/system notice pushed into the stream.
type NoticeEvent struct {
	Type     EventType `json:"type"`
	Data     string    `json:"data"`
	Critical bool      `json:"critical,omitempty"`
}

// EvtType returns the event type.
func (e NoticeEvent) EvtType() EventType { return EventTypeMessage }

// ToolSelectDeltaEvent is a hint that a tool is about to be called, emitted
// before the actual tool_calls event. Data is itself JSON text encoding an
// array whose first element carries the tool name.
type ToolSelectDeltaEvent struct {
	Type EventType `json:"type"`
	Data string    `json:"data"`
}

// EvtType returns the event type.
func (e ToolSelectDeltaEvent) EvtType() EventType { return EventTypeToolSelectDelta }

// ToolName extracts the hinted tool name from the nested payload.
// ok is false when the payload cannot be parsed or carries no name.
func (e ToolSelectDeltaEvent) ToolName() (string, bool) {
	var hints []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(e.Data), &hints); err != nil {
		return "", false
	}
	if len(hints) == 0 || hints[0].Name == "" {
		return "", false
	}
	return hints[0].Name, true
}

// ToolCallsEvent announces one batch of tool invocations.
type ToolCallsEvent struct {
	Type      EventType        `json:"type"`
	ToolCalls []ToolDescriptor `json:"tool_calls"`
}

// EvtType returns the event type.
func (e ToolCallsEvent) EvtType() EventType { return EventTypeToolCalls }

// ContentEvent carries an assistant text delta.
type ContentEvent struct {
	Type   EventType `json:"type"`
	Data   string    `json:"data"`
	Vendor string    `json:"vendor,omitempty"`
}

// EvtType returns the event type.
func (e ContentEvent) EvtType() EventType { return EventTypeContent }

// ThoughtDeltaEvent carries a thinking text delta. Same shape as
// ContentEvent but routed to the thinking channel.
type ThoughtDeltaEvent struct {
	Type   EventType `json:"type"`
	Data   string    `json:"data"`
	Vendor string    `json:"vendor,omitempty"`
}

// EvtType returns the event type.
func (e ThoughtDeltaEvent) EvtType() EventType { return EventTypeThoughtDelta }

// ToolResult resolves one earlier tool invocation, correlated by id.
type ToolResult struct {
	ToolCallID string       `json:"tool_call_id"`
	Content    FlexibleText `json:"content"`
}

// ToolResultsEvent carries a batch of tool results.
type ToolResultsEvent struct {
	Type        EventType    `json:"type"`
	ToolResults []ToolResult `json:"tool_results"`
}

// EvtType returns the event type.
func (e ToolResultsEvent) EvtType() EventType { return EventTypeToolResults }

// RenderMediaEvent carries a media payload for display.
type RenderMediaEvent struct {
	Type        EventType              `json:"type"`
	Content     string                 `json:"content"`
	ContentType string                 `json:"content_type"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// EvtType returns the event type.
func (e RenderMediaEvent) EvtType() EventType { return EventTypeRenderMedia }

// CompletionStatus reports generation progress and token accounting.
// Token counts are pointers so "absent" and "zero" stay distinguishable.
type CompletionStatus struct {
	Running      bool `json:"running"`
	InputTokens  *int `json:"input_tokens,omitempty"`
	OutputTokens *int `json:"output_tokens,omitempty"`
}

// CompletionStatusEvent signals completion and token accounting.
type CompletionStatusEvent struct {
	Type EventType        `json:"type"`
	Data CompletionStatus `json:"data"`
}

// EvtType returns the event type.
func (e CompletionStatusEvent) EvtType() EventType { return EventTypeCompletionStatus }

// LifecycleEvent covers the no-op lifecycle markers (interaction_start,
// interaction_end, history). Recognized but never mutates the transcript.
type LifecycleEvent struct {
	Type EventType `json:"type"`
}

// EvtType returns the event type.
func (e LifecycleEvent) EvtType() EventType { return e.Type }

// UnknownEvent wraps a record whose type is not part of the taxonomy.
// It is surfaced to the caller rather than silently dropped.
type UnknownEvent struct {
	Type EventType
	Raw  json.RawMessage
}

// EvtType returns the event type.
func (e UnknownEvent) EvtType() EventType { return e.Type }

// FlexibleText is a field the backend emits either as a JSON string or as a
// structured value. The raw bytes are kept so nothing is lost.
type FlexibleText struct {
	raw json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexibleText) UnmarshalJSON(data []byte) error {
	f.raw = data
	return nil
}

// MarshalJSON implements json.Marshaler.
func (f FlexibleText) MarshalJSON() ([]byte, error) {
	if f.raw == nil {
		return []byte("null"), nil
	}
	return f.raw, nil
}

// IsEmpty reports whether the field is absent, null, or an empty string.
func (f FlexibleText) IsEmpty() bool {
	if len(f.raw) == 0 || string(f.raw) == "null" {
		return true
	}
	return f.Text() == ""
}

// Text returns the string value when the field is a JSON string, and the
// compact JSON encoding otherwise.
func (f FlexibleText) Text() string {
	if len(f.raw) == 0 || string(f.raw) == "null" {
		return ""
	}
	if f.raw[0] == '"' {
		var s string
		if err := json.Unmarshal(f.raw, &s); err == nil {
			return s
		}
	}
	return string(f.raw)
}

// TextOf builds a FlexibleText holding a plain string. Test and capture
// tooling use it to construct results without hand-written JSON.
func TextOf(s string) FlexibleText {
	b, _ := json.Marshal(s)
	return FlexibleText{raw: b}
}
