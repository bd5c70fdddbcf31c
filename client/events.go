package client

import (
	"github.com/lanewills/agentstream/protocol"
	"github.com/lanewills/agentstream/transcript"
)

// EventType discriminates between event kinds on the session channel.
type EventType int

const (
	// EventTypeText fires for assistant text deltas.
	EventTypeText EventType = iota
	// EventTypeThinking fires for thinking deltas.
	EventTypeThinking
	// EventTypeNotice fires for operator notices pushed into the stream.
	EventTypeNotice
	// EventTypeToolSelect fires when the tool-selection hint changes.
	EventTypeToolSelect
	// EventTypeToolStart fires when a batch of tool calls begins.
	EventTypeToolStart
	// EventTypeToolResult fires for each resolved tool call.
	EventTypeToolResult
	// EventTypeMedia fires for media payloads.
	EventTypeMedia
	// EventTypeUsage fires for completion/token-accounting updates.
	EventTypeUsage
	// EventTypeUnknown fires for records outside the known taxonomy.
	EventTypeUnknown
	// EventTypeEnd fires once when the stream terminates cleanly.
	EventTypeEnd
)

// Event is the interface for all session channel events.
type Event interface {
	Type() EventType
}

// TextEvent contains one assistant text delta.
type TextEvent struct {
	Text   string
	Vendor string
}

func (e TextEvent) Type() EventType { return EventTypeText }

// ThinkingEvent contains one thinking delta.
type ThinkingEvent struct {
	Text   string
	Vendor string
}

func (e ThinkingEvent) Type() EventType { return EventTypeThinking }

// NoticeEvent contains an operator notice.
type NoticeEvent struct {
	Text     string
	Critical bool
}

func (e NoticeEvent) Type() EventType { return EventTypeNotice }

// ToolSelectEvent carries the updated tool-selection indicator.
type ToolSelectEvent struct {
	Selection transcript.ToolSelection
}

func (e ToolSelectEvent) Type() EventType { return EventTypeToolSelect }

// ToolStartEvent carries the records of one begun tool call batch.
type ToolStartEvent struct {
	Calls []*transcript.ToolCall
}

func (e ToolStartEvent) Type() EventType { return EventTypeToolStart }

// ToolResultEvent carries one resolved tool call record.
type ToolResultEvent struct {
	Call *transcript.ToolCall
}

func (e ToolResultEvent) Type() EventType { return EventTypeToolResult }

// MediaEvent carries a media payload.
type MediaEvent struct {
	Metadata    map[string]interface{}
	Content     string
	ContentType string
}

func (e MediaEvent) Type() EventType { return EventTypeMedia }

// UsageEvent carries a completion status update.
type UsageEvent struct {
	Status protocol.CompletionStatus
}

func (e UsageEvent) Type() EventType { return EventTypeUsage }

// UnknownTypeEvent carries a record whose type is outside the taxonomy.
type UnknownTypeEvent struct {
	RecordType protocol.EventType
	Raw        []byte
}

func (e UnknownTypeEvent) Type() EventType { return EventTypeUnknown }

// EndEvent fires once when the stream terminates cleanly (sentinel or
// abrupt close).
type EndEvent struct{}

func (e EndEvent) Type() EventType { return EventTypeEnd }
