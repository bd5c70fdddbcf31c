package client

import (
	"github.com/lanewills/agentstream/protocol"
	"github.com/lanewills/agentstream/transcript"
)

// Handlers holds per-event-kind callbacks. Each is invoked synchronously
// from the read loop, after the event has been folded into the transcript,
// so a handler observing the transcript sees the event's effect. Nil
// handlers are skipped.
type Handlers struct {
	// OnNotice fires for operator notices.
	OnNotice func(protocol.NoticeEvent)
	// OnContent fires for assistant text deltas.
	OnContent func(protocol.ContentEvent)
	// OnThoughtDelta fires for thinking deltas.
	OnThoughtDelta func(protocol.ThoughtDeltaEvent)
	// OnToolSelect fires when the tool-selection indicator changes.
	OnToolSelect func(transcript.ToolSelection)
	// OnToolCalls fires with the records of one begun batch.
	OnToolCalls func([]*transcript.ToolCall)
	// OnToolResults fires with the records one tool_results event resolved.
	// Discarded results (malformed, unknown id) do not fire it.
	OnToolResults func([]*transcript.ToolCall)
	// OnMedia fires for media payloads.
	OnMedia func(protocol.RenderMediaEvent)
	// OnCompletionStatus fires for completion/token updates.
	OnCompletionStatus func(protocol.CompletionStatusEvent)
	// OnUnknown fires for records outside the known taxonomy so they stay
	// observable instead of being silently lost.
	OnUnknown func(protocol.UnknownEvent)
}
