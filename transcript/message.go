// Package transcript assembles a stream of decoded backend events into an
// ordered conversation transcript. The transcript is append-only except for
// in-place mutation of the last entry under the merge rules the Assembler
// applies, so a consumer reading it between events always sees a consistent
// snapshot.
package transcript

// MessageKind identifies the kind of transcript message.
type MessageKind string

const (
	MessageKindUser      MessageKind = "user"
	MessageKindAssistant MessageKind = "assistant"
	MessageKindThinking  MessageKind = "thinking"
	MessageKindToolCalls MessageKind = "tool_calls"
	MessageKindMedia     MessageKind = "media"
	MessageKindNotice    MessageKind = "notice"
)

// Severity grades a notice message.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityError Severity = "error"
)

// TokenUsage summarizes token accounting for one assistant message.
type TokenUsage struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
	Total      int `json:"total"`
}

// ToolCall is one tool invocation, correlated with its eventual result by
// ID. Result stays empty until the matching tool_results event arrives;
// results with empty content are discarded upstream, so an empty Result
// unambiguously means pending.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
	Result    string `json:"result,omitempty"`
}

// Message is one transcript entry, tagged by Kind. Only the fields relevant
// to the Kind are populated.
type Message struct {
	Kind MessageKind `json:"kind"`

	// Text accumulates deltas for assistant/thinking messages, and holds
	// the full text for user and notice messages. For the accumulating
	// kinds it only ever grows by append.
	Text string `json:"text,omitempty"`

	// User fields.
	AttachedFiles []string `json:"attached_files,omitempty"`
	Voice         bool     `json:"voice,omitempty"`

	// Assistant fields.
	Vendor string      `json:"vendor,omitempty"`
	Usage  *TokenUsage `json:"usage,omitempty"`

	// Tool call group. Records are shared with the per-run Ledger so a
	// result arriving later updates both views at once.
	ToolCalls []*ToolCall `json:"tool_calls,omitempty"`

	// Media fields.
	MediaContent  string                 `json:"media_content,omitempty"`
	MediaType     string                 `json:"media_type,omitempty"`
	MediaMetadata map[string]interface{} `json:"media_metadata,omitempty"`

	// Notice fields.
	Severity Severity `json:"severity,omitempty"`
	Critical bool     `json:"critical,omitempty"`
}
