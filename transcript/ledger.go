package transcript

import (
	"log/slog"
	"time"

	"github.com/lanewills/agentstream/protocol"
)

// ToolSelection is the ephemeral "about to call a tool" hint. It is never
// persisted into the transcript; the next hint overwrites it and a real
// result clears it.
type ToolSelection struct {
	UpdatedAt  time.Time
	ToolName   string
	InProgress bool
}

// Ledger correlates in-flight tool invocations with their results for one
// streaming run. Construct a fresh Ledger per run; a new user turn must not
// reuse one from a previous, possibly still-finishing, run.
type Ledger struct {
	calls     map[string]*ToolCall
	selection ToolSelection
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{calls: make(map[string]*ToolCall)}
}

// Begin normalizes one batch of descriptors into tool call records with
// pending results, registers them by id (overwriting on collision), and
// returns them in input order for the assembler to attach to the
// transcript. It also marks the selection indicator in progress.
func (l *Ledger) Begin(descs []protocol.ToolDescriptor) []*ToolCall {
	records := make([]*ToolCall, 0, len(descs))
	for _, d := range descs {
		c := d.Normalize()
		rec := &ToolCall{ID: c.ID, Name: c.Name, Arguments: c.Arguments}
		l.calls[rec.ID] = rec
		records = append(records, rec)
	}
	if len(records) > 0 {
		l.selection = ToolSelection{
			InProgress: true,
			ToolName:   records[0].Name,
			UpdatedAt:  time.Now(),
		}
	}
	return records
}

// Complete resolves one tool result against its pending record and clears
// the selection indicator. Malformed results (missing id or content) and
// results for unknown ids are logged and discarded; no record is ever
// fabricated. Returns the updated record, or nil for a discarded result.
func (l *Ledger) Complete(res protocol.ToolResult) *ToolCall {
	if res.ToolCallID == "" || res.Content.IsEmpty() {
		slog.Warn("discarding malformed tool result", "tool_call_id", res.ToolCallID)
		return nil
	}
	rec, ok := l.calls[res.ToolCallID]
	if !ok {
		slog.Warn("discarding result for unknown tool call", "tool_call_id", res.ToolCallID)
		return nil
	}
	rec.Result = res.Content.Text()
	l.selection = ToolSelection{}
	return rec
}

// Hint records a tool-selection hint. An unparsable hint payload degrades
// to "unknown tool" rather than dropping the indicator, so the UI can still
// show that something is happening.
func (l *Ledger) Hint(evt protocol.ToolSelectDeltaEvent) {
	name, ok := evt.ToolName()
	if !ok {
		slog.Debug("unparsable tool selection hint", "data", evt.Data)
		name = "unknown tool"
	}
	l.selection = ToolSelection{
		InProgress: true,
		ToolName:   name,
		UpdatedAt:  time.Now(),
	}
}

// Selection returns the current tool-selection indicator.
func (l *Ledger) Selection() ToolSelection {
	return l.selection
}
