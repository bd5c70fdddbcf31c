package transcript

import (
	"github.com/lanewills/agentstream/protocol"
)

// Assembler folds decoded events into a Transcript, one transition per
// event. It decides, per event kind, whether the event merges into the last
// message or starts a new one. All mutation happens synchronously inside
// Apply, so the transcript is consistent whenever Apply is not running.
type Assembler struct {
	transcript *Transcript
	ledger     *Ledger
}

// NewAssembler creates an Assembler folding into t with the per-run ledger l.
func NewAssembler(t *Transcript, l *Ledger) *Assembler {
	return &Assembler{transcript: t, ledger: l}
}

// Transcript returns the transcript being assembled.
func (a *Assembler) Transcript() *Transcript {
	return a.transcript
}

// Ledger returns the per-run ledger.
func (a *Assembler) Ledger() *Ledger {
	return a.ledger
}

// Apply folds one event into the transcript. For tool_calls events it
// returns the records begun; for tool_results events the records resolved
// (discarded results excluded); nil otherwise.
func (a *Assembler) Apply(evt protocol.Event) []*ToolCall {
	switch e := evt.(type) {
	case protocol.NoticeEvent:
		a.applyNotice(e)
	case protocol.ContentEvent:
		a.applyDelta(MessageKindAssistant, e.Data, e.Vendor)
	case protocol.ThoughtDeltaEvent:
		a.applyDelta(MessageKindThinking, e.Data, e.Vendor)
	case protocol.ToolCallsEvent:
		return a.applyToolCalls(e)
	case protocol.ToolResultsEvent:
		return a.applyToolResults(e)
	case protocol.ToolSelectDeltaEvent:
		a.ledger.Hint(e)
	case protocol.RenderMediaEvent:
		a.applyMedia(e)
	case protocol.CompletionStatusEvent:
		a.applyCompletionStatus(e)
	case protocol.LifecycleEvent, protocol.UnknownEvent:
		// Recognized, no transcript mutation. Unknown events are surfaced
		// by the driver, not here.
	}
	return nil
}

// applyNotice always appends; a notice never merges with anything.
func (a *Assembler) applyNotice(e protocol.NoticeEvent) {
	a.transcript.Append(&Message{
		Kind:     MessageKindNotice,
		Text:     e.Data,
		Severity: SeverityError,
		Critical: e.Critical,
	})
}

// applyDelta merges a text delta into the last message when it is of the
// same kind, otherwise starts a new message. Assistant content and thinking
// are distinct accumulation channels and never merge into each other. A
// vendor tag seen on a later delta overrides an earlier placeholder; an
// empty vendor never erases a known one.
func (a *Assembler) applyDelta(kind MessageKind, delta, vendor string) {
	if last := a.transcript.Last(); last != nil && last.Kind == kind {
		last.Text += delta
		if vendor != "" {
			last.Vendor = vendor
		}
		return
	}
	a.transcript.Append(&Message{
		Kind:   kind,
		Text:   delta,
		Vendor: vendor,
	})
}

// applyToolCalls registers the batch with the ledger and attaches the
// records to the last tool call group, or a new one. A single assistant
// turn may request tools in more than one batch.
func (a *Assembler) applyToolCalls(e protocol.ToolCallsEvent) []*ToolCall {
	records := a.ledger.Begin(e.ToolCalls)
	if len(records) == 0 {
		return nil
	}
	if last := a.transcript.Last(); last != nil && last.Kind == MessageKindToolCalls {
		last.ToolCalls = append(last.ToolCalls, records...)
		return records
	}
	a.transcript.Append(&Message{
		Kind:      MessageKindToolCalls,
		ToolCalls: records,
	})
	return records
}

// applyToolResults resolves each result through the ledger. Records are
// shared between the ledger and the transcript's tool call groups, so the
// transcript entry updates in place. A tool_results event never changes
// which message is last.
func (a *Assembler) applyToolResults(e protocol.ToolResultsEvent) []*ToolCall {
	var resolved []*ToolCall
	for _, res := range e.ToolResults {
		if rec := a.ledger.Complete(res); rec != nil {
			resolved = append(resolved, rec)
		}
	}
	return resolved
}

// applyMedia always appends; media never merges and must stay at its
// position in the sequence so tool correlation across it remains visible.
func (a *Assembler) applyMedia(e protocol.RenderMediaEvent) {
	a.transcript.Append(&Message{
		Kind:          MessageKindMedia,
		MediaContent:  e.Content,
		MediaType:     e.ContentType,
		MediaMetadata: e.Metadata,
	})
}

// applyCompletionStatus attaches token usage to the most recent assistant
// content message once generation stops. No-op while running, when neither
// count is present, or when no assistant message exists yet.
func (a *Assembler) applyCompletionStatus(e protocol.CompletionStatusEvent) {
	if e.Data.Running {
		return
	}
	if e.Data.InputTokens == nil && e.Data.OutputTokens == nil {
		return
	}
	i := a.transcript.LastOfKind(MessageKindAssistant)
	if i < 0 {
		return
	}
	var prompt, completion int
	if e.Data.InputTokens != nil {
		prompt = *e.Data.InputTokens
	}
	if e.Data.OutputTokens != nil {
		completion = *e.Data.OutputTokens
	}
	a.transcript.Message(i).Usage = &TokenUsage{
		Prompt:     prompt,
		Completion: completion,
		Total:      prompt + completion,
	}
}
