package transcript

// Transcript is the ordered list of assembled messages. Insertion order is
// the authoritative display order. It persists across user turns; the
// Ledger does not.
type Transcript struct {
	messages []*Message
}

// New creates an empty Transcript.
func New() *Transcript {
	return &Transcript{}
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Messages returns the live message slice in display order.
func (t *Transcript) Messages() []*Message {
	return t.messages
}

// Message returns the message at index i.
func (t *Transcript) Message(i int) *Message {
	return t.messages[i]
}

// Last returns the most recent message, or nil when empty.
func (t *Transcript) Last() *Message {
	if len(t.messages) == 0 {
		return nil
	}
	return t.messages[len(t.messages)-1]
}

// Append adds a message at the end.
func (t *Transcript) Append(m *Message) {
	t.messages = append(t.messages, m)
}

// AppendUser records the user's turn. The stream itself never carries user
// content; the caller records it before driving a run.
func (t *Transcript) AppendUser(text string, files []string, voice bool) *Message {
	m := &Message{
		Kind:          MessageKindUser,
		Text:          text,
		AttachedFiles: files,
		Voice:         voice,
	}
	t.Append(m)
	return m
}

// LastOfKind scans backward for the most recent message of the given kind.
// Returns -1 when none exists.
func (t *Transcript) LastOfKind(kind MessageKind) int {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Kind == kind {
			return i
		}
	}
	return -1
}

// FindToolCall locates a tool call record by id, scanning tool call groups
// from the most recent backward. Returns the group index and the record, or
// (-1, nil) when the id is unknown.
func (t *Transcript) FindToolCall(id string) (int, *ToolCall) {
	for i := len(t.messages) - 1; i >= 0; i-- {
		if t.messages[i].Kind != MessageKindToolCalls {
			continue
		}
		for _, c := range t.messages[i].ToolCalls {
			if c.ID == id {
				return i, c
			}
		}
	}
	return -1, nil
}

// NearestAssistantBefore returns the index of the closest assistant content
// message at or before i, skipping media and tool call groups. This is the
// lookback a presentation layer uses to associate trailing tool calls with
// the assistant message that requested them. Returns -1 when none exists.
func (t *Transcript) NearestAssistantBefore(i int) int {
	if i >= len(t.messages) {
		i = len(t.messages) - 1
	}
	for ; i >= 0; i-- {
		switch t.messages[i].Kind {
		case MessageKindAssistant:
			return i
		case MessageKindMedia, MessageKindToolCalls:
			// Neither breaks the association with earlier assistant content.
		default:
			return -1
		}
	}
	return -1
}
