package protocol

import (
	"encoding/json"
	"time"
)

// CaptureEntry wraps one raw stream line with metadata so a session can be
// recorded and later replayed as a fixture.
type CaptureEntry struct {
	Timestamp string          `json:"timestamp"`
	Direction string          `json:"direction"` // "sent" or "received"
	Event     json.RawMessage `json:"event"`
	RunID     string          `json:"run_id,omitempty"`
}

// NewCaptureEntry builds a "received" capture entry for a raw line.
func NewCaptureEntry(runID string, line []byte) CaptureEntry {
	raw := make(json.RawMessage, len(line))
	copy(raw, line)
	return CaptureEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Direction: "received",
		Event:     raw,
		RunID:     runID,
	}
}

// ParseCaptureLine parses a line from a capture file and decodes the inner
// event. Falls back to ParseEvent when the line is not a CaptureEntry
// wrapper, so plain NDJSON session dumps replay the same way.
func ParseCaptureLine(line []byte) (Event, error) {
	var entry CaptureEntry
	if err := json.Unmarshal(line, &entry); err != nil || len(entry.Event) == 0 {
		return ParseEvent(line)
	}
	return ParseEvent(entry.Event)
}
