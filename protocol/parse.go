package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrStreamEnd is returned by ParseEvent for the sentinel line. It marks the
// natural end of the stream and is not a failure.
var ErrStreamEnd = errors.New("stream ended")

var sentinel = []byte("null")

// ParseError is a fatal decode failure for one line. The offending line is
// carried for diagnostics.
type ParseError struct {
	Cause error
	Line  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse event line: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ParseEvent decodes one framed line into a typed event.
//
// A line equal to the literal "null" — which is also the only input that
// parses to the JSON null value — returns ErrStreamEnd. A line that is not
// valid JSON returns a *ParseError; the caller decides whether that aborts
// the run. A valid record with an unrecognized type returns UnknownEvent so
// it stays observable.
func ParseEvent(line []byte) (Event, error) {
	trimmed := bytes.TrimSpace(line)
	if bytes.Equal(trimmed, sentinel) {
		return nil, ErrStreamEnd
	}

	var head struct {
		Type EventType `json:"type"`
	}
	if err := json.Unmarshal(trimmed, &head); err != nil {
		return nil, &ParseError{Cause: err, Line: string(line)}
	}

	switch head.Type {
	case EventTypeMessage:
		var e NoticeEvent
		if err := json.Unmarshal(trimmed, &e); err != nil {
			return nil, &ParseError{Cause: err, Line: string(line)}
		}
		return e, nil
	case EventTypeToolSelectDelta:
		var e ToolSelectDeltaEvent
		if err := json.Unmarshal(trimmed, &e); err != nil {
			return nil, &ParseError{Cause: err, Line: string(line)}
		}
		return e, nil
	case EventTypeToolCalls:
		var e ToolCallsEvent
		if err := json.Unmarshal(trimmed, &e); err != nil {
			return nil, &ParseError{Cause: err, Line: string(line)}
		}
		return e, nil
	case EventTypeContent:
		var e ContentEvent
		if err := json.Unmarshal(trimmed, &e); err != nil {
			return nil, &ParseError{Cause: err, Line: string(line)}
		}
		return e, nil
	case EventTypeToolResults:
		var e ToolResultsEvent
		if err := json.Unmarshal(trimmed, &e); err != nil {
			return nil, &ParseError{Cause: err, Line: string(line)}
		}
		return e, nil
	case EventTypeRenderMedia:
		var e RenderMediaEvent
		if err := json.Unmarshal(trimmed, &e); err != nil {
			return nil, &ParseError{Cause: err, Line: string(line)}
		}
		return e, nil
	case EventTypeCompletionStatus:
		var e CompletionStatusEvent
		if err := json.Unmarshal(trimmed, &e); err != nil {
			return nil, &ParseError{Cause: err, Line: string(line)}
		}
		return e, nil
	case EventTypeThoughtDelta:
		var e ThoughtDeltaEvent
		if err := json.Unmarshal(trimmed, &e); err != nil {
			return nil, &ParseError{Cause: err, Line: string(line)}
		}
		return e, nil
	case EventTypeInteractionStart, EventTypeInteractionEnd, EventTypeHistory:
		// Lifecycle markers: payload ignored.
		return LifecycleEvent{Type: head.Type}, nil
	default:
		raw := make(json.RawMessage, len(trimmed))
		copy(raw, trimmed)
		return UnknownEvent{Type: head.Type, Raw: raw}, nil
	}
}
