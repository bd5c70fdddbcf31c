package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/lanewills/agentstream/internal/ndjson"
	"github.com/lanewills/agentstream/protocol"
	"github.com/lanewills/agentstream/transcript"
)

// ErrAlreadyRun is returned when Run is called twice on one Session.
var ErrAlreadyRun = errors.New("session already run")

// Session drives one streaming run. It owns the read loop and the per-run
// ledger; the transcript may be shared across sessions via WithTranscript.
type Session struct {
	transcript *transcript.Transcript
	ledger     *transcript.Ledger
	assembler  *transcript.Assembler
	logger     *slog.Logger
	events     chan Event
	capture    *ndjson.Writer
	config     SessionConfig
	runID      string
	mu         sync.Mutex
	ran        bool
}

// NewSession creates a Session with a fresh ledger and selection indicator.
func NewSession(opts ...SessionOption) *Session {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	t := config.Transcript
	if t == nil {
		t = transcript.New()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Session{
		config:     config,
		runID:      uuid.NewString(),
		transcript: t,
		ledger:     transcript.NewLedger(),
		events:     make(chan Event, config.EventBufferSize),
	}
	s.logger = logger.With("run_id", s.runID)
	s.assembler = transcript.NewAssembler(t, s.ledger)
	if config.CaptureWriter != nil {
		s.capture = ndjson.NewWriter(config.CaptureWriter)
	}
	return s
}

// RunID returns the unique identifier of this run, used for log and capture
// correlation.
func (s *Session) RunID() string {
	return s.runID
}

// Transcript returns the live transcript.
func (s *Session) Transcript() *transcript.Transcript {
	return s.transcript
}

// Selection returns the current tool-selection indicator.
func (s *Session) Selection() transcript.ToolSelection {
	return s.ledger.Selection()
}

// Events returns the typed event channel. It is closed when Run returns.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Run reads the stream to completion, folding every decoded event into the
// transcript and notifying handlers and the event channel. It blocks until
// the stream terminates.
//
// Run returns nil on the sentinel line and on the body ending without one
// (the backend may legitimately close without an explicit terminator). An
// externally aborted stream — the caller cancelled ctx and closed the body —
// is treated the same way. A line that fails to parse as JSON is fatal: Run
// returns the *protocol.ParseError, with everything assembled from earlier
// lines preserved in the transcript. The body is closed on every exit path.
func (s *Session) Run(ctx context.Context, body io.ReadCloser) error {
	s.mu.Lock()
	if s.ran {
		s.mu.Unlock()
		return ErrAlreadyRun
	}
	s.ran = true
	s.mu.Unlock()

	defer body.Close()
	defer close(s.events)

	reader := ndjson.NewReader(body)
	for {
		line, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF || ctx.Err() != nil {
				// Abrupt close without a sentinel, or external abort:
				// both are a normal end of input.
				s.emit(EndEvent{})
				return nil
			}
			return fmt.Errorf("read stream: %w", err)
		}

		s.record(line)

		evt, err := protocol.ParseEvent(line)
		if errors.Is(err, protocol.ErrStreamEnd) {
			s.emit(EndEvent{})
			return nil
		}
		if err != nil {
			s.logger.Error("aborting run on malformed line", "error", err)
			return err
		}

		touched := s.assembler.Apply(evt)
		s.dispatch(evt, touched)
	}
}

// record appends the raw line to the capture writer, before parsing, so
// unknown and even malformed records are preserved.
func (s *Session) record(line []byte) {
	if s.capture == nil {
		return
	}
	if err := s.capture.Write(protocol.NewCaptureEntry(s.runID, line)); err != nil {
		s.logger.Warn("capture write failed", "error", err)
	}
}

// dispatch invokes the matching handler and mirrors the event onto the
// typed channel. touched is Apply's return value for tool events.
func (s *Session) dispatch(evt protocol.Event, touched []*transcript.ToolCall) {
	h := s.config.Handlers
	switch e := evt.(type) {
	case protocol.NoticeEvent:
		if h.OnNotice != nil {
			h.OnNotice(e)
		}
		s.emit(NoticeEvent{Text: e.Data, Critical: e.Critical})
	case protocol.ContentEvent:
		if h.OnContent != nil {
			h.OnContent(e)
		}
		s.emit(TextEvent{Text: e.Data, Vendor: e.Vendor})
	case protocol.ThoughtDeltaEvent:
		if h.OnThoughtDelta != nil {
			h.OnThoughtDelta(e)
		}
		s.emit(ThinkingEvent{Text: e.Data, Vendor: e.Vendor})
	case protocol.ToolSelectDeltaEvent:
		if h.OnToolSelect != nil {
			h.OnToolSelect(s.ledger.Selection())
		}
		s.emit(ToolSelectEvent{Selection: s.ledger.Selection()})
	case protocol.ToolCallsEvent:
		if len(touched) == 0 {
			return
		}
		if h.OnToolCalls != nil {
			h.OnToolCalls(touched)
		}
		s.emit(ToolStartEvent{Calls: touched})
	case protocol.ToolResultsEvent:
		if len(touched) == 0 {
			return
		}
		if h.OnToolResults != nil {
			h.OnToolResults(touched)
		}
		for _, rec := range touched {
			s.emit(ToolResultEvent{Call: rec})
		}
	case protocol.RenderMediaEvent:
		if h.OnMedia != nil {
			h.OnMedia(e)
		}
		s.emit(MediaEvent{Content: e.Content, ContentType: e.ContentType, Metadata: e.Metadata})
	case protocol.CompletionStatusEvent:
		if h.OnCompletionStatus != nil {
			h.OnCompletionStatus(e)
		}
		s.emit(UsageEvent{Status: e.Data})
	case protocol.UnknownEvent:
		s.logger.Warn("unknown event type", "type", e.Type)
		if h.OnUnknown != nil {
			h.OnUnknown(e)
		}
		s.emit(UnknownTypeEvent{RecordType: e.Type, Raw: e.Raw})
	case protocol.LifecycleEvent:
		// Reserved markers; nothing to notify.
	}
}

// emit sends an event to the channel, dropping it when the buffer is full
// so a slow or absent consumer never stalls the read loop.
func (s *Session) emit(event Event) {
	select {
	case s.events <- event:
	default:
		s.logger.Debug("event channel full, dropping event")
	}
}
