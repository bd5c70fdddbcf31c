package client

import (
	"io"
	"log/slog"

	"github.com/lanewills/agentstream/transcript"
)

// SessionConfig holds session configuration.
type SessionConfig struct {
	Handlers        Handlers
	Logger          *slog.Logger
	Transcript      *transcript.Transcript
	CaptureWriter   io.Writer
	EventBufferSize int
}

// SessionOption is a functional option for configuring a Session.
type SessionOption func(*SessionConfig)

// WithHandlers sets the per-event-kind callbacks.
func WithHandlers(h Handlers) SessionOption {
	return func(c *SessionConfig) {
		c.Handlers = h
	}
}

// WithLogger sets the logger for diagnostics (default: slog.Default()).
func WithLogger(l *slog.Logger) SessionOption {
	return func(c *SessionConfig) {
		c.Logger = l
	}
}

// WithTranscript shares an existing transcript so conversation history
// persists across runs. The ledger and selection indicator are still fresh
// for every session.
func WithTranscript(t *transcript.Transcript) SessionOption {
	return func(c *SessionConfig) {
		c.Transcript = t
	}
}

// WithCapture records every received line to w as NDJSON capture entries
// that cmd/replay and tests can replay.
func WithCapture(w io.Writer) SessionOption {
	return func(c *SessionConfig) {
		c.CaptureWriter = w
	}
}

// WithEventBufferSize sets the event channel buffer size.
func WithEventBufferSize(size int) SessionOption {
	return func(c *SessionConfig) {
		c.EventBufferSize = size
	}
}

// defaultConfig returns the default configuration.
func defaultConfig() SessionConfig {
	return SessionConfig{
		EventBufferSize: 100,
	}
}
