package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lanewills/agentstream/internal/ndjson"
	"github.com/lanewills/agentstream/protocol"
	"github.com/lanewills/agentstream/transcript"
)

func runLines(t *testing.T, lines []string, opts ...SessionOption) (*Session, error) {
	t.Helper()
	s := NewSession(opts...)
	body := io.NopCloser(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	return s, s.Run(context.Background(), body)
}

func TestRun_EndToEndScenario(t *testing.T) {
	lines := []string{
		`{"type":"content","data":"Hi","vendor":"openai"}`,
		`{"type":"tool_calls","tool_calls":[{"id":"t1","name":"search","arguments":"{}"}]}`,
		`{"type":"tool_results","tool_results":[{"tool_call_id":"t1","content":"3 results"}]}`,
		`{"type":"completion_status","data":{"running":false,"input_tokens":4,"output_tokens":2}}`,
		`null`,
	}
	s, err := runLines(t, lines)
	require.NoError(t, err)

	tr := s.Transcript()
	require.Equal(t, 2, tr.Len())

	content := tr.Message(0)
	assert.Equal(t, transcript.MessageKindAssistant, content.Kind)
	assert.Equal(t, "Hi", content.Text)
	assert.Equal(t, "openai", content.Vendor)
	require.NotNil(t, content.Usage)
	assert.Equal(t, transcript.TokenUsage{Prompt: 4, Completion: 2, Total: 6}, *content.Usage)

	group := tr.Message(1)
	require.Equal(t, transcript.MessageKindToolCalls, group.Kind)
	require.Len(t, group.ToolCalls, 1)
	call := group.ToolCalls[0]
	assert.Equal(t, "t1", call.ID)
	assert.Equal(t, "search", call.Name)
	assert.Equal(t, "{}", call.Arguments)
	assert.Equal(t, "3 results", call.Result)
}

func TestRun_MalformedLineAbortsPreservingTranscript(t *testing.T) {
	var contents []string
	s, err := runLines(t, []string{
		`{"type":"content","data":"keep me"}`,
		`{not json`,
		`{"type":"content","data":"never processed"}`,
	}, WithHandlers(Handlers{
		OnContent: func(e protocol.ContentEvent) { contents = append(contents, e.Data) },
	}))

	var perr *protocol.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "{not json", perr.Line)

	// Partial success stays intact and queryable.
	require.Equal(t, 1, s.Transcript().Len())
	assert.Equal(t, "keep me", s.Transcript().Message(0).Text)
	assert.Equal(t, []string{"keep me"}, contents)
}

func TestRun_SentinelHaltsProcessing(t *testing.T) {
	var contents []string
	s, err := runLines(t, []string{
		`{"type":"content","data":"before"}`,
		`null`,
		`{"type":"content","data":"after"}`,
	}, WithHandlers(Handlers{
		OnContent: func(e protocol.ContentEvent) { contents = append(contents, e.Data) },
	}))

	require.NoError(t, err)
	assert.Equal(t, []string{"before"}, contents, "lines after the sentinel are never decoded")
	assert.Equal(t, 1, s.Transcript().Len())
}

func TestRun_AbruptCloseIsNormalCompletion(t *testing.T) {
	// No sentinel, no trailing newline: the final partial line still lands.
	s := NewSession()
	body := io.NopCloser(strings.NewReader(
		`{"type":"content","data":"a"}` + "\n" + `{"type":"content","data":"b"}`))
	err := s.Run(context.Background(), body)

	require.NoError(t, err)
	require.Equal(t, 1, s.Transcript().Len())
	assert.Equal(t, "ab", s.Transcript().Message(0).Text)
}

func TestRun_UnknownTypeSurfaced(t *testing.T) {
	var unknown []protocol.UnknownEvent
	s, err := runLines(t, []string{
		`{"type":"future_feature","data":"x"}`,
		`null`,
	}, WithHandlers(Handlers{
		OnUnknown: func(e protocol.UnknownEvent) { unknown = append(unknown, e) },
	}))

	require.NoError(t, err)
	require.Len(t, unknown, 1)
	assert.Equal(t, protocol.EventType("future_feature"), unknown[0].Type)
	assert.Equal(t, 0, s.Transcript().Len())
}

func TestRun_SecondRunRejected(t *testing.T) {
	s, err := runLines(t, []string{`null`})
	require.NoError(t, err)

	err = s.Run(context.Background(), io.NopCloser(strings.NewReader("null\n")))
	assert.ErrorIs(t, err, ErrAlreadyRun)
}

func TestRun_SharedTranscriptAcrossTurns(t *testing.T) {
	tr := transcript.New()
	tr.AppendUser("first question", nil, false)

	_, err := runLines(t, []string{
		`{"type":"content","data":"first answer"}`,
		`null`,
	}, WithTranscript(tr))
	require.NoError(t, err)

	tr.AppendUser("second question", nil, false)
	s2, err := runLines(t, []string{
		`{"type":"content","data":"second answer"}`,
		`null`,
	}, WithTranscript(tr))
	require.NoError(t, err)

	require.Equal(t, 4, tr.Len())
	assert.Equal(t, "second answer", tr.Message(3).Text)
	// The second run started with a fresh ledger and indicator.
	assert.False(t, s2.Selection().InProgress)
}

func TestRun_EventChannel(t *testing.T) {
	s := NewSession()
	body := io.NopCloser(strings.NewReader(strings.Join([]string{
		`{"type":"thought_delta","data":"hmm"}`,
		`{"type":"content","data":"Hi"}`,
		`{"type":"tool_calls","tool_calls":[{"id":"t1","name":"search"}]}`,
		`{"type":"tool_results","tool_results":[{"tool_call_id":"t1","content":"ok"}]}`,
		`{"type":"render_media","content":"<svg/>","content_type":"image/svg+xml"}`,
		`null`,
	}, "\n") + "\n"))

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background(), body) }()

	var kinds []EventType
	for evt := range s.Events() {
		kinds = append(kinds, evt.Type())
	}
	require.NoError(t, <-done)

	assert.Equal(t, []EventType{
		EventTypeThinking,
		EventTypeText,
		EventTypeToolStart,
		EventTypeToolResult,
		EventTypeMedia,
		EventTypeEnd,
	}, kinds)
}

func TestRun_CaptureReplayRoundtrip(t *testing.T) {
	var captured bytes.Buffer
	lines := []string{
		`{"type":"content","data":"Hi"}`,
		`{"type":"tool_calls","tool_calls":[{"id":"t1","name":"search","arguments":"{}"}]}`,
		`null`,
	}
	_, err := runLines(t, lines, WithCapture(&captured))
	require.NoError(t, err)

	// Replaying the capture file rebuilds the same transcript.
	replayed := transcript.New()
	asm := transcript.NewAssembler(replayed, transcript.NewLedger())
	reader := ndjson.NewReader(&captured)
	for {
		line, err := reader.ReadLine()
		if err != nil {
			break
		}
		evt, err := protocol.ParseCaptureLine(line)
		if errors.Is(err, protocol.ErrStreamEnd) {
			break
		}
		require.NoError(t, err)
		asm.Apply(evt)
	}

	require.Equal(t, 2, replayed.Len())
	assert.Equal(t, "Hi", replayed.Message(0).Text)
	assert.Equal(t, "search", replayed.Message(1).ToolCalls[0].Name)
}

func TestDo_StreamsOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		for _, line := range []string{
			`{"type":"content","data":"chunk one"}`,
			`{"type":"content","data":" chunk two"}`,
			`null`,
		} {
			io.WriteString(w, line+"\n")
			flusher.Flush()
		}
	}))
	defer srv.Close()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, srv.URL, nil)
	require.NoError(t, err)

	s := NewSession()
	require.NoError(t, s.Do(srv.Client(), req))
	require.Equal(t, 1, s.Transcript().Len())
	assert.Equal(t, "chunk one chunk two", s.Transcript().Message(0).Text)
}

func TestStream_ReturnsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"type":"content","data":"hello"}`+"\n"+"null\n")
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL, nil)
	require.NoError(t, err)

	s, err := Stream(context.Background(), srv.Client(), req)
	require.NoError(t, err)
	require.Equal(t, 1, s.Transcript().Len())
	assert.Equal(t, "hello", s.Transcript().Message(0).Text)
}

func TestDo_Non2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL, nil)
	require.NoError(t, err)

	err = NewSession().Do(srv.Client(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
