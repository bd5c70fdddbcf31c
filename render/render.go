// Package render provides ANSI-colored terminal rendering for streamed
// transcripts.
package render

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/lanewills/agentstream/client"
)

// ANSI color codes - chosen to work on both light and dark backgrounds
const (
	ColorReset  = "\x1b[0m"
	ColorDim    = "\x1b[2m"
	ColorItalic = "\x1b[3m"
	ColorBold   = "\x1b[1m"
	ColorRed    = "\x1b[31m"
	ColorGreen  = "\x1b[32m"
	ColorYellow = "\x1b[33m"
	ColorCyan   = "\x1b[36m"
	ColorGray   = "\x1b[90m"
)

// Renderer handles terminal output with ANSI colors. It is driven either
// directly through its methods or by feeding session channel events to
// HandleEvent.
type Renderer struct {
	out        io.Writer
	tools      map[string]string // tool call ID → tool name
	mu         sync.Mutex
	verbose    bool
	noColor    bool
	inThinking bool
}

// NewRenderer creates a new renderer writing to the given output.
// If verbose is true, tool activity and token usage are shown.
// If noColor is true, ANSI color codes are suppressed.
func NewRenderer(out io.Writer, verbose, noColor bool) *Renderer {
	if !noColor {
		noColor = !isTerminal(out)
	}
	return &Renderer{
		out:     out,
		verbose: verbose,
		noColor: noColor,
		tools:   make(map[string]string),
	}
}

// isTerminal checks if the writer is a terminal.
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// color returns the color code if colors are enabled, empty string otherwise.
func (r *Renderer) color(c string) string {
	if r.noColor {
		return ""
	}
	return c
}

// RunInfo prints run metadata.
func (r *Renderer) RunInfo(runID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if runID != "" {
		fmt.Fprintf(r.out, "%s[run=%s]%s\n", r.color(ColorGray), runID, r.color(ColorReset))
	}
}

// Text prints streaming assistant text.
func (r *Renderer) Text(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Add newline when transitioning from thinking to text
	if r.inThinking {
		fmt.Fprintln(r.out)
		r.inThinking = false
	}
	fmt.Fprint(r.out, text)
}

// Thinking prints thinking output in italic style.
func (r *Renderer) Thinking(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "%s%s%s%s", r.color(ColorDim), r.color(ColorItalic), text, r.color(ColorReset))
	r.inThinking = true
}

// Notice prints an operator notice. Critical notices render in red.
func (r *Renderer) Notice(text string, critical bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := ColorYellow
	if critical {
		c = ColorRed
	}
	fmt.Fprintf(r.out, "\n%s[Notice]%s %s\n", r.color(c), r.color(ColorReset), text)
}

// ToolSelect prints the tool-selection indicator in verbose mode.
func (r *Renderer) ToolSelect(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.verbose {
		return
	}
	fmt.Fprintf(r.out, "%s[selecting %s]%s\n", r.color(ColorGray), name, r.color(ColorReset))
}

// ToolStart records a batch of begun tool calls. In verbose mode, prints one
// line per call: [name] args...
func (r *Renderer) ToolStart(id, name, arguments string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tools[id] = name

	if !r.verbose {
		return
	}
	fmt.Fprintf(r.out, "\n%s[%s]%s %s\n",
		r.color(ColorCyan), name, r.color(ColorReset), truncate(arguments, 60))
}

// ToolResult prints the completion of a tool call. Non-verbose mode tracks
// calls silently.
func (r *Renderer) ToolResult(id, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, ok := r.tools[id]
	if !ok {
		return
	}
	delete(r.tools, id)

	if !r.verbose {
		return
	}
	fmt.Fprintf(r.out, "%s[%s]%s %s✓%s %s\n",
		r.color(ColorCyan), name, r.color(ColorReset),
		r.color(ColorGreen), r.color(ColorReset), truncate(result, 60))
}

// Media prints a media placeholder. The payload itself is never rendered.
func (r *Renderer) Media(contentType string, size int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "\n%s[media %s, %d bytes]%s\n", r.color(ColorGray), contentType, size, r.color(ColorReset))
}

// Usage prints token accounting for the finished response in verbose mode.
func (r *Renderer) Usage(prompt, completion int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.verbose {
		return
	}
	fmt.Fprintf(r.out, "\n%s(%d input / %d output tokens)%s\n",
		r.color(ColorGray), prompt, completion, r.color(ColorReset))
}

// StreamEnd prints the end-of-stream separator.
func (r *Renderer) StreamEnd() {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "\n%s───────────────────────────────────────────────────────%s\n",
		r.color(ColorDim), r.color(ColorReset))
}

// Error prints an error message.
func (r *Renderer) Error(err error, context string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fmt.Fprintf(r.out, "\n%s[Error: %s]%s %v\n", r.color(ColorRed), context, r.color(ColorReset), err)
}

// HandleEvent renders one session channel event. Intended for a consumer
// loop over Session.Events.
func (r *Renderer) HandleEvent(evt client.Event) {
	switch e := evt.(type) {
	case client.TextEvent:
		r.Text(e.Text)
	case client.ThinkingEvent:
		r.Thinking(e.Text)
	case client.NoticeEvent:
		r.Notice(e.Text, e.Critical)
	case client.ToolSelectEvent:
		if e.Selection.InProgress {
			r.ToolSelect(e.Selection.ToolName)
		}
	case client.ToolStartEvent:
		for _, call := range e.Calls {
			r.ToolStart(call.ID, call.Name, call.Arguments)
		}
	case client.ToolResultEvent:
		r.ToolResult(e.Call.ID, e.Call.Result)
	case client.MediaEvent:
		r.Media(e.ContentType, len(e.Content))
	case client.UsageEvent:
		prompt, completion := 0, 0
		if e.Status.InputTokens != nil {
			prompt = *e.Status.InputTokens
		}
		if e.Status.OutputTokens != nil {
			completion = *e.Status.OutputTokens
		}
		r.Usage(prompt, completion)
	case client.EndEvent:
		r.StreamEnd()
	}
}

// truncate truncates a string to the given max length.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
