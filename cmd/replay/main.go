// Command replay rebuilds a conversation transcript from a recorded event
// stream and prints it. It accepts both raw NDJSON session dumps and capture
// files written by the client package.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lanewills/agentstream/client"
	"github.com/lanewills/agentstream/internal/ndjson"
	"github.com/lanewills/agentstream/protocol"
	"github.com/lanewills/agentstream/render"
	"github.com/lanewills/agentstream/transcript"
)

var (
	configPath   string
	outputJSON   bool
	showThinking bool
	live         bool
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "replay <stream-file>",
	Short: "Rebuild a transcript from a recorded event stream",
	Long: `Replay reads an NDJSON event stream (a raw session dump or a capture
file with timestamped entries), folds it into a transcript, and prints the
result. Decode failures abort the replay; everything folded up to that point
is still printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slog.SetDefault(newLogger())

		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cmd.Flags().Changed("thinking") {
			cfg.ShowThinking = showThinking
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		if live {
			return replayLive(f)
		}

		tr, replayErr := replayStream(f)

		if outputJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(tr.Messages()); err != nil {
				return err
			}
		} else {
			printTranscript(tr, cfg)
		}
		return replayErr
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: .agentstream.yaml if present)")
	rootCmd.Flags().BoolVar(&outputJSON, "json", false, "Output transcript as JSON")
	rootCmd.Flags().BoolVar(&showThinking, "thinking", false, "Include thinking messages in the output")
	rootCmd.Flags().BoolVar(&live, "live", false, "Render events as they stream instead of printing the final transcript")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger creates a structured logger with the configured verbosity.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// replayStream folds every line of r into a fresh transcript. A decode
// failure stops the fold; the partial transcript is returned alongside the
// error so callers can still show what arrived before the bad line.
func replayStream(r io.Reader) (*transcript.Transcript, error) {
	tr := transcript.New()
	asm := transcript.NewAssembler(tr, transcript.NewLedger())

	reader := ndjson.NewReader(r)
	for {
		line, err := reader.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return tr, nil
			}
			return tr, fmt.Errorf("read stream: %w", err)
		}
		evt, err := protocol.ParseCaptureLine(line)
		if errors.Is(err, protocol.ErrStreamEnd) {
			return tr, nil
		}
		if err != nil {
			return tr, err
		}
		asm.Apply(evt)
	}
}

// replayLive drives the recorded stream through a session and renders each
// event as it arrives. Capture wrappers are stripped first so the session
// sees the raw lines the backend originally sent.
func replayLive(r io.Reader) error {
	raw, err := unwrapStream(r)
	if err != nil {
		return err
	}

	s := client.NewSession()
	renderer := render.NewRenderer(os.Stdout, verbose, false)
	renderer.RunInfo(s.RunID())

	done := make(chan error, 1)
	go func() {
		done <- s.Run(context.Background(), io.NopCloser(bytes.NewReader(raw)))
	}()
	for evt := range s.Events() {
		renderer.HandleEvent(evt)
	}
	if err := <-done; err != nil {
		renderer.Error(err, "replay")
		return err
	}
	return nil
}

// unwrapStream rewrites a possibly capture-wrapped stream as plain NDJSON.
// Plain lines pass through untouched.
func unwrapStream(r io.Reader) ([]byte, error) {
	var out bytes.Buffer
	w := ndjson.NewWriter(&out)

	reader := ndjson.NewReader(r)
	for {
		line, err := reader.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out.Bytes(), nil
			}
			return nil, fmt.Errorf("read stream: %w", err)
		}
		var entry protocol.CaptureEntry
		if json.Unmarshal(line, &entry) == nil && len(entry.Event) > 0 {
			line = entry.Event
		}
		if err := w.WriteRaw(line); err != nil {
			return nil, err
		}
	}
}

func printTranscript(tr *transcript.Transcript, cfg *Config) {
	if tr.Len() == 0 {
		fmt.Println("Empty transcript.")
		return
	}

	for _, msg := range tr.Messages() {
		switch msg.Kind {
		case transcript.MessageKindUser:
			fmt.Printf("[user] %s\n", msg.Text)
			for _, file := range msg.AttachedFiles {
				fmt.Printf("       attached: %s\n", file)
			}
		case transcript.MessageKindAssistant:
			fmt.Printf("[assistant] %s\n", msg.Text)
			if msg.Usage != nil {
				fmt.Printf("            tokens: %d prompt + %d completion = %d\n",
					msg.Usage.Prompt, msg.Usage.Completion, msg.Usage.Total)
			}
		case transcript.MessageKindThinking:
			if !cfg.ShowThinking {
				continue
			}
			fmt.Printf("[thinking] %s\n", msg.Text)
		case transcript.MessageKindToolCalls:
			fmt.Printf("[tools] %d call(s)\n", len(msg.ToolCalls))
			for _, call := range msg.ToolCalls {
				fmt.Printf("        %s(%s)", call.Name, truncate(call.Arguments, cfg.MaxArgumentChars))
				if call.Result == "" {
					fmt.Println(" -> pending")
				} else {
					fmt.Printf(" -> %s\n", truncate(call.Result, cfg.MaxResultChars))
				}
			}
		case transcript.MessageKindMedia:
			if !cfg.ShowMedia {
				continue
			}
			fmt.Printf("[media] %s (%d bytes)\n", msg.MediaType, len(msg.MediaContent))
		case transcript.MessageKindNotice:
			fmt.Printf("[notice:%s] %s\n", msg.Severity, msg.Text)
		}
	}
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
