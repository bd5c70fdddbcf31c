package ndjson

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

// chunkReader returns data in fixed-size chunks to exercise splits that land
// inside lines and inside multi-byte UTF-8 sequences.
type chunkReader struct {
	data []byte
	size int
	off  int
}

func (c *chunkReader) Read(p []byte) (int, error) {
	if c.off >= len(c.data) {
		return 0, io.EOF
	}
	n := c.size
	if n > len(p) {
		n = len(p)
	}
	if c.off+n > len(c.data) {
		n = len(c.data) - c.off
	}
	copy(p, c.data[c.off:c.off+n])
	c.off += n
	return n, nil
}

func readAll(t *testing.T, r *Reader) []string {
	t.Helper()
	var lines []string
	for {
		line, err := r.ReadLine()
		if err != nil {
			if err != io.EOF {
				t.Fatalf("unexpected error: %v", err)
			}
			return lines
		}
		lines = append(lines, string(line))
	}
}

func TestReadLine_ChunkBoundaries(t *testing.T) {
	input := "first line\nsecond — ünïcode\nthird"
	want := []string{"first line", "second — ünïcode", "third"}

	// Every chunk size must frame identically, including size 1, which
	// splits every UTF-8 sequence.
	for size := 1; size <= len(input)+1; size++ {
		r := NewReader(&chunkReader{data: []byte(input), size: size})
		got := readAll(t, r)
		if len(got) != len(want) {
			t.Fatalf("size %d: got %d lines, want %d: %v", size, len(got), len(want), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("size %d line %d: got %q, want %q", size, i, got[i], want[i])
			}
		}
	}
}

func TestReadLine_TrailingNewline(t *testing.T) {
	r := NewReader(strings.NewReader("a\nb\n"))
	got := readAll(t, r)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("unexpected lines: %v", got)
	}
}

func TestReadLine_BlankLinesSkipped(t *testing.T) {
	r := NewReader(strings.NewReader("a\n\n   \n\r\nb\n"))
	got := readAll(t, r)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("unexpected lines: %v", got)
	}
}

func TestReadLine_TrimsWhitespace(t *testing.T) {
	r := NewReader(strings.NewReader("  {\"a\":1}  \r\n"))
	line, err := r.ReadLine()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(line) != `{"a":1}` {
		t.Errorf("got %q", line)
	}
}

func TestReadLine_EmptyStream(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	if _, err := r.ReadLine(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestWriter_Roundtrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteRaw([]byte(`{"type":"content"}`)); err != nil {
		t.Fatalf("WriteRaw: %v", err)
	}
	if err := w.Write(map[string]string{"type": "message"}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r := NewReader(&buf)
	got := readAll(t, r)
	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}
	if got[0] != `{"type":"content"}` {
		t.Errorf("line 0: %q", got[0])
	}
	if got[1] != `{"type":"message"}` {
		t.Errorf("line 1: %q", got[1])
	}
}
