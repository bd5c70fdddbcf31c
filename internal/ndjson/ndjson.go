// Package ndjson provides line framing for newline-delimited JSON streams.
//
// The Reader tolerates arbitrary chunk boundaries from the underlying
// io.Reader, including boundaries inside a line or inside a multi-byte
// UTF-8 sequence (a newline byte never occurs inside a UTF-8 sequence,
// so byte-level splitting is safe). A trailing line without a terminating
// newline is flushed when the stream ends.
package ndjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

const readChunkSize = 4096

// Reader frames an io.Reader into trimmed, non-blank NDJSON lines.
type Reader struct {
	r     io.Reader
	buf   []byte // carry-over bytes after the last yielded newline
	chunk []byte // scratch read buffer
	err   error  // sticky error from the underlying reader
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r:     r,
		chunk: make([]byte, readChunkSize),
	}
}

// ReadLine returns the next non-blank line with surrounding whitespace
// trimmed. Blank lines are skipped, never returned. When the stream ends,
// any buffered remainder is returned as a final line; after that ReadLine
// returns the underlying reader's error (io.EOF on a clean close).
//
// The returned slice remains valid until the Reader is garbage collected:
// it aliases a region of the carry buffer that later reads never rewrite.
func (r *Reader) ReadLine() ([]byte, error) {
	for {
		if i := bytes.IndexByte(r.buf, '\n'); i >= 0 {
			line := bytes.TrimSpace(r.buf[:i])
			r.buf = r.buf[i+1:]
			if len(line) == 0 {
				continue
			}
			return line, nil
		}

		if r.err != nil {
			// Stream over: flush the unterminated remainder, if any.
			line := bytes.TrimSpace(r.buf)
			r.buf = nil
			if len(line) > 0 {
				return line, nil
			}
			return nil, r.err
		}

		n, err := r.r.Read(r.chunk)
		if n > 0 {
			r.buf = append(r.buf, r.chunk[:n]...)
		}
		if err != nil {
			r.err = err
		}
	}
}

// Writer emits NDJSON lines to an io.Writer.
type Writer struct {
	w io.Writer
}

// NewWriter creates a Writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteRaw writes one already-encoded line, appending the newline delimiter.
func (w *Writer) WriteRaw(line []byte) error {
	if _, err := w.w.Write(line); err != nil {
		return err
	}
	_, err := w.w.Write([]byte{'\n'})
	return err
}

// Write marshals v as JSON and writes it as one line.
func (w *Writer) Write(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("ndjson: marshal line: %w", err)
	}
	return w.WriteRaw(b)
}
