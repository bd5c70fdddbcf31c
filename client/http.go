package client

import (
	"context"
	"fmt"
	"net/http"
)

// Stream issues req with hc and drives the response through a new Session,
// which is returned for transcript access even when the run failed partway.
func Stream(ctx context.Context, hc *http.Client, req *http.Request, opts ...SessionOption) (*Session, error) {
	s := NewSession(opts...)
	return s, s.Do(hc, req.WithContext(ctx))
}

// Do issues req with hc and drives the chunked response body through the
// session. Transport policy — endpoint, auth, retries, the out-of-band
// cancel call — stays with the caller; cancelling the request context
// closes the body mid-read, which Run treats as a normal end of input.
func (s *Session) Do(hc *http.Client, req *http.Request) error {
	if hc == nil {
		hc = http.DefaultClient
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("stream request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return fmt.Errorf("stream request failed: %s", resp.Status)
	}

	return s.Run(req.Context(), resp.Body)
}
