// Package sse implements Server-Sent Events streams. The dashboard uses it
// to push live stat updates to the admin panel.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Stream is one open SSE connection. It is bound to the request context,
// so a disconnecting client marks the stream closed on the next write.
type Stream struct {
	w       http.ResponseWriter
	ctx     context.Context
	flusher http.Flusher
	gone    bool
}

// New sets the SSE headers and wraps the connection in a Stream.
// Returns nil when the ResponseWriter cannot flush.
func New(w http.ResponseWriter, r *http.Request) *Stream {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return nil
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // disable nginx buffering

	return &Stream{w: w, ctx: r.Context(), flusher: flusher}
}

// Send writes a named event carrying a JSON payload.
func (s *Stream) Send(event string, data interface{}) error {
	if s.IsClosed() {
		return nil
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("sse: marshal: %w", err)
	}
	s.writeFrame("event: %s\ndata: %s\n\n", event, payload)
	return nil
}

// Comment writes an SSE comment line, used as a keepalive heartbeat.
func (s *Stream) Comment(msg string) {
	if s.IsClosed() {
		return
	}
	s.writeFrame(": %s\n\n", msg)
}

// IsClosed reports whether the client has gone away.
func (s *Stream) IsClosed() bool {
	if s == nil {
		return true
	}
	if !s.gone && s.ctx.Err() != nil {
		s.gone = true
	}
	return s.gone
}

func (s *Stream) writeFrame(format string, args ...interface{}) {
	fmt.Fprintf(s.w, format, args...)
	s.flusher.Flush()
}
