package vone

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

// Event types emitted over the session lifecycle.
const (
	// EventLogin is an exported constant or variable used by the V-One client.
	EventLogin = "login"
	// EventSignup is an exported constant or variable used by the V-One client.
	EventSignup = "signup"
	// EventLogout is an exported constant or variable used by the V-One client.
	EventLogout = "logout"
	// EventRefresh is an exported constant or variable used by the V-One client.
	EventRefresh = "refresh"
	// EventSessionRestored is emitted when a persisted session is rebuilt at startup.
	EventSessionRestored = "session_restored"
	// EventSessionExpired is emitted once per irrecoverable teardown.
	EventSessionExpired = "session_expired"
	// EventRequestRetried is emitted when a request is replayed after refresh.
	EventRequestRetried = "request_retried"
)

// Event is a single session lifecycle occurrence.
type Event struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	SubjectID string            `json:"subject_id,omitempty"`
	ClientID  string            `json:"client_id,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// EventSink receives session events. Emit must not block longer than the
// provided context allows.
type EventSink interface {
	Emit(ctx context.Context, event Event)
}

// NoOpSink discards all events.
type NoOpSink struct{}

// Emit describes the emit operation and its observable behavior.
func (NoOpSink) Emit(context.Context, Event) {}

// ChannelSink forwards events to a buffered channel for consumption by the
// embedding application.
type ChannelSink struct {
	events chan Event
}

// NewChannelSink describes the newchannelsink operation and its observable behavior.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan Event, buffer),
	}
}

// Emit describes the emit operation and its observable behavior.
func (s *ChannelSink) Emit(ctx context.Context, event Event) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events describes the events operation and its observable behavior.
func (s *ChannelSink) Events() <-chan Event {
	return s.events
}

// JSONWriterSink writes one JSON line per event.
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink describes the newjsonwritersink operation and its observable behavior.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

// Emit describes the emit operation and its observable behavior.
func (s *JSONWriterSink) Emit(_ context.Context, event Event) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
