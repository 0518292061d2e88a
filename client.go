package vone

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/HardM1nd/V-One-sub000/internal/wire"
)

// Client defines a public type used by the V-One client APIs.
//
// Client instances are intended to be configured during initialization through
// [Builder.Build] and then treated as immutable unless documented otherwise.
type Client struct {
	config     Config
	httpClient *http.Client
	state      *sessionState
	refresher  *refreshCoordinator
	metrics    *Metrics
	events     *eventDispatcher
	onExpired  func()
	clientID   string
	closed     atomic.Bool
}

// Close describes the close operation and its observable behavior.
//
// Close drains and stops the event dispatcher. The client rejects further
// requests after Close.
func (c *Client) Close() {
	if c == nil {
		return
	}
	c.closed.Store(true)
	if c.events != nil {
		c.events.Close()
	}
}

// Identity describes the identity operation and its observable behavior.
//
// Identity does not mutate shared global state and can be used concurrently.
func (c *Client) Identity() SessionIdentity {
	if c == nil {
		return SessionIdentity{}
	}
	return c.state.identity()
}

// Phase describes the phase operation and its observable behavior.
func (c *Client) Phase() SessionPhase {
	if c == nil {
		return PhaseAnonymous
	}
	return c.state.currentPhase()
}

// Profile returns the cached profile snapshot, if one was fetched.
func (c *Client) Profile() (ProfileSnapshot, bool) {
	if c == nil {
		return ProfileSnapshot{}, false
	}
	return c.state.profileSnapshot()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return c.metrics.Snapshot()
}

// EventsDropped describes the eventsdropped operation and its observable behavior.
func (c *Client) EventsDropped() uint64 {
	if c == nil || c.events == nil {
		return 0
	}
	return c.events.Dropped()
}

// Start completes startup for a session restored from storage: it fetches the
// profile and moves the session from authenticating to authenticated. A
// profile fetch failure is graceful and still completes the transition. Start
// is a no-op for an anonymous session.
func (c *Client) Start(ctx context.Context) error {
	if c == nil || c.closed.Load() {
		return ErrClientClosed
	}
	if c.state.currentPhase() != PhaseAuthenticating {
		return nil
	}
	c.fetchProfile(ctx)
	return nil
}

// fetchProfile loads the current user's profile through the pipeline and
// completes the authenticating phase either way.
func (c *Client) fetchProfile(ctx context.Context) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: wire.PathProfile})
	if err != nil || !resp.OK() {
		c.state.finishProfileFetch(nil)
		return
	}
	var payload wire.ProfilePayload
	if err := resp.Decode(&payload); err != nil {
		c.state.finishProfileFetch(nil)
		return
	}
	snap := profileFromWire(payload)
	c.state.finishProfileFetch(&snap)
}

// teardownSession clears the session after an irrecoverable auth failure and
// fires the session-expired handler at most once per established session.
// Explicit logout does not come through here.
func (c *Client) teardownSession(ctx context.Context, cause error) {
	had, _ := c.state.clear(ctx)
	if !had {
		return
	}
	c.metrics.Inc(MetricSessionExpired)
	event := Event{EventType: EventSessionExpired, Success: false}
	if cause != nil {
		event.Error = cause.Error()
	}
	c.emit(ctx, event)
	if c.onExpired != nil {
		c.onExpired()
	}
}

// emit stamps and dispatches an event. Safe to call with events disabled.
func (c *Client) emit(ctx context.Context, event Event) {
	if c.events == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.ClientID = c.clientID
	if event.SubjectID == "" {
		event.SubjectID = c.state.subjectID()
	}
	c.events.Emit(ctx, event)
}

func profileFromWire(payload wire.ProfilePayload) ProfileSnapshot {
	return ProfileSnapshot{
		Username:  payload.Username,
		AvatarURL: payload.AvatarURL,
		Bio:       payload.Bio,
		Followers: payload.Followers,
		Following: payload.Following,
		Posts:     payload.Posts,
		FetchedAt: time.Now().UTC(),
	}
}
