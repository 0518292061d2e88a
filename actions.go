package vone

import (
	"context"
	"fmt"
	"net/http"

	"github.com/HardM1nd/V-One-sub000/credstore"
	"github.com/HardM1nd/V-One-sub000/internal/wire"
)

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login exchanges the username/password for a credential pair, persists it,
// fetches the profile, and returns the established identity. On rejection the
// session state is left untouched.
func (c *Client) Login(ctx context.Context, username, password string) (SessionIdentity, error) {
	if c == nil || c.closed.Load() {
		return SessionIdentity{}, ErrClientClosed
	}

	resp, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   wire.PathTokenObtain,
		Body:   wire.TokenObtainRequest{Username: username, Password: password},
	})
	if err != nil {
		c.metrics.Inc(MetricLoginFailure)
		return SessionIdentity{}, err
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		c.metrics.Inc(MetricLoginFailure)
		c.emit(ctx, Event{EventType: EventLogin, Success: false, Error: wire.ParseDetail(resp.Body)})
		return SessionIdentity{}, rejectionError(resp)
	}
	if !resp.OK() {
		c.metrics.Inc(MetricLoginFailure)
		return SessionIdentity{}, apiErrorFrom(resp)
	}

	var pair wire.TokenPairResponse
	if err := resp.Decode(&pair); err != nil || pair.Access == "" || pair.Refresh == "" {
		c.metrics.Inc(MetricLoginFailure)
		return SessionIdentity{}, apiErrorFrom(resp)
	}
	return c.establishSession(ctx, credstore.Pair{AccessToken: pair.Access, RefreshToken: pair.Refresh}, EventLogin, MetricLoginSuccess, MetricLoginFailure)
}

// Signup describes the signup operation and its observable behavior.
//
// Signup may return an error when input validation, dependency calls, or security checks fail.
// A 400 answer is surfaced as a [*ValidationError] carrying the server's
// field-keyed messages. On success the returned pair establishes a session
// exactly like Login.
func (c *Client) Signup(ctx context.Context, params SignupParams) (SessionIdentity, error) {
	if c == nil || c.closed.Load() {
		return SessionIdentity{}, ErrClientClosed
	}

	resp, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   wire.PathRegister,
		Body: wire.RegisterRequest{
			Username: params.Username,
			Email:    params.Email,
			Password: params.Password,
		},
	})
	if err != nil {
		c.metrics.Inc(MetricSignupFailure)
		return SessionIdentity{}, err
	}
	if resp.StatusCode == http.StatusBadRequest {
		c.metrics.Inc(MetricSignupFailure)
		c.emit(ctx, Event{EventType: EventSignup, Success: false})
		if fields := wire.ParseFieldErrors(resp.Body); fields != nil {
			return SessionIdentity{}, &ValidationError{Fields: fields}
		}
		return SessionIdentity{}, rejectionError(resp)
	}
	if !resp.OK() {
		c.metrics.Inc(MetricSignupFailure)
		return SessionIdentity{}, apiErrorFrom(resp)
	}

	var pair wire.TokenPairResponse
	if err := resp.Decode(&pair); err != nil || pair.Access == "" || pair.Refresh == "" {
		c.metrics.Inc(MetricSignupFailure)
		return SessionIdentity{}, apiErrorFrom(resp)
	}
	return c.establishSession(ctx, credstore.Pair{AccessToken: pair.Access, RefreshToken: pair.Refresh}, EventSignup, MetricSignupSuccess, MetricSignupFailure)
}

// Logout describes the logout operation and its observable behavior.
//
// Logout always succeeds from the caller's perspective: the in-memory session
// and storage are cleared synchronously, and a storage failure is reported
// through the event sink rather than returned.
func (c *Client) Logout(ctx context.Context) {
	if c == nil {
		return
	}
	subject := c.state.subjectID()
	had, err := c.state.clear(ctx)
	if !had {
		return
	}
	c.metrics.Inc(MetricLogout)
	event := Event{EventType: EventLogout, SubjectID: subject, Success: true}
	if err != nil {
		event.Error = err.Error()
	}
	c.emit(ctx, event)
}

// UpdateProfile describes the updateprofile operation and its observable behavior.
//
// UpdateProfile may return an error when input validation, dependency calls, or security checks fail.
// The patch goes through the request pipeline; on success the cached profile
// snapshot is refreshed from the server's answer.
func (c *Client) UpdateProfile(ctx context.Context, patch ProfilePatch) (ProfileSnapshot, error) {
	if c == nil || c.closed.Load() {
		return ProfileSnapshot{}, ErrClientClosed
	}
	if !c.state.identity().IsAuthenticated {
		return ProfileSnapshot{}, ErrNotAuthenticated
	}

	resp, err := c.Do(ctx, Request{
		Method: http.MethodPatch,
		Path:   wire.PathProfile,
		Body:   patch,
	})
	if err != nil {
		return ProfileSnapshot{}, err
	}
	if resp.StatusCode == http.StatusBadRequest {
		if fields := wire.ParseFieldErrors(resp.Body); fields != nil {
			return ProfileSnapshot{}, &ValidationError{Fields: fields}
		}
		return ProfileSnapshot{}, apiErrorFrom(resp)
	}
	if !resp.OK() {
		return ProfileSnapshot{}, apiErrorFrom(resp)
	}

	var payload wire.ProfilePayload
	if err := resp.Decode(&payload); err != nil {
		return ProfileSnapshot{}, apiErrorFrom(resp)
	}
	snap := profileFromWire(payload)
	c.state.finishProfileFetch(&snap)
	return snap, nil
}

// establishSession persists the pair, fetches the profile, and reports the
// resulting identity. Shared by Login and Signup.
func (c *Client) establishSession(ctx context.Context, pair credstore.Pair, eventType string, success, failure MetricID) (SessionIdentity, error) {
	claims, err := c.state.setCredentials(ctx, pair)
	if err != nil {
		c.metrics.Inc(failure)
		return SessionIdentity{}, fmt.Errorf("establish session: %w", err)
	}
	c.fetchProfile(ctx)
	c.metrics.Inc(success)
	c.emit(ctx, Event{EventType: eventType, SubjectID: claims.SubjectID, Success: true})
	return c.state.identity(), nil
}

func rejectionError(resp *Response) error {
	detail := wire.ParseDetail(resp.Body)
	if detail == "" {
		return ErrAuthRejected
	}
	return fmt.Errorf("%w: %s", ErrAuthRejected, detail)
}

func apiErrorFrom(resp *Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrSessionExpired
	}
	return &APIError{
		StatusCode: resp.StatusCode,
		Detail:     wire.ParseDetail(resp.Body),
		Body:       resp.Body,
	}
}
