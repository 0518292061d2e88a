package vone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/HardM1nd/V-One-sub000/internal/wire"
)

// Request is the only shape API consumers supply. Consumers never construct
// the Authorization header themselves.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response is the observed server answer. Success and non-401 failures pass
// through the pipeline untouched; interpreting business errors is the
// caller's job.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode describes the decode operation and its observable behavior.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Do describes the do operation and its observable behavior.
//
// Do attaches the current access token as a bearer credential, sends the
// request, and on a 401 from a non-auth endpoint performs exactly one refresh
// and one replay. A replay that still answers 401 is returned to the caller
// as a normal failure. Auth endpoints (token obtain, refresh, register) never
// trigger a refresh.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if c == nil {
		return nil, ErrClientClosed
	}
	if c.closed.Load() {
		return nil, ErrClientClosed
	}

	resp, err := c.send(ctx, req, c.state.accessToken())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || wire.IsAuthPath(req.Path) {
		return resp, nil
	}

	c.metrics.Inc(MetricUnauthorized)
	access, err := c.refresher.Refresh(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		// Refresh failed terminally; teardown already happened inside the
		// coordinator. The original 401 is propagated unchanged.
		return resp, nil
	}

	c.metrics.Inc(MetricRequestRetried)
	c.emit(ctx, Event{EventType: EventRequestRetried, Success: true, Metadata: map[string]string{"path": req.Path}})
	return c.send(ctx, req, access)
}

// send performs one HTTP round trip with the given access token attached (or
// none, when empty). It bypasses all refresh logic: the refresh exchange
// itself goes through here, never through Do.
func (c *Client) send(ctx context.Context, req Request, accessToken string) (*Response, error) {
	target := strings.TrimSuffix(c.config.API.BaseURL, "/") + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.config.API.UserAgent)
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+accessToken)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}, nil
}

// exchangeRefresh is the raw refresh network call used by the coordinator.
// No bearer credential is attached; the refresh token in the body is the
// credential.
func (c *Client) exchangeRefresh(ctx context.Context, refreshToken string) (string, error) {
	resp, err := c.send(ctx, Request{
		Method: http.MethodPost,
		Path:   wire.PathTokenRefresh,
		Body:   wire.TokenRefreshRequest{Refresh: refreshToken},
	}, "")
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		detail := wire.ParseDetail(resp.Body)
		if detail == "" {
			detail = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("%w: %s", ErrAuthRejected, detail)
	}
	var payload wire.TokenRefreshResponse
	if err := resp.Decode(&payload); err != nil || payload.Access == "" {
		return "", fmt.Errorf("%w: unusable refresh response", ErrAuthRejected)
	}
	return payload.Access, nil
}
