package vone

import (
	"context"
	"net/http"

	"github.com/HardM1nd/V-One-sub000/internal/wire"
)

// Routes describes the routes operation and its observable behavior.
//
// Routes may return an error when input validation, dependency calls, or security checks fail.
func (c *Client) Routes(ctx context.Context) ([]Route, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: wire.PathRoutes})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, apiErrorFrom(resp)
	}
	var routes []Route
	if err := resp.Decode(&routes); err != nil {
		return nil, apiErrorFrom(resp)
	}
	return routes, nil
}

// CreateRoute describes the createroute operation and its observable behavior.
//
// CreateRoute may return an error when input validation, dependency calls, or security checks fail.
func (c *Client) CreateRoute(ctx context.Context, draft RouteDraft) (Route, error) {
	resp, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   wire.PathRoutes,
		Body:   draft,
	})
	if err != nil {
		return Route{}, err
	}
	if resp.StatusCode == http.StatusBadRequest {
		if fields := wire.ParseFieldErrors(resp.Body); fields != nil {
			return Route{}, &ValidationError{Fields: fields}
		}
		return Route{}, apiErrorFrom(resp)
	}
	if !resp.OK() {
		return Route{}, apiErrorFrom(resp)
	}
	var route Route
	if err := resp.Decode(&route); err != nil {
		return Route{}, apiErrorFrom(resp)
	}
	return route, nil
}

// DeleteRoute describes the deleteroute operation and its observable behavior.
func (c *Client) DeleteRoute(ctx context.Context, routeID string) error {
	resp, err := c.Do(ctx, Request{Method: http.MethodDelete, Path: wire.RoutePath(routeID)})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return apiErrorFrom(resp)
	}
	return nil
}
