package vone

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/HardM1nd/V-One-sub000/internal/wire"
)

// Feed describes the feed operation and its observable behavior.
//
// Feed may return an error when input validation, dependency calls, or security checks fail.
func (c *Client) Feed(ctx context.Context, opts FeedOptions) ([]Post, error) {
	query := url.Values{}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}

	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: wire.PathPosts, Query: query})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, apiErrorFrom(resp)
	}
	var posts []Post
	if err := resp.Decode(&posts); err != nil {
		return nil, apiErrorFrom(resp)
	}
	return posts, nil
}

// CreatePost describes the createpost operation and its observable behavior.
//
// CreatePost may return an error when input validation, dependency calls, or security checks fail.
func (c *Client) CreatePost(ctx context.Context, text string) (Post, error) {
	resp, err := c.Do(ctx, Request{
		Method: http.MethodPost,
		Path:   wire.PathPosts,
		Body:   map[string]string{"text": text},
	})
	if err != nil {
		return Post{}, err
	}
	if !resp.OK() {
		return Post{}, apiErrorFrom(resp)
	}
	var post Post
	if err := resp.Decode(&post); err != nil {
		return Post{}, apiErrorFrom(resp)
	}
	return post, nil
}

// LikePost describes the likepost operation and its observable behavior.
func (c *Client) LikePost(ctx context.Context, postID string) error {
	return c.toggle(ctx, http.MethodPost, wire.PostLikePath(postID))
}

// UnlikePost describes the unlikepost operation and its observable behavior.
func (c *Client) UnlikePost(ctx context.Context, postID string) error {
	return c.toggle(ctx, http.MethodDelete, wire.PostLikePath(postID))
}

// SavePost describes the savepost operation and its observable behavior.
func (c *Client) SavePost(ctx context.Context, postID string) error {
	return c.toggle(ctx, http.MethodPost, wire.PostSavePath(postID))
}

// UnsavePost describes the unsavepost operation and its observable behavior.
func (c *Client) UnsavePost(ctx context.Context, postID string) error {
	return c.toggle(ctx, http.MethodDelete, wire.PostSavePath(postID))
}

// FollowUser describes the followuser operation and its observable behavior.
func (c *Client) FollowUser(ctx context.Context, userID string) error {
	return c.toggle(ctx, http.MethodPost, wire.UserFollowPath(userID))
}

// UnfollowUser describes the unfollowuser operation and its observable behavior.
func (c *Client) UnfollowUser(ctx context.Context, userID string) error {
	return c.toggle(ctx, http.MethodDelete, wire.UserFollowPath(userID))
}

// Notifications describes the notifications operation and its observable behavior.
//
// Notifications may return an error when input validation, dependency calls, or security checks fail.
func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	resp, err := c.Do(ctx, Request{Method: http.MethodGet, Path: wire.PathNotifications})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, apiErrorFrom(resp)
	}
	var items []Notification
	if err := resp.Decode(&items); err != nil {
		return nil, apiErrorFrom(resp)
	}
	return items, nil
}

// toggle issues a body-less state-change request and interprets any 2xx as
// success.
func (c *Client) toggle(ctx context.Context, method, path string) error {
	resp, err := c.Do(ctx, Request{Method: method, Path: path})
	if err != nil {
		return err
	}
	if !resp.OK() {
		return apiErrorFrom(resp)
	}
	return nil
}
