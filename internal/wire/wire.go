// Package wire defines the HTTP surface of the V-One API as the client sees
// it: endpoint paths, request/response payload shapes, and error payload
// parsing. It carries no behavior beyond JSON plumbing.
package wire

import (
	"encoding/json"
	"net/url"
	"strings"
)

// Endpoint paths. Trailing slashes are part of the API contract.
const (
	PathTokenObtain   = "/api/token/"
	PathTokenRefresh  = "/api/token/refresh/"
	PathRegister      = "/api/users/register/"
	PathProfile       = "/api/users/me/"
	PathPosts         = "/api/posts/"
	PathRoutes        = "/api/routes/"
	PathNotifications = "/api/notifications/"
)

// IsAuthPath reports whether path is one of the credential endpoints. These
// must never trigger a refresh attempt when they answer 401.
func IsAuthPath(path string) bool {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	switch path {
	case PathTokenObtain, PathTokenRefresh, PathRegister:
		return true
	}
	return false
}

// PostLikePath returns the like toggle endpoint for a post.
func PostLikePath(postID string) string {
	return PathPosts + url.PathEscape(postID) + "/like/"
}

// PostSavePath returns the save toggle endpoint for a post.
func PostSavePath(postID string) string {
	return PathPosts + url.PathEscape(postID) + "/save/"
}

// UserFollowPath returns the follow toggle endpoint for a user.
func UserFollowPath(userID string) string {
	return "/api/users/" + url.PathEscape(userID) + "/follow/"
}

// RoutePath returns the endpoint for a single route.
func RoutePath(routeID string) string {
	return PathRoutes + url.PathEscape(routeID) + "/"
}

// TokenObtainRequest is the login payload.
type TokenObtainRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPairResponse is returned by login and signup.
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenRefreshRequest is the refresh payload.
type TokenRefreshRequest struct {
	Refresh string `json:"refresh"`
}

// TokenRefreshResponse carries only a new access token; the refresh token is
// not rotated by the server.
type TokenRefreshResponse struct {
	Access string `json:"access"`
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfilePayload is the server representation of the current user's profile.
type ProfilePayload struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
	Followers int    `json:"followers_count"`
	Following int    `json:"following_count"`
	Posts     int    `json:"posts_count"`
}

// ParseFieldErrors decodes a field-keyed validation error body. The server
// answers 400 with {"field": ["message", ...]}; single-string values are
// tolerated and wrapped into a one-element slice. Returns nil when the body
// is not field-keyed.
func ParseFieldErrors(body []byte) map[string][]string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		return nil
	}
	fields := make(map[string][]string, len(raw))
	for key, value := range raw {
		var list []string
		if err := json.Unmarshal(value, &list); err == nil {
			fields[key] = list
			continue
		}
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			fields[key] = []string{single}
			continue
		}
		return nil
	}
	return fields
}

// ParseDetail extracts the "detail" message the server attaches to opaque
// failures. Returns "" when absent.
func ParseDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Detail
}
