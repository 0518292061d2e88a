package vone

import (
	"time"

	"github.com/HardM1nd/V-One-sub000/credstore"
)

// CredentialPair is the access/refresh token pair held by the session. It is
// replaced wholesale on refresh and destroyed on logout or irrecoverable
// refresh failure.
type CredentialPair = credstore.Pair

// SessionPhase represents the lifecycle state of the client session.
//
//	Anonymous      — no credential pair.
//	Authenticating — credential pair present, profile fetch in flight.
//	Authenticated  — credential pair present, profile loaded or load failed
//	                 gracefully.
type SessionPhase uint8

const (
	// PhaseAnonymous is an exported constant or variable used by the V-One client.
	PhaseAnonymous SessionPhase = iota
	// PhaseAuthenticating is an exported constant or variable used by the V-One client.
	PhaseAuthenticating
	// PhaseAuthenticated is an exported constant or variable used by the V-One client.
	PhaseAuthenticated
)

// String describes the string operation and its observable behavior.
func (p SessionPhase) String() string {
	switch p {
	case PhaseAnonymous:
		return "anonymous"
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// SessionIdentity is the externally visible identity derived from the decoded
// access token. IsAuthenticated holds exactly when a credential pair is
// present, decoded successfully, and not expired.
type SessionIdentity struct {
	IsAuthenticated bool
	SubjectID       string
	IsStaff         bool
}

// ProfileSnapshot is the cached server-fetched profile of the current user.
// It is a cached read, not an authority: losing it never tears the session
// down.
type ProfileSnapshot struct {
	Username  string
	AvatarURL string
	Bio       string
	Followers int
	Following int
	Posts     int
	FetchedAt time.Time
}

// SignupParams carries the registration fields.
type SignupParams struct {
	Username string
	Email    string
	Password string
}

// ProfilePatch is a partial profile update. Nil fields are left untouched.
type ProfilePatch struct {
	Username  *string `json:"username,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Post is a feed entry.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Likes     int       `json:"likes_count"`
	Liked     bool      `json:"liked"`
	Saved     bool      `json:"saved"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedOptions narrows a feed query. Zero values mean server defaults.
type FeedOptions struct {
	Limit  int
	Cursor string
}

// Waypoint is one ordered point of a published flight route.
type Waypoint struct {
	Name       string  `json:"name"`
	Latitude   float64 `json:"lat"`
	Longitude  float64 `json:"lon"`
	AltitudeFt int     `json:"altitude_ft"`
}

// Route is a published flight route.
type Route struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Waypoints []Waypoint `json:"waypoints"`
	CreatedAt time.Time  `json:"created_at"`
}

// RouteDraft is the payload for publishing a new route.
type RouteDraft struct {
	Title     string     `json:"title"`
	Waypoints []Waypoint `json:"waypoints"`
}

// Notification is a single notification entry.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	ActorID   string    `json:"actor_id"`
	Text      string    `json:"text"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
