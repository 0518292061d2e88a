package vone

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/HardM1nd/V-One-sub000/credstore"
	"github.com/HardM1nd/V-One-sub000/internal/wire"
)

const (
	testUsername = "alice"
	testPassword = "secret"
	testUserID   = 7
)

func mintAccess(t testing.TB, subject float64, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"user_id": subject, "is_staff": false}
	if !exp.IsZero() {
		claims["exp"] = exp.Unix()
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	return tok
}

// fakeAPI models the server's token lifecycle: exactly one access token is
// valid at a time, and a successful refresh rotates it.
type fakeAPI struct {
	t      testing.TB
	server *httptest.Server

	mu            sync.Mutex
	currentAccess string
	refreshValue  string
	rejectRefresh bool
	refreshSleep  time.Duration

	refreshGate    chan struct{} // when non-nil, refresh blocks until closed
	refreshCalls   atomic.Int64
	refreshEntered atomic.Int64
	staleHits      atomic.Int64
	profileHits    atomic.Int64
	tokenSeq       atomic.Int64
}

func newFakeAPI(t testing.TB) *fakeAPI {
	t.Helper()
	f := &fakeAPI{t: t, refreshValue: "refresh-token-1"}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) URL() string { return f.server.URL }

func (f *fakeAPI) issueAccess() string {
	f.tokenSeq.Add(1)
	tok := mintAccess(f.t, testUserID, time.Now().Add(time.Hour))
	f.mu.Lock()
	f.currentAccess = tok
	f.mu.Unlock()
	return tok
}

// invalidateAccess simulates server-side expiry: the token the client holds
// stops being accepted, without the client knowing yet.
func (f *fakeAPI) invalidateAccess() {
	f.mu.Lock()
	f.currentAccess = ""
	f.mu.Unlock()
}

func (f *fakeAPI) authorized(r *http.Request) bool {
	f.mu.Lock()
	current := f.currentAccess
	f.mu.Unlock()
	bearer := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	return current != "" && bearer == current
}

func (f *fakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost && r.URL.Path == wire.PathTokenObtain:
		f.handleObtain(w, r)
	case r.Method == http.MethodPost && r.URL.Path == wire.PathTokenRefresh:
		f.handleRefresh(w, r)
	case r.Method == http.MethodPost && r.URL.Path == wire.PathRegister:
		f.handleRegister(w, r)
	case r.URL.Path == wire.PathProfile:
		f.handleProfile(w, r)
	case r.URL.Path == wire.PathPosts:
		f.handlePosts(w, r)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "not found"})
	}
}

func (f *fakeAPI) handleObtain(w http.ResponseWriter, r *http.Request) {
	var req wire.TokenObtainRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Username != testUsername || req.Password != testPassword {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "No active account found with the given credentials",
		})
		return
	}
	writeJSON(w, http.StatusOK, wire.TokenPairResponse{
		Access:  f.issueAccess(),
		Refresh: f.refreshValue,
	})
}

func (f *fakeAPI) handleRefresh(w http.ResponseWriter, r *http.Request) {
	f.refreshEntered.Add(1)
	if f.refreshGate != nil {
		<-f.refreshGate
	}
	if f.refreshSleep > 0 {
		time.Sleep(f.refreshSleep)
	}
	f.refreshCalls.Add(1)

	f.mu.Lock()
	reject := f.rejectRefresh
	expected := f.refreshValue
	f.mu.Unlock()

	var req wire.TokenRefreshRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if reject || req.Refresh != expected {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"detail": "Token is invalid or expired",
		})
		return
	}
	writeJSON(w, http.StatusOK, wire.TokenRefreshResponse{Access: f.issueAccess()})
}

func (f *fakeAPI) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req wire.RegisterRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.Username == "taken" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"username": {"A user with that username already exists."},
		})
		return
	}
	if req.Password == "short" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"password": {"This password is too short.", "This password is too common."},
		})
		return
	}
	writeJSON(w, http.StatusCreated, wire.TokenPairResponse{
		Access:  f.issueAccess(),
		Refresh: f.refreshValue,
	})
}

func (f *fakeAPI) handleProfile(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		f.staleHits.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token not valid"})
		return
	}
	f.profileHits.Add(1)
	if r.Method == http.MethodPatch {
		var patch ProfilePatch
		_ = json.NewDecoder(r.Body).Decode(&patch)
		payload := wire.ProfilePayload{Username: testUsername, Followers: 3, Following: 5, Posts: 12}
		if patch.Bio != nil {
			payload.Bio = *patch.Bio
		}
		if patch.AvatarURL != nil {
			payload.AvatarURL = *patch.AvatarURL
		}
		writeJSON(w, http.StatusOK, payload)
		return
	}
	writeJSON(w, http.StatusOK, wire.ProfilePayload{
		Username:  testUsername,
		Bio:       "taildragger pilot",
		Followers: 3,
		Following: 5,
		Posts:     12,
	})
}

func (f *fakeAPI) handlePosts(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(r) {
		f.staleHits.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "token not valid"})
		return
	}
	writeJSON(w, http.StatusOK, []Post{{ID: "p1", Author: "bob", Text: "short field day"}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// newTestClient builds a client against the fake API with an in-memory store
// and metrics enabled.
func newTestClient(t testing.TB, f *fakeAPI, opts ...func(*Builder)) *Client {
	t.Helper()
	b := New().
		WithBaseURL(f.URL()).
		WithStore(credstore.NewMemoryStore()).
		WithMetricsEnabled(true)
	for _, opt := range opts {
		opt(b)
	}
	client, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}
