package vone

import (
	"context"
	"sync"
	"time"

	"github.com/HardM1nd/V-One-sub000/credstore"
	"github.com/HardM1nd/V-One-sub000/token"
)

// sessionState is the single authority over "am I logged in, as whom, with
// what credentials". Every credential mutation funnels through setCredentials
// and clear; no other component touches the store or the pair directly.
type sessionState struct {
	store  credstore.Store
	leeway time.Duration
	now    func() time.Time

	mu      sync.RWMutex
	pair    *credstore.Pair
	claims  token.Claims
	phase   SessionPhase
	profile *ProfileSnapshot
}

func newSessionState(store credstore.Store, leeway time.Duration) *sessionState {
	return &sessionState{
		store:  store,
		leeway: leeway,
		now:    time.Now,
	}
}

// restore loads persisted credentials at startup. Malformed or expired pairs
// are discarded (storage included) and the session stays anonymous. No
// network is involved.
func (s *sessionState) restore(ctx context.Context) (bool, error) {
	pair, err := s.store.Load(ctx)
	if err != nil {
		return false, err
	}
	if pair == nil {
		return false, nil
	}
	claims, err := token.Decode(pair.AccessToken)
	if err != nil || claims.Expired(s.now().Add(s.leeway)) {
		_ = s.store.Clear(ctx)
		return false, nil
	}

	s.mu.Lock()
	s.pair = pair
	s.claims = claims
	s.phase = PhaseAuthenticating
	s.mu.Unlock()
	return true, nil
}

// setCredentials decodes, persists, and publishes a new pair. On a fresh
// session the phase moves to authenticating; a refresh of an established
// session keeps its phase and profile.
func (s *sessionState) setCredentials(ctx context.Context, pair credstore.Pair) (token.Claims, error) {
	claims, err := token.Decode(pair.AccessToken)
	if err != nil {
		return token.Claims{}, err
	}
	if err := s.store.Save(ctx, pair); err != nil {
		return token.Claims{}, err
	}

	s.mu.Lock()
	p := pair
	s.pair = &p
	s.claims = claims
	if s.phase == PhaseAnonymous {
		s.phase = PhaseAuthenticating
	}
	s.mu.Unlock()
	return claims, nil
}

// clear is the reverse of setCredentials: synchronous, no side effects beyond
// clearing memory and storage. Returns whether a session existed, and any
// storage error (callers decide whether it matters).
func (s *sessionState) clear(ctx context.Context) (bool, error) {
	s.mu.Lock()
	had := s.pair != nil
	s.pair = nil
	s.claims = token.Claims{}
	s.profile = nil
	s.phase = PhaseAnonymous
	s.mu.Unlock()

	err := s.store.Clear(ctx)
	return had, err
}

// finishProfileFetch completes the authenticating phase. A nil snapshot means
// the fetch failed; the session still becomes authenticated because the
// credential itself may be perfectly valid.
func (s *sessionState) finishProfileFetch(snap *ProfileSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pair == nil {
		return
	}
	s.profile = snap
	s.phase = PhaseAuthenticated
}

func (s *sessionState) accessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pair == nil {
		return ""
	}
	return s.pair.AccessToken
}

func (s *sessionState) refreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pair == nil {
		return ""
	}
	return s.pair.RefreshToken
}

func (s *sessionState) identity() SessionIdentity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pair == nil || s.claims.Expired(s.now()) {
		return SessionIdentity{}
	}
	return SessionIdentity{
		IsAuthenticated: true,
		SubjectID:       s.claims.SubjectID,
		IsStaff:         s.claims.IsStaff,
	}
}

func (s *sessionState) subjectID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims.SubjectID
}

func (s *sessionState) currentPhase() SessionPhase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

func (s *sessionState) profileSnapshot() (ProfileSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return ProfileSnapshot{}, false
	}
	return *s.profile, true
}
