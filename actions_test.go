package vone

import (
	"context"
	"errors"
	"testing"

	"github.com/HardM1nd/V-One-sub000/credstore"
)

func TestLoginEstablishesSession(t *testing.T) {
	f := newFakeAPI(t)
	client := newTestClient(t, f)
	ctx := context.Background()

	identity, err := client.Login(ctx, testUsername, testPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !identity.IsAuthenticated {
		t.Fatal("identity not authenticated after login")
	}
	if identity.SubjectID != "7" {
		t.Errorf("SubjectID = %q, want %q", identity.SubjectID, "7")
	}
	if got := client.Phase(); got != PhaseAuthenticated {
		t.Errorf("Phase = %v, want authenticated", got)
	}

	profile, ok := client.Profile()
	if !ok {
		t.Fatal("no profile snapshot after login")
	}
	if profile.Username != testUsername {
		t.Errorf("profile username = %q, want %q", profile.Username, testUsername)
	}
	if got := client.MetricsSnapshot().Counters[MetricLoginSuccess]; got != 1 {
		t.Errorf("login success counter = %d, want 1", got)
	}
}

func TestLoginRejectedLeavesSessionUntouched(t *testing.T) {
	f := newFakeAPI(t)
	client := newTestClient(t, f)
	ctx := context.Background()

	_, err := client.Login(ctx, testUsername, "wrong-password")
	if !errors.Is(err, ErrAuthRejected) {
		t.Fatalf("Login error = %v, want ErrAuthRejected", err)
	}
	if client.Identity().IsAuthenticated {
		t.Error("identity authenticated after rejected login")
	}
	if got := client.Phase(); got != PhaseAnonymous {
		t.Errorf("Phase = %v, want anonymous", got)
	}
	if got := client.MetricsSnapshot().Counters[MetricLoginFailure]; got != 1 {
		t.Errorf("login failure counter = %d, want 1", got)
	}
}

func TestLoginPersistsCredentials(t *testing.T) {
	f := newFakeAPI(t)
	store := credstore.NewMemoryStore()
	client := newTestClient(t, f, func(b *Builder) { b.WithStore(store) })
	ctx := context.Background()

	if _, err := client.Login(ctx, testUsername, testPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}
	pair, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if pair == nil || !pair.Valid() {
		t.Fatal("no valid pair persisted after login")
	}
}

func TestSignupValidationError(t *testing.T) {
	f := newFakeAPI(t)
	client := newTestClient(t, f)

	_, err := client.Signup(context.Background(), SignupParams{
		Username: "taken",
		Email:    "taken@example.com",
		Password: "hunter22",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Signup error = %v, want *ValidationError", err)
	}
	if len(verr.Fields["username"]) != 1 {
		t.Errorf("username field errors = %v, want one message", verr.Fields["username"])
	}
	if client.Identity().IsAuthenticated {
		t.Error("identity authenticated after rejected signup")
	}
}

func TestSignupEstablishesSession(t *testing.T) {
	f := newFakeAPI(t)
	client := newTestClient(t, f)

	identity, err := client.Signup(context.Background(), SignupParams{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if !identity.IsAuthenticated || identity.SubjectID != "7" {
		t.Errorf("identity = %+v, want authenticated subject 7", identity)
	}
	if got := client.Phase(); got != PhaseAuthenticated {
		t.Errorf("Phase = %v, want authenticated", got)
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	f := newFakeAPI(t)
	store := credstore.NewMemoryStore()
	expired := 0
	client := newTestClient(t, f, func(b *Builder) {
		b.WithStore(store)
		b.WithSessionExpiredHandler(func() { expired++ })
	})
	ctx := context.Background()

	if _, err := client.Login(ctx, testUsername, testPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}
	client.Logout(ctx)

	if client.Identity().IsAuthenticated {
		t.Error("identity authenticated after logout")
	}
	if got := client.Phase(); got != PhaseAnonymous {
		t.Errorf("Phase = %v, want anonymous", got)
	}
	if _, ok := client.Profile(); ok {
		t.Error("profile snapshot survived logout")
	}
	pair, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if pair != nil {
		t.Error("credentials survived logout")
	}
	// Logout is voluntary; the expiry handler must not fire.
	if expired != 0 {
		t.Errorf("session expired handler fired %d times on logout", expired)
	}

	// A second logout is a no-op.
	client.Logout(ctx)
	if got := client.MetricsSnapshot().Counters[MetricLogout]; got != 1 {
		t.Errorf("logout counter = %d, want 1", got)
	}
}

type failingClearStore struct {
	credstore.Store
	clearErr error
}

func (s *failingClearStore) Clear(context.Context) error { return s.clearErr }

func TestLogoutSucceedsDespiteStorageFailure(t *testing.T) {
	f := newFakeAPI(t)
	store := &failingClearStore{
		Store:    credstore.NewMemoryStore(),
		clearErr: errors.New("disk on fire"),
	}
	client := newTestClient(t, f, func(b *Builder) { b.WithStore(store) })
	ctx := context.Background()

	if _, err := client.Login(ctx, testUsername, testPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}
	client.Logout(ctx)

	if client.Identity().IsAuthenticated {
		t.Error("in-memory session survived logout with failing storage")
	}
}

func TestUpdateProfile(t *testing.T) {
	f := newFakeAPI(t)
	client := newTestClient(t, f)
	ctx := context.Background()

	if _, err := client.Login(ctx, testUsername, testPassword); err != nil {
		t.Fatalf("Login: %v", err)
	}

	bio := "night rated"
	snap, err := client.UpdateProfile(ctx, ProfilePatch{Bio: &bio})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if snap.Bio != bio {
		t.Errorf("updated bio = %q, want %q", snap.Bio, bio)
	}

	cached, ok := client.Profile()
	if !ok || cached.Bio != bio {
		t.Errorf("cached profile bio = %q, want %q", cached.Bio, bio)
	}
}

func TestUpdateProfileRequiresAuthentication(t *testing.T) {
	f := newFakeAPI(t)
	client := newTestClient(t, f)

	bio := "x"
	if _, err := client.UpdateProfile(context.Background(), ProfilePatch{Bio: &bio}); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("UpdateProfile error = %v, want ErrNotAuthenticated", err)
	}
}

func TestActionsAfterClose(t *testing.T) {
	f := newFakeAPI(t)
	client := newTestClient(t, f)
	client.Close()

	if _, err := client.Login(context.Background(), testUsername, testPassword); !errors.Is(err, ErrClientClosed) {
		t.Errorf("Login after Close error = %v, want ErrClientClosed", err)
	}
	if _, err := client.Do(context.Background(), Request{Method: "GET", Path: "/api/posts/"}); !errors.Is(err, ErrClientClosed) {
		t.Errorf("Do after Close error = %v, want ErrClientClosed", err)
	}
}
