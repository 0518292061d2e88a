package vone

import (
	"context"
	"testing"
	"time"

	"github.com/HardM1nd/V-One-sub000/credstore"
)

func TestBuildRestoresPersistedSession(t *testing.T) {
	f := newFakeAPI(t)
	ctx := context.Background()

	store := credstore.NewMemoryStore()
	access := f.issueAccess()
	if err := store.Save(ctx, credstore.Pair{AccessToken: access, RefreshToken: f.refreshValue}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	client := newTestClient(t, f, func(b *Builder) { b.WithStore(store) })

	if got := client.Phase(); got != PhaseAuthenticating {
		t.Fatalf("Phase after restore = %v, want authenticating", got)
	}
	if !client.Identity().IsAuthenticated {
		t.Fatal("restored identity not authenticated")
	}
	if got := client.MetricsSnapshot().Counters[MetricSessionRestored]; got != 1 {
		t.Errorf("session restored counter = %d, want 1", got)
	}

	// Start hydrates the profile and completes the transition.
	if err := client.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := client.Phase(); got != PhaseAuthenticated {
		t.Errorf("Phase after Start = %v, want authenticated", got)
	}
	profile, ok := client.Profile()
	if !ok || profile.Username != testUsername {
		t.Errorf("profile after Start = %+v, ok=%v", profile, ok)
	}
	if got := f.profileHits.Load(); got != 1 {
		t.Errorf("profile fetched %d times, want 1", got)
	}
}

func TestBuildDiscardsExpiredPersistedSession(t *testing.T) {
	f := newFakeAPI(t)
	ctx := context.Background()

	store := credstore.NewMemoryStore()
	stale := mintAccess(t, testUserID, time.Now().Add(-time.Minute))
	if err := store.Save(ctx, credstore.Pair{AccessToken: stale, RefreshToken: "refresh-old"}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	client := newTestClient(t, f, func(b *Builder) { b.WithStore(store) })

	if got := client.Phase(); got != PhaseAnonymous {
		t.Fatalf("Phase = %v, want anonymous", got)
	}
	if client.Identity().IsAuthenticated {
		t.Error("identity authenticated from an expired pair")
	}
	// The stale pair is purged from storage, not kept around.
	pair, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if pair != nil {
		t.Error("expired pair survived in storage")
	}
	if got := f.refreshEntered.Load(); got != 0 {
		t.Errorf("restore triggered %d refresh calls, want 0", got)
	}
}

func TestBuildDiscardsMalformedPersistedSession(t *testing.T) {
	f := newFakeAPI(t)
	ctx := context.Background()

	store := credstore.NewMemoryStore()
	if err := store.Save(ctx, credstore.Pair{AccessToken: "not-a-jwt", RefreshToken: "r"}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	client := newTestClient(t, f, func(b *Builder) { b.WithStore(store) })
	if got := client.Phase(); got != PhaseAnonymous {
		t.Errorf("Phase = %v, want anonymous", got)
	}
}

func TestBuildWithinExpiryLeeway(t *testing.T) {
	f := newFakeAPI(t)
	ctx := context.Background()

	store := credstore.NewMemoryStore()
	// Valid for 5s, but leeway is 10s: treated as already expired.
	soon := mintAccess(t, testUserID, time.Now().Add(5*time.Second))
	if err := store.Save(ctx, credstore.Pair{AccessToken: soon, RefreshToken: "r"}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	client := newTestClient(t, f, func(b *Builder) { b.WithStore(store) })
	if got := client.Phase(); got != PhaseAnonymous {
		t.Errorf("Phase = %v, want anonymous for token inside leeway", got)
	}
}

func TestStartIsNoOpWhenAnonymous(t *testing.T) {
	f := newFakeAPI(t)
	client := newTestClient(t, f)

	if err := client.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if got := f.profileHits.Load() + f.staleHits.Load(); got != 0 {
		t.Errorf("anonymous Start made %d network calls, want 0", got)
	}
}

func TestBuilderSingleUse(t *testing.T) {
	f := newFakeAPI(t)
	b := New().WithBaseURL(f.URL()).WithStore(credstore.NewMemoryStore())
	client, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer client.Close()

	if _, err := b.Build(); err == nil {
		t.Error("second Build = nil error, want error")
	}
}

func TestBuildRequiresStore(t *testing.T) {
	if _, err := New().WithBaseURL("http://localhost:1").Build(); err == nil {
		t.Error("Build without a store = nil error, want error")
	}
}

func TestBuildRejectsNegativeEventBuffer(t *testing.T) {
	f := newFakeAPI(t)
	cfg := defaultConfig()
	cfg.API.BaseURL = f.URL()
	cfg.Events.Enabled = true
	cfg.Events.BufferSize = -1

	_, err := New().
		WithConfig(cfg).
		WithStore(credstore.NewMemoryStore()).
		Build()
	if err == nil {
		t.Error("Build with negative event buffer = nil error, want error")
	}
}

func TestBuildRequiresBaseURL(t *testing.T) {
	if _, err := New().WithStore(credstore.NewMemoryStore()).Build(); err == nil {
		t.Error("Build without a base URL = nil error, want error")
	}
}
