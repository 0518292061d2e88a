package vone

import (
	"context"
	"sync"
	"time"

	"github.com/HardM1nd/V-One-sub000/credstore"
)

type refreshOutcome struct {
	accessToken string
	err         error
}

// refreshCoordinator guarantees at most one in-flight refresh exchange
// system-wide. Its state is either idle or refreshing with a waiter list;
// every caller that arrives while a refresh is in flight joins the list and
// observes the same outcome.
//
// A failed refresh is terminal for the session: the coordinator tears the
// session down and never retries the exchange.
type refreshCoordinator struct {
	state    *sessionState
	exchange func(ctx context.Context, refreshToken string) (string, error)
	timeout  time.Duration
	teardown func(ctx context.Context, cause error)
	metrics  *Metrics
	events   func(ctx context.Context, event Event)

	mu         sync.Mutex
	refreshing bool
	waiters    []chan refreshOutcome
}

// Refresh returns a fresh access token, or ErrSessionExpired once the session
// has been torn down. Context cancellation abandons the caller's wait without
// affecting the shared refresh.
func (r *refreshCoordinator) Refresh(ctx context.Context) (string, error) {
	r.mu.Lock()
	if r.refreshing {
		ch := make(chan refreshOutcome, 1)
		r.waiters = append(r.waiters, ch)
		r.mu.Unlock()
		r.metrics.Inc(MetricRefreshJoined)
		select {
		case out := <-ch:
			return out.accessToken, out.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	r.refreshing = true
	r.mu.Unlock()

	out := r.run(ctx)

	r.mu.Lock()
	waiters := r.waiters
	r.waiters = nil
	r.refreshing = false
	r.mu.Unlock()

	for _, ch := range waiters {
		ch <- out
	}
	return out.accessToken, out.err
}

func (r *refreshCoordinator) run(ctx context.Context) refreshOutcome {
	refreshToken := r.state.refreshToken()
	if refreshToken == "" {
		r.metrics.Inc(MetricRefreshFailure)
		r.teardown(context.WithoutCancel(ctx), ErrNotAuthenticated)
		return refreshOutcome{err: ErrSessionExpired}
	}

	// The exchange runs detached from the leader's context: waiters must not
	// lose the shared refresh because one caller gave up. The config timeout
	// is the only bound.
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	access, err := r.exchange(rctx, refreshToken)
	if err != nil {
		r.metrics.Inc(MetricRefreshFailure)
		r.events(rctx, Event{EventType: EventRefresh, Success: false, Error: err.Error()})
		r.teardown(rctx, err)
		return refreshOutcome{err: ErrSessionExpired}
	}

	// The server does not rotate the refresh token; the original value is
	// carried forward alongside the new access token.
	pair := credstore.Pair{AccessToken: access, RefreshToken: refreshToken}
	if _, err := r.state.setCredentials(rctx, pair); err != nil {
		r.metrics.Inc(MetricRefreshFailure)
		r.events(rctx, Event{EventType: EventRefresh, Success: false, Error: err.Error()})
		r.teardown(rctx, err)
		return refreshOutcome{err: ErrSessionExpired}
	}

	r.metrics.Inc(MetricRefreshSuccess)
	r.events(rctx, Event{EventType: EventRefresh, Success: true})
	return refreshOutcome{accessToken: access}
}
