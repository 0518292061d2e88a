package vone

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/HardM1nd/V-One-sub000/credstore"
)

// Builder defines a public type used by the V-One client APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config     Config
	httpClient *http.Client
	store      credstore.Store
	redis      redis.UniversalClient
	sink       EventSink
	onExpired  func()

	built bool
}

// New describes the new operation and its observable behavior.
//
// New allocates only; no I/O happens before [Builder.Build].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithBaseURL describes the withbaseurl operation and its observable behavior.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithCredentialsFile describes the withcredentialsfile operation and its observable behavior.
//
// WithCredentialsFile selects the default file-backed credential store at the
// given path. An explicitly injected store takes precedence.
func (b *Builder) WithCredentialsFile(path string) *Builder {
	b.config.Storage.FilePath = path
	return b
}

// WithHTTPClient describes the withhttpclient operation and its observable behavior.
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.httpClient = client
	return b
}

// WithStore describes the withstore operation and its observable behavior.
func (b *Builder) WithStore(store credstore.Store) *Builder {
	b.store = store
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis selects a Redis-backed credential store using the configured
// storage prefix. An explicitly injected store takes precedence.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithEventSink describes the witheventsink operation and its observable behavior.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.sink = sink
	b.config.Events.Enabled = true
	return b
}

// WithSessionExpiredHandler registers the callback fired once per
// irrecoverable session teardown — the navigation hook the embedding
// application uses to route back to its sign-in entry point.
func (b *Builder) WithSessionExpiredHandler(handler func()) *Builder {
	b.onExpired = handler
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build validates the configuration, resolves the credential store, and
// restores any persisted session from storage. No network call is made;
// profile hydration happens in [Client.Start].
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	store, err := b.resolveStore(cfg)
	if err != nil {
		return nil, err
	}

	httpClient := b.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.API.RequestTimeout}
	}

	client := &Client{
		config:     cfg,
		httpClient: httpClient,
		state:      newSessionState(store, cfg.Token.ExpiryLeeway),
		metrics:    newMetrics(cfg.Metrics),
		events:     newEventDispatcher(cfg.Events, b.sink),
		onExpired:  b.onExpired,
		clientID:   uuid.NewString(),
	}
	client.refresher = &refreshCoordinator{
		state:    client.state,
		exchange: client.exchangeRefresh,
		timeout:  cfg.Refresh.Timeout,
		teardown: client.teardownSession,
		metrics:  client.metrics,
		events:   client.emit,
	}

	ctx := context.Background()
	restored, err := client.state.restore(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("restore credentials: %w", err)
	}
	if restored {
		client.metrics.Inc(MetricSessionRestored)
		client.emit(ctx, Event{EventType: EventSessionRestored, Success: true})
	}

	return client, nil
}

func (b *Builder) resolveStore(cfg Config) (credstore.Store, error) {
	if b.store != nil {
		return b.store, nil
	}
	if b.redis != nil {
		return credstore.NewRedisStore(b.redis, cfg.Storage.RedisPrefix)
	}
	if cfg.Storage.FilePath != "" {
		return credstore.NewFileStore(cfg.Storage.FilePath)
	}
	return nil, errors.New("credential store required: use WithStore, WithRedis, or Storage.FilePath")
}
