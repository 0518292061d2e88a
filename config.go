package vone

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config defines a public type used by the V-One client APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	API     APIConfig
	Token   TokenConfig
	Refresh RefreshConfig
	Storage StorageConfig
	Events  EventsConfig
	Metrics MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig defines a public type used by the V-One client APIs.
type APIConfig struct {
	BaseURL        string
	UserAgent      string
	RequestTimeout time.Duration
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by the V-One client APIs.
//
// ExpiryLeeway widens the local expiry check: a persisted access token within
// leeway of its expiry is treated as already expired instead of being trusted
// for one doomed request.
type TokenConfig struct {
	ExpiryLeeway time.Duration
}

/*
====================================
REFRESH CONFIG
====================================
*/

// RefreshConfig defines a public type used by the V-One client APIs.
//
// Timeout bounds the refresh exchange call specifically: a hung refresh would
// otherwise block every queued waiter indefinitely.
type RefreshConfig struct {
	Timeout time.Duration
}

/*
====================================
STORAGE CONFIG
====================================
*/

// StorageConfig defines a public type used by the V-One client APIs.
//
// FilePath selects the default file-backed store when no store is injected.
// RedisPrefix namespaces the credentials key when a Redis store is used.
type StorageConfig struct {
	FilePath    string
	RedisPrefix string
}

/*
====================================
EVENTS CONFIG
====================================
*/

// EventsConfig defines a public type used by the V-One client APIs.
type EventsConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by the V-One client APIs.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			UserAgent:      "vone-go/1",
			RequestTimeout: 30 * time.Second,
		},
		Token: TokenConfig{
			ExpiryLeeway: 10 * time.Second,
		},
		Refresh: RefreshConfig{
			Timeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			RedisPrefix: "vone",
		},
		Events: EventsConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: false,
		},
	}
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
func (c *Config) Validate() error {
	base := strings.TrimSpace(c.API.BaseURL)
	if base == "" {
		return errors.New("API.BaseURL is required")
	}
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return errors.New("API.BaseURL must be an absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("API.BaseURL scheme must be http or https")
	}
	if c.API.RequestTimeout <= 0 {
		return errors.New("invalid API.RequestTimeout")
	}
	if c.Token.ExpiryLeeway < 0 || c.Token.ExpiryLeeway > 2*time.Minute {
		return errors.New("invalid Token.ExpiryLeeway")
	}
	if c.Refresh.Timeout <= 0 || c.Refresh.Timeout > 2*time.Minute {
		return errors.New("invalid Refresh.Timeout")
	}
	if c.Events.Enabled && c.Events.BufferSize < 0 {
		return errors.New("invalid Events.BufferSize")
	}
	return nil
}
