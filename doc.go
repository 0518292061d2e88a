// Package vone is the Go client for the V-One flight-log API. It owns the
// authenticated session: the credential pair, the identity derived from it,
// bearer attachment on outgoing requests, transparent refresh of expired
// access tokens, and session teardown on irrecoverable failure.
//
// The package is designed for concurrent use: Client methods are safe to call
// from multiple goroutines after construction through [Builder.Build].
//
// # Architecture boundaries
//
// vone is the public surface. It exposes [Client], [Builder], [Config], and
// value types (SessionIdentity, ProfileSnapshot, etc.). Credential
// persistence lives in credstore, claims decoding in token, and the API wire
// contract in internal/wire.
//
// # Session guarantees
//
//   - At most one refresh call is in flight at any time; concurrent requests
//     that hit 401 share its outcome.
//   - A request is replayed at most once after a successful refresh.
//   - A failed refresh is terminal: the session is torn down, storage is
//     cleared, and the configured session-expired handler fires once.
//
// # What this package must NOT do
//
//   - Verify token signatures (server responsibility).
//   - Retry a failed refresh.
//   - Attach credentials anywhere except through the request pipeline.
package vone
