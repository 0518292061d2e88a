// Package credstore provides durable persistence for the client's credential pair.
//
// # Storage layout
//
// Every backend stores exactly one value: the serialized [Pair] as JSON under a
// single key (or a single file). Absence and corruption are equivalent — [Store.Load]
// reports both as "no session" rather than failing, so a damaged store never locks
// a user out of re-authenticating.
//
// # Architecture boundaries
//
// This package owns persistence only. It does NOT inspect token contents, check
// expiry, or talk to the network — those responsibilities belong to the Client.
//
// # What this package must NOT do
//
//   - Import the root package or token (no upward imports).
//   - Decode or validate JWT payloads.
//   - Refresh, rotate, or otherwise mutate credentials beyond save/clear.
package credstore
