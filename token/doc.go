// Package token decodes access tokens into the structured claims the client
// needs: subject identity, staff flag, and expiry.
//
// # Non-authoritative decoding
//
// Decoding is local and convenience-only. The signature is never verified —
// verification is the server's responsibility, and a token this package
// accepts may still be rejected by the API. Claims drive nothing more than
// "who does the client believe it is" and "is the cached token worth sending".
//
// # Architecture boundaries
//
// This package owns structural parsing and expiry arithmetic. Session state,
// persistence, and refresh policy belong to the Client.
//
// # What this package must NOT do
//
//   - Verify signatures or make authorization decisions.
//   - Perform I/O of any kind.
//   - Import credstore or the root package.
package token
