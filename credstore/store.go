package credstore

import "context"

// Pair is the persisted credential pair: a short-lived access token and the
// longer-lived refresh token it is exchanged against. Both are opaque bearer
// strings to this package.
type Pair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// Valid reports whether both tokens are present. A pair missing either half is
// treated as no session.
func (p Pair) Valid() bool {
	return p.AccessToken != "" && p.RefreshToken != ""
}

// Store defines a public type used by the V-One client APIs.
//
// Store implementations persist a single credential pair. Load must return
// (nil, nil) when no pair is stored or the stored value cannot be decoded;
// a non-nil error is reserved for backend transport failures.
type Store interface {
	Save(ctx context.Context, pair Pair) error
	Load(ctx context.Context) (*Pair, error)
	Clear(ctx context.Context) error
}
