package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned when a token is structurally invalid: not three
// segments, a non-JSON payload, or a payload missing the subject claim.
var ErrMalformed = errors.New("malformed access token")

// Claims is the decoded view of an access token.
//
// ExpiresAt is unix seconds; zero means the token carried no expiry claim and
// is treated as never expiring locally (the server still decides).
type Claims struct {
	SubjectID string
	IsStaff   bool
	ExpiresAt int64
}

// HasExpiry reports whether the token carried an expiry claim.
func (c Claims) HasExpiry() bool {
	return c.ExpiresAt > 0
}

// Expired reports whether the token's expiry is at or before now. Tokens
// without an expiry claim never expire locally.
func (c Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == 0 {
		return false
	}
	return now.Unix() >= c.ExpiresAt
}

// Decode describes the decode operation and its observable behavior.
//
// Decode parses the token without verifying its signature and projects the
// payload into [Claims]. It fails with [ErrMalformed] when the token cannot
// be parsed or identifies no subject.
func Decode(accessToken string) (Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	subject, ok := subjectOf(claims)
	if !ok {
		return Claims{}, fmt.Errorf("%w: no subject claim", ErrMalformed)
	}

	out := Claims{SubjectID: subject}
	if staff, ok := claims["is_staff"].(bool); ok {
		out.IsStaff = staff
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Unix()
	}
	return out, nil
}

// subjectOf prefers the API's numeric user_id claim and falls back to the
// registered sub claim.
func subjectOf(claims jwt.MapClaims) (string, bool) {
	switch v := claims["user_id"].(type) {
	case string:
		if v != "" {
			return v, true
		}
	case float64:
		return strconv.FormatInt(int64(v), 10), true
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, true
	}
	return "", false
}
