package tokens

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default lifetimes used when a token cannot be introspected. They
// match what the LogiTrack API declares for its token pair.
const (
	AccessTTL  = 24 * time.Hour
	RefreshTTL = 7 * 24 * time.Hour
)

// ExpiryOf reads the exp claim without verifying the signature. The
// client never validates tokens, the server does; this is only used
// to align cookie lifetimes with what the token itself declares.
func ExpiryOf(tokenStr string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenStr, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// ExpiryOrDefault falls back to now+ttl for opaque tokens.
func ExpiryOrDefault(tokenStr string, ttl time.Duration) time.Time {
	if exp, ok := ExpiryOf(tokenStr); ok {
		return exp
	}
	return time.Now().Add(ttl)
}
