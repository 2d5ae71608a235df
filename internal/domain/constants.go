package domain

import (
	"strconv"
	"time"
)

// ==== Relay Constants ====

// MaxContentLength is the maximum accepted chat message length in characters.
// Longer content is rejected server-side with an explicit error event.
const MaxContentLength = 500

// MaxMessageSize is the maximum allowed WebSocket frame size in bytes.
const MaxMessageSize = 4096

// DefaultRecentLimit is the default page size for recent-message queries.
const DefaultRecentLimit = 10

// ==== Auth Constants ====

// TokenTTL is the default lifetime of issued access tokens.
const TokenTTL = 365 * 24 * time.Hour

// ==== Rate Limit Constants ====

const (
	// DefaultRateLimitAPI is the default rate limit for API endpoints (requests/sec)
	DefaultRateLimitAPI = 10

	// DefaultRateLimitWS is the default rate limit for WebSocket upgrades (req/sec)
	DefaultRateLimitWS = 5

	// DefaultRateLimitStrict is the stricter rate limit for auth endpoints
	DefaultRateLimitStrict = 2
)

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
