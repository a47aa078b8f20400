// Package cache provides a read-through response cache for provider calls.
//
// Entries are keyed by a request fingerprint so identical requests hit
// the same entry regardless of parameter ordering. Staleness is accepted:
// an entry is returned as long as it has not passed its TTL, and a
// concurrent write simply wins over an older one.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"time"
)

// Entry is one cached provider response.
type Entry struct {
	Fingerprint string
	Source      string
	Body        []byte
	StoredAt    time.Time
}

// Store persists cache entries. Get returns (nil, nil) on a miss.
type Store interface {
	Get(ctx context.Context, fingerprint string) (*Entry, error)
	Put(ctx context.Context, entry *Entry) error
}

// Fingerprint computes the cache key for a request: a SHA-256 over the
// method, URL, sorted query parameters, and body. Header values that
// vary per call (auth tokens) are deliberately excluded so rotated
// credentials still hit the cache.
func Fingerprint(method, url string, params map[string]string, body []byte) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(method)
	b.WriteByte('|')
	b.WriteString(url)
	for _, k := range keys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	b.WriteByte('|')
	b.Write(body)

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Fresh reports whether the entry is still within ttl. A zero ttl means
// entries never expire.
func (e *Entry) Fresh(ttl time.Duration, now time.Time) bool {
	if e == nil {
		return false
	}
	if ttl <= 0 {
		return true
	}
	return now.Sub(e.StoredAt) < ttl
}
