// Package pagination provides opaque cursors for time-ordered listings.
package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var errInvalidCursor = errors.New("invalid cursor")

// Cursor marks a position in a listing ordered by descending timestamp.
// Key disambiguates rows sharing the same timestamp.
type Cursor struct {
	AssessedAt time.Time
	Key        string
}

// Encode returns an opaque cursor for the given position.
func Encode(assessedAt time.Time, key string) string {
	raw := fmt.Sprintf("%d|%s", assessedAt.UnixNano(), key)
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// Decode parses an opaque cursor. Empty input means "first page" and
// decodes to nil without error.
func Decode(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, errInvalidCursor
	}
	ts, key, ok := strings.Cut(string(raw), "|")
	if !ok {
		return nil, errInvalidCursor
	}
	nanos, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return nil, errInvalidCursor
	}
	return &Cursor{
		AssessedAt: time.Unix(0, nanos).UTC(),
		Key:        key,
	}, nil
}

// ComputePage trims a slice fetched with limit+1 rows down to the page.
// extractKey reads the (timestamp, key) position of the last kept item,
// which becomes the cursor for the following page.
func ComputePage[T any](items []T, limit int, extractKey func(T) (time.Time, string)) ([]T, string, bool) {
	if len(items) <= limit {
		return items, "", false
	}
	items = items[:limit]
	assessedAt, key := extractKey(items[len(items)-1])
	return items, Encode(assessedAt, key), true
}
