package assessor

import (
	"context"
	"time"
)

// Store persists assessment results.
type Store interface {
	// Record saves one completed assessment.
	Record(ctx context.Context, result *Result) error
	// List returns past assessments for a token, most recent first.
	// A non-zero before restricts results to assessments strictly older
	// than that instant, which is how callers page through history.
	List(ctx context.Context, chain, address string, before time.Time, limit int) ([]*Result, error)
}
