//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/quantfi/tokenrisk/internal/testutil"
)

func TestPostgresCache_RoundTrip(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPostgresStore(db)

	if got, err := store.Get(ctx, "missing"); err != nil || got != nil {
		t.Fatalf("miss = (%v, %v), want (nil, nil)", got, err)
	}

	e := &Entry{
		Fingerprint: "fp-pg",
		Source:      "market",
		Body:        []byte(`{"symbol":"TOP"}`),
		StoredAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := store.Put(ctx, e); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.Get(ctx, "fp-pg")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || string(got.Body) != `{"symbol":"TOP"}` || got.Source != "market" {
		t.Fatalf("got %+v", got)
	}
}

func TestPostgresCache_UpsertWins(t *testing.T) {
	db, cleanup := testutil.PGTest(t)
	defer cleanup()

	ctx := context.Background()
	store := NewPostgresStore(db)

	first := &Entry{Fingerprint: "fp-up", Source: "social", Body: []byte("old"), StoredAt: time.Now().UTC()}
	if err := store.Put(ctx, first); err != nil {
		t.Fatalf("first put: %v", err)
	}
	second := &Entry{Fingerprint: "fp-up", Source: "social", Body: []byte("new"), StoredAt: time.Now().UTC()}
	if err := store.Put(ctx, second); err != nil {
		t.Fatalf("second put: %v", err)
	}

	got, err := store.Get(ctx, "fp-up")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got.Body) != "new" {
		t.Errorf("body = %q, want new", got.Body)
	}
}
