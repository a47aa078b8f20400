package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestFingerprintStableUnderParamOrder(t *testing.T) {
	a := Fingerprint("GET", "https://api.example/v1", map[string]string{
		"address": "0xabc", "module": "contract", "action": "getsourcecode",
	}, nil)
	b := Fingerprint("GET", "https://api.example/v1", map[string]string{
		"action": "getsourcecode", "module": "contract", "address": "0xabc",
	}, nil)
	if a != b {
		t.Error("fingerprint should not depend on param map iteration order")
	}
}

func TestFingerprintDistinguishesRequests(t *testing.T) {
	base := Fingerprint("GET", "https://api.example/v1", map[string]string{"a": "1"}, nil)
	cases := map[string]string{
		"method": Fingerprint("POST", "https://api.example/v1", map[string]string{"a": "1"}, nil),
		"url":    Fingerprint("GET", "https://api.example/v2", map[string]string{"a": "1"}, nil),
		"param":  Fingerprint("GET", "https://api.example/v1", map[string]string{"a": "2"}, nil),
		"body":   Fingerprint("GET", "https://api.example/v1", map[string]string{"a": "1"}, []byte("x")),
	}
	for name, fp := range cases {
		if fp == base {
			t.Errorf("changing %s should change the fingerprint", name)
		}
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if got, err := s.Get(ctx, "missing"); err != nil || got != nil {
		t.Fatalf("miss = (%v, %v), want (nil, nil)", got, err)
	}

	e := &Entry{Fingerprint: "fp1", Source: "explorer", Body: []byte(`{"ok":true}`), StoredAt: time.Now()}
	if err := s.Put(ctx, e); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := s.Get(ctx, "fp1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || string(got.Body) != `{"ok":true}` || got.Source != "explorer" {
		t.Fatalf("got %+v", got)
	}

	// Mutating the returned body must not corrupt the stored entry.
	got.Body[0] = 'X'
	again, _ := s.Get(ctx, "fp1")
	if string(again.Body) != `{"ok":true}` {
		t.Error("stored entry mutated through returned copy")
	}
}

func TestMemoryStoreWriteWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_ = s.Put(ctx, &Entry{Fingerprint: "fp", Body: []byte("old")})
	_ = s.Put(ctx, &Entry{Fingerprint: "fp", Body: []byte("new")})

	got, _ := s.Get(ctx, "fp")
	if string(got.Body) != "new" {
		t.Errorf("body = %q, want new", got.Body)
	}
}

func TestMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = s.Put(ctx, &Entry{Fingerprint: "shared", Body: []byte("v")})
				_, _ = s.Get(ctx, "shared")
			}
		}()
	}
	wg.Wait()
}

func TestEntryFresh(t *testing.T) {
	now := time.Now()
	e := &Entry{StoredAt: now.Add(-time.Minute)}

	if !e.Fresh(time.Hour, now) {
		t.Error("one-minute-old entry should be fresh under a 1h TTL")
	}
	if e.Fresh(time.Second, now) {
		t.Error("one-minute-old entry should be stale under a 1s TTL")
	}
	if !e.Fresh(0, now) {
		t.Error("zero TTL means never expire")
	}

	var nilEntry *Entry
	if nilEntry.Fresh(time.Hour, now) {
		t.Error("nil entry is never fresh")
	}
}
