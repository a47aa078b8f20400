// Package syncutil provides small concurrency helpers.
package syncutil

import (
	"context"
	"hash/fnv"
)

const keyMutexShards = 256

// KeyMutex provides per-key mutual exclusion over a fixed pool of
// channel-based locks. Waiters can abandon the acquisition when their
// context is cancelled. Distinct keys may share a shard and contend,
// which only costs latency, never correctness.
type KeyMutex struct {
	shards [keyMutexShards]chan struct{}
}

// NewKeyMutex creates a KeyMutex with all shards unlocked.
func NewKeyMutex() *KeyMutex {
	m := &KeyMutex{}
	for i := range m.shards {
		m.shards[i] = make(chan struct{}, 1)
		m.shards[i] <- struct{}{}
	}
	return m
}

// Lock acquires the lock for key. On success it returns an unlock
// function that the caller must invoke exactly once. If ctx is
// cancelled while waiting, it returns nil and the context error.
func (m *KeyMutex) Lock(ctx context.Context, key string) (func(), error) {
	shard := m.shards[m.shardIdx(key)]
	select {
	case <-shard:
		return func() { shard <- struct{}{} }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (m *KeyMutex) shardIdx(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % keyMutexShards
}
