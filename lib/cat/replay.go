// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package cat

import (
	"sync"
	"time"
)

// ReplayCache is a thread-safe in-memory record of token IDs, the
// replay-state oracle behind Request.SeenBefore. Callers check a
// token's CTI before verification and record it afterwards:
//
//	seen := cache.Seen(cti)
//	claims, err := verifier.Verify(token, cat.Request{SeenBefore: seen, ...})
//	if err == nil {
//	    cache.Record(cti, expiry)
//	}
//
// Entries auto-expire: once a token's natural expiry has passed,
// Cleanup drops its entry, since expired tokens are rejected by the
// time checks regardless. With the short TTLs typical of edge tokens
// the cache stays small.
type ReplayCache struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewReplayCache returns an empty replay cache.
func NewReplayCache() *ReplayCache {
	return &ReplayCache{entries: make(map[string]time.Time)}
}

// Seen reports whether a token ID has been recorded.
func (r *ReplayCache) Seen(cti []byte) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.entries[string(cti)]
	return exists
}

// Record stores a token ID with the token's natural expiry time. The
// entry is removed by Cleanup after that time passes.
func (r *ReplayCache) Record(cti []byte, tokenExpiresAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[string(cti)] = tokenExpiresAt
}

// Cleanup removes entries whose token expiry has passed and returns
// how many were removed. Call periodically to bound growth.
func (r *ReplayCache) Cleanup(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for cti, expiresAt := range r.entries {
		if !now.Before(expiresAt) {
			delete(r.entries, cti)
			removed++
		}
	}
	return removed
}

// Len returns the number of recorded token IDs.
func (r *ReplayCache) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
