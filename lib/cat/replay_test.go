// Copyright 2026 The Catkit Authors
// SPDX-License-Identifier: Apache-2.0

package cat

import (
	"testing"
	"time"
)

func TestReplayCache(t *testing.T) {
	cache := NewReplayCache()
	cti := []byte("a1b2c3d4e5f60718a1b2c3d4e5f60718")

	if cache.Seen(cti) {
		t.Fatal("empty cache reports token as seen")
	}

	expiry := time.Unix(1700000120, 0)
	cache.Record(cti, expiry)
	if !cache.Seen(cti) {
		t.Fatal("recorded token not seen")
	}
	if cache.Len() != 1 {
		t.Fatalf("Len = %d, want 1", cache.Len())
	}
}

func TestReplayCacheCleanup(t *testing.T) {
	cache := NewReplayCache()
	cache.Record([]byte("expired"), time.Unix(1700000100, 0))
	cache.Record([]byte("live"), time.Unix(1700000200, 0))

	removed := cache.Cleanup(time.Unix(1700000150, 0))
	if removed != 1 {
		t.Fatalf("Cleanup removed %d, want 1", removed)
	}
	if cache.Seen([]byte("expired")) {
		t.Fatal("expired entry survived cleanup")
	}
	if !cache.Seen([]byte("live")) {
		t.Fatal("live entry removed by cleanup")
	}
}

func TestReplayCacheConcurrentUse(t *testing.T) {
	cache := NewReplayCache()
	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func(n byte) {
			defer func() { done <- struct{}{} }()
			cti := []byte{n}
			for j := 0; j < 1000; j++ {
				cache.Record(cti, time.Unix(1700000200, 0))
				cache.Seen(cti)
				cache.Cleanup(time.Unix(1700000100, 0))
			}
		}(byte(i))
	}
	for i := 0; i < 4; i++ {
		<-done
	}
}
