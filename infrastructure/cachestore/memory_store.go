package cachestore

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is a process-local cache on top of go-cache. Expiry is kept
// per item against the injected clock rather than go-cache's wall clock, so
// expired entries are invisible immediately and removed by a janitor
// goroutine on each sweep.
type MemoryStore struct {
	items *gocache.Cache
	clock clockwork.Clock

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

type cacheItem struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func (i cacheItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && !now.Before(i.expiresAt)
}

// NewMemoryStore creates a memory store. A sweepInterval of zero disables
// the janitor; expired entries are then only dropped when overwritten.
func NewMemoryStore(clock clockwork.Clock, sweepInterval time.Duration) *MemoryStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	s := &MemoryStore{
		items: gocache.New(gocache.NoExpiration, 0),
		clock: clock,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}

	if sweepInterval > 0 {
		go s.cleanupExpired(sweepInterval)
	} else {
		close(s.done)
	}
	return s
}

// Get returns a copy of the stored bytes.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	item, ok := s.lookup(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), item.value...), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	item := cacheItem{value: append([]byte(nil), value...)}
	if ttl > 0 {
		item.expiresAt = s.clock.Now().Add(ttl)
	}

	s.items.Set(key, item, gocache.NoExpiration)
	return nil
}

func (s *MemoryStore) Has(_ context.Context, key string) (bool, error) {
	_, ok := s.lookup(key)
	return ok, nil
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		s.items.Delete(key)
	}
	return nil
}

// Len counts entries that have not expired yet.
func (s *MemoryStore) Len() int {
	now := s.clock.Now()
	n := 0
	for _, entry := range s.items.Items() {
		if !entry.Object.(cacheItem).expired(now) {
			n++
		}
	}
	return n
}

func (s *MemoryStore) lookup(key string) (cacheItem, bool) {
	v, ok := s.items.Get(key)
	if !ok {
		return cacheItem{}, false
	}
	item := v.(cacheItem)
	if item.expired(s.clock.Now()) {
		return cacheItem{}, false
	}
	return item, true
}

// Close stops the janitor and waits for it to exit. Reads and writes keep
// working afterwards.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() { close(s.stop) })
	<-s.done
	return nil
}

func (s *MemoryStore) cleanupExpired(interval time.Duration) {
	defer close(s.done)

	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.Chan():
			s.sweep()
		}
	}
}

// sweep works on a snapshot. A key rewritten mid-sweep may be dropped,
// which readers see as a miss.
func (s *MemoryStore) sweep() {
	now := s.clock.Now()
	for key, entry := range s.items.Items() {
		if entry.Object.(cacheItem).expired(now) {
			s.items.Delete(key)
		}
	}
}
