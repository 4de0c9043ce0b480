package caniuse

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store caches raw response bodies keyed by request URL.
// *cache.Cache (sqlite) and *MemoryStore both satisfy it.
type Store interface {
	Get(key string, maxAge time.Duration) ([]byte, bool)
	Put(key string, body []byte) error
}

type memoryEntry struct {
	body []byte
	at   time.Time
}

// MemoryStore keeps responses for the lifetime of one process, e.g. a browse session.
type MemoryStore struct {
	cache *gocache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: gocache.New(ttl, 2*ttl)}
}

func (m *MemoryStore) Get(key string, maxAge time.Duration) ([]byte, bool) {
	v, ok := m.cache.Get(key)
	if !ok {
		return nil, false
	}
	e, ok := v.(memoryEntry)
	if !ok || time.Since(e.at) > maxAge {
		return nil, false
	}
	return e.body, true
}

func (m *MemoryStore) Put(key string, body []byte) error {
	m.cache.Set(key, memoryEntry{body: body, at: time.Now()}, gocache.DefaultExpiration)
	return nil
}

// Chain consults stores in order and copies a hit back into the earlier ones.
func Chain(stores ...Store) Store {
	var out chain
	for _, s := range stores {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

type chain []Store

func (c chain) Get(key string, maxAge time.Duration) ([]byte, bool) {
	for i, s := range c {
		body, ok := s.Get(key, maxAge)
		if !ok {
			continue
		}
		for _, earlier := range c[:i] {
			_ = earlier.Put(key, body)
		}
		return body, true
	}
	return nil, false
}

func (c chain) Put(key string, body []byte) error {
	var first error
	for _, s := range c {
		if err := s.Put(key, body); err != nil && first == nil {
			first = err
		}
	}
	return first
}
