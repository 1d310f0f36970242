package internal

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/singleflight"
)

type memoEntry[K comparable, V any] struct {
	key        K
	value      V
	insertedAt time.Time
}

// Memo is a single-entry cache in front of a LoadFunc. An entry is valid
// while now-insertedAt < ttl and only for the key it was loaded with.
//
// Concurrent misses for the same key share one load. Invalidate bumps a
// generation so a load already in flight is returned to its callers but
// not stored.
type Memo[K comparable, V any] struct {
	name    string
	ttl     time.Duration
	clock   quartz.Clock
	load    LoadFunc[K, V]
	keyOf   func(K) string
	metrics CacheMetrics

	mu    sync.Mutex
	cur   *memoEntry[K, V]
	gen   uint64
	group singleflight.Group
}

func NewMemo[K comparable, V any](name string, ttl time.Duration, clock quartz.Clock, metrics CacheMetrics, keyOf func(K) string, load LoadFunc[K, V]) *Memo[K, V] {
	return &Memo[K, V]{
		name:    name,
		ttl:     ttl,
		clock:   clock,
		load:    load,
		keyOf:   keyOf,
		metrics: metrics,
	}
}

func (m *Memo[K, V]) Get(ctx context.Context, key K) (V, error) {
	m.mu.Lock()
	if e := m.valid(key); e != nil {
		m.mu.Unlock()
		m.metrics.Hit(m.name)
		return e.value, nil
	}
	gen := m.gen
	m.mu.Unlock()

	m.metrics.Miss(m.name)
	res, err, _ := m.group.Do(strconv.FormatUint(gen, 10)+"/"+m.keyOf(key), func() (any, error) {
		// A load that finished between the check above and Do already stored it.
		m.mu.Lock()
		if e := m.valid(key); e != nil && m.gen == gen {
			m.mu.Unlock()
			return e.value, nil
		}
		m.mu.Unlock()

		v, err := m.load(ctx, key)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		if m.gen == gen {
			m.cur = &memoEntry[K, V]{key: key, value: v, insertedAt: m.clock.Now()}
		}
		m.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

// valid returns the current entry if it matches key and is inside the TTL.
// m.mu must be held.
func (m *Memo[K, V]) valid(key K) *memoEntry[K, V] {
	if m.cur == nil || m.cur.key != key {
		return nil
	}
	if m.clock.Now().Sub(m.cur.insertedAt) >= m.ttl {
		return nil
	}
	return m.cur
}

// Invalidate drops the entry regardless of its age.
func (m *Memo[K, V]) Invalidate() {
	m.mu.Lock()
	m.cur = nil
	m.gen++
	m.mu.Unlock()
}

// Age reports how old the current entry is, and false if there is none.
func (m *Memo[K, V]) Age() (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil {
		return 0, false
	}
	return m.clock.Now().Sub(m.cur.insertedAt), true
}
