package largemap

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/exp/slices"

	"github.com/dreamware/largemap/internal/shard"
)

// LargeMap is a key-value map whose entries are spread over an ordered
// sequence of capacity-bounded shards.
//
// Routing rules:
//   - A key lives in exactly one shard
//   - New keys always go to the tail (last) shard
//   - When the tail already holds Limit entries, a fresh tail is appended
//     before the insert; keys already resident in older shards keep being
//     updated where they are
//   - A non-tail shard is dropped as soon as its last key is deleted
//
// Every operation is O(number of shards) except iteration and Len, which are
// O(entries) and O(shards) respectively.
//
// A LargeMap is not safe for concurrent use. The zero value is not usable;
// create instances with New or MustNew.
type LargeMap[K comparable, V any] struct {
	// shards is the ordered sequence; never empty.
	// IDs are strictly increasing along the slice.
	shards []*shard.Shard[K, V]

	// limit is the per-shard capacity.
	limit int

	// nextID is handed to the next shard created.
	nextID uint64

	// epoch is bumped by Clear so live iterators can stop.
	epoch uint64

	logger hclog.Logger
}

// New creates a LargeMap holding a single empty shard.
//
// Returns an error wrapping ErrInvalidConfiguration if the configured limit
// is not positive.
//
// Example:
//
//	m, err := largemap.New[string, int](largemap.WithLimit(1 << 20))
//	if err != nil {
//	    return err
//	}
//	m.Set("answer", 42)
func New[K comparable, V any](opts ...Option) (*LargeMap[K, V], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	m := &LargeMap[K, V]{
		limit:  cfg.limit,
		logger: cfg.logger,
	}
	m.shards = []*shard.Shard[K, V]{m.newShard()}
	return m, nil
}

// MustNew is like New but panics on an invalid configuration.
func MustNew[K comparable, V any](opts ...Option) *LargeMap[K, V] {
	m, err := New[K, V](opts...)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *LargeMap[K, V]) newShard() *shard.Shard[K, V] {
	s := shard.NewShard[K, V](m.nextID)
	m.nextID++
	return s
}

func (m *LargeMap[K, V]) tail() *shard.Shard[K, V] {
	return m.shards[len(m.shards)-1]
}

// Has reports whether key is present in any shard.
func (m *LargeMap[K, V]) Has(key K) bool {
	for _, s := range m.shards {
		if s.Has(key) {
			return true
		}
	}
	return false
}

// Get returns the value stored for key.
// The boolean is false, and the value the zero value, if key is absent.
func (m *LargeMap[K, V]) Get(key K) (V, bool) {
	for _, s := range m.shards {
		if v, ok := s.Get(key); ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// Set stores value under key.
//
// The order of steps matters:
//  1. If the tail is full, append a new empty tail.
//  2. Look for key in every shard except the tail; if found, update there.
//  3. Otherwise write to the tail.
//
// Existing keys therefore never migrate, even across many overflows.
func (m *LargeMap[K, V]) Set(key K, value V) {
	if m.tail().Full(m.limit) {
		m.grow()
	}

	target := m.tail()
	for _, s := range m.shards[:len(m.shards)-1] {
		if s.Has(key) {
			target = s
			break
		}
	}
	target.Put(key, value)
}

func (m *LargeMap[K, V]) grow() {
	prev := m.tail()
	prev.SetState(shard.ShardStateFrozen)

	next := m.newShard()
	m.shards = append(m.shards, next)

	m.logger.Debug("appended tail shard",
		"shard_id", next.ID,
		"frozen_id", prev.ID,
		"shards", len(m.shards),
		"limit", m.limit)
}

// Delete removes key and reports whether it was present.
//
// Shards are scanned from the tail backwards, since recently inserted keys
// live at the end. If the deletion empties a shard that is not the tail, that
// shard is dropped from the sequence.
func (m *LargeMap[K, V]) Delete(key K) bool {
	for i := len(m.shards) - 1; i >= 0; i-- {
		s := m.shards[i]
		if !s.Delete(key) {
			continue
		}
		if s.Empty() && i != len(m.shards)-1 {
			m.shards = slices.Delete(m.shards, i, i+1)
			s.SetState(shard.ShardStateRetired)

			m.logger.Debug("compacted empty shard",
				"shard_id", s.ID,
				"index", i,
				"shards", len(m.shards))
		}
		return true
	}
	return false
}

// Clear removes every entry. The current tail shard is kept (emptied) and
// all other shards are dropped, leaving the map in its freshly constructed
// shape. Iterators started before Clear stop.
func (m *LargeMap[K, V]) Clear() {
	t := m.tail()
	dropped := len(m.shards) - 1
	for _, s := range m.shards[:dropped] {
		s.SetState(shard.ShardStateRetired)
	}

	m.shards = []*shard.Shard[K, V]{t}
	t.Clear()
	t.SetState(shard.ShardStateActive)
	m.epoch++

	m.logger.Trace("cleared map", "kept_shard_id", t.ID, "dropped_shards", dropped)
}

// Len returns the total number of entries. It is computed on every call by
// summing shard sizes.
func (m *LargeMap[K, V]) Len() int {
	n := 0
	for _, s := range m.shards {
		n += s.Len()
	}
	return n
}

// ShardCount returns the number of shards currently in the sequence.
// It is always at least 1.
func (m *LargeMap[K, V]) ShardCount() int {
	return len(m.shards)
}

// Limit returns the per-shard capacity.
func (m *LargeMap[K, V]) Limit() int {
	return m.limit
}

// String implements fmt.Stringer.
func (m *LargeMap[K, V]) String() string {
	return fmt.Sprintf("LargeMap(len=%d, shards=%d, limit=%d)", m.Len(), len(m.shards), m.limit)
}
