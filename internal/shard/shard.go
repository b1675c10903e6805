package shard

import (
	"iter"

	"github.com/dreamware/largemap/internal/storage"
)

// ShardState represents where a shard sits in a LargeMap's sequence
type ShardState string

const (
	// ShardStateActive means the shard is the tail and accepts new keys
	ShardStateActive ShardState = "active"
	// ShardStateFrozen means a newer tail exists; only existing keys are updated
	ShardStateFrozen ShardState = "frozen"
	// ShardStateRetired means the shard was dropped by compaction or Clear
	ShardStateRetired ShardState = "retired"
)

// Shard is one bounded partition of a LargeMap.
// Not safe for concurrent use.
type Shard[K comparable, V any] struct {
	ID    uint64                    // Unique within the owning map, increasing in sequence order
	State ShardState                // Current shard state
	Stats OperationStats            // Operation statistics
	store *storage.OrderedMap[K, V] // Backing map
}

// OperationStats tracks operation counts.
// Every call is counted, hit or miss, so Gets on a frozen shard measures
// how often lookups had to scan past it.
type OperationStats struct {
	Gets    uint64 // Number of Get and Has calls
	Puts    uint64 // Number of Put calls
	Deletes uint64 // Number of Delete calls
}

// ShardInfo contains metadata about a shard
type ShardInfo struct {
	ID       uint64         // Shard identifier
	State    ShardState     // Current state
	KeyCount int            // Number of keys
	Ops      OperationStats // Operation counts
}

// NewShard creates an active shard backed by an empty ordered map
func NewShard[K comparable, V any](id uint64) *Shard[K, V] {
	return &Shard[K, V]{
		ID:    id,
		State: ShardStateActive,
		store: storage.NewOrderedMap[K, V](),
	}
}

// Get retrieves a value from the shard
func (s *Shard[K, V]) Get(key K) (V, bool) {
	s.Stats.Gets++
	return s.store.Get(key)
}

// Has reports whether the shard holds key
func (s *Shard[K, V]) Has(key K) bool {
	s.Stats.Gets++
	return s.store.Has(key)
}

// Put stores a value in the shard.
// Returns true if the key was new to this shard.
func (s *Shard[K, V]) Put(key K, value V) bool {
	s.Stats.Puts++
	return s.store.Put(key, value)
}

// Delete removes a key from the shard
func (s *Shard[K, V]) Delete(key K) bool {
	s.Stats.Deletes++
	return s.store.Delete(key)
}

// Len returns the number of keys in the shard
func (s *Shard[K, V]) Len() int {
	return s.store.Len()
}

// Empty reports whether the shard holds no keys
func (s *Shard[K, V]) Empty() bool {
	return s.store.Len() == 0
}

// Full reports whether the shard has reached limit and must not take new keys
func (s *Shard[K, V]) Full(limit int) bool {
	return s.store.Len() >= limit
}

// Clear drops every key but keeps the shard's identity and statistics
func (s *Shard[K, V]) Clear() {
	s.store.Clear()
}

// All yields the shard's entries in insertion order
func (s *Shard[K, V]) All() iter.Seq2[K, V] {
	return s.store.All()
}

// Cursor returns a cursor over the shard's entries
func (s *Shard[K, V]) Cursor() *storage.Cursor[K, V] {
	return s.store.Cursor()
}

// GetStats returns current operation statistics
func (s *Shard[K, V]) GetStats() OperationStats {
	return s.Stats
}

// Info returns metadata about the shard
func (s *Shard[K, V]) Info() ShardInfo {
	return ShardInfo{
		ID:       s.ID,
		State:    s.State,
		KeyCount: s.store.Stats().Keys,
		Ops:      s.Stats,
	}
}

// SetState updates the shard state
func (s *Shard[K, V]) SetState(state ShardState) {
	s.State = state
}
