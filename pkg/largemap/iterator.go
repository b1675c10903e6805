package largemap

import (
	"cmp"
	"iter"

	"golang.org/x/exp/slices"

	"github.com/dreamware/largemap/internal/shard"
	"github.com/dreamware/largemap/internal/storage"
)

// Iterator walks a LargeMap shard by shard, and within a shard in insertion
// order. It is the pull-style counterpart of All.
//
// Deleting entries while iterating is safe, including deletions that cause a
// shard to be compacted away. Entries added during iteration may or may not
// be visited. Clear ends the iteration.
//
//	it := m.Iter()
//	for it.Next() {
//	    fmt.Println(it.Key(), it.Value())
//	}
type Iterator[K comparable, V any] struct {
	m     *LargeMap[K, V]
	epoch uint64
	cur   *shard.Shard[K, V]
	inner *storage.Cursor[K, V]
	done  bool
}

// Iter returns a new iterator positioned before the first entry.
func (m *LargeMap[K, V]) Iter() *Iterator[K, V] {
	return &Iterator[K, V]{m: m, epoch: m.epoch}
}

// Next advances to the next entry and reports whether there is one.
func (it *Iterator[K, V]) Next() bool {
	if it.done {
		return false
	}
	if it.epoch != it.m.epoch {
		it.stop()
		return false
	}

	for {
		if it.inner != nil && it.inner.Next() {
			return true
		}
		next := it.m.shardAfter(it.cur)
		if next == nil {
			it.stop()
			return false
		}
		it.cur = next
		it.inner = next.Cursor()
	}
}

func (it *Iterator[K, V]) stop() {
	it.done = true
	it.cur = nil
	it.inner = nil
}

// Key returns the key of the current entry.
func (it *Iterator[K, V]) Key() K {
	if it.inner == nil {
		var zero K
		return zero
	}
	return it.inner.Key()
}

// Value returns the value of the current entry.
func (it *Iterator[K, V]) Value() V {
	if it.inner == nil {
		var zero V
		return zero
	}
	return it.inner.Value()
}

// shardAfter returns the first shard in the sequence whose ID is greater than
// prev's, or the first shard if prev is nil. Searching by ID rather than by
// index keeps iteration correct when compaction shifts the slice.
func (m *LargeMap[K, V]) shardAfter(prev *shard.Shard[K, V]) *shard.Shard[K, V] {
	if prev == nil {
		return m.shards[0]
	}
	i, _ := slices.BinarySearchFunc(m.shards, prev.ID+1, func(s *shard.Shard[K, V], id uint64) int {
		return cmp.Compare(s.ID, id)
	})
	if i == len(m.shards) {
		return nil
	}
	return m.shards[i]
}

// All returns an iterator over key-value pairs. Each call starts a fresh
// traversal.
func (m *LargeMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := m.Iter()
		for it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Keys returns an iterator over keys, in the same order as All.
func (m *LargeMap[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		it := m.Iter()
		for it.Next() {
			if !yield(it.Key()) {
				return
			}
		}
	}
}

// Values returns an iterator over values, in the same order as All.
func (m *LargeMap[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		it := m.Iter()
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// ForEach calls visit once per entry, in the same order as All, passing a
// read-only view of the shard that owns the entry.
func (m *LargeMap[K, V]) ForEach(visit func(value V, key K, shard ShardView[K, V])) {
	it := m.Iter()
	for it.Next() {
		visit(it.Value(), it.Key(), shardView[K, V]{s: it.cur})
	}
}
