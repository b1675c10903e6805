package storage

import "iter"

// Store defines the key-value operations a shard needs from its backing map.
// Implementations are not safe for concurrent use.
type Store[K comparable, V any] interface {
	// Get retrieves a value by key
	// The boolean is false if the key doesn't exist
	Get(key K) (V, bool)

	// Has reports whether the key exists
	Has(key K) bool

	// Put stores a value with the given key
	// Returns true if the key was not present before
	Put(key K, value V) bool

	// Delete removes a key-value pair
	// Returns false if the key doesn't exist
	Delete(key K) bool

	// Len returns the number of keys in the store
	Len() int

	// Clear removes every entry
	Clear()

	// All yields entries in the store's iteration order
	All() iter.Seq2[K, V]

	// Stats returns storage statistics
	Stats() StoreStats
}

// StoreStats contains statistics about the store
type StoreStats struct {
	Keys       int    // Number of keys
	Generation uint64 // Bumped by every Clear
}

// entry is a node of the insertion-order list.
// A removed entry keeps its next pointer so that a cursor parked on it can
// still move forward.
type entry[K comparable, V any] struct {
	key     K
	value   V
	prev    *entry[K, V]
	next    *entry[K, V]
	removed bool
}

// OrderedMap implements Store with a Go map indexing a doubly linked list.
// Iteration follows insertion order; overwriting a key keeps its position.
type OrderedMap[K comparable, V any] struct {
	index map[K]*entry[K, V] // Key -> list node
	head  *entry[K, V]       // Oldest live entry
	tail  *entry[K, V]       // Newest live entry
	gen   uint64             // Invalidates cursors on Clear
}

// NewOrderedMap creates an empty ordered map
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{
		index: make(map[K]*entry[K, V]),
	}
}

// Get retrieves a value by key
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	e, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Has reports whether the key exists
func (m *OrderedMap[K, V]) Has(key K) bool {
	_, ok := m.index[key]
	return ok
}

// Put stores a value with the given key.
// New keys are appended at the end of the iteration order.
func (m *OrderedMap[K, V]) Put(key K, value V) bool {
	if e, ok := m.index[key]; ok {
		e.value = value
		return false
	}

	e := &entry[K, V]{key: key, value: value, prev: m.tail}
	if m.tail != nil {
		m.tail.next = e
	} else {
		m.head = e
	}
	m.tail = e
	m.index[key] = e
	return true
}

// Delete removes a key-value pair
func (m *OrderedMap[K, V]) Delete(key K) bool {
	e, ok := m.index[key]
	if !ok {
		return false
	}
	delete(m.index, key)

	if e.prev != nil {
		e.prev.next = e.next
	} else {
		m.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		m.tail = e.prev
	}

	// Keep e.next so parked cursors can resume.
	e.prev = nil
	e.removed = true
	return true
}

// Len returns the number of keys in the map
func (m *OrderedMap[K, V]) Len() int {
	return len(m.index)
}

// Clear removes every entry and invalidates outstanding cursors
func (m *OrderedMap[K, V]) Clear() {
	clear(m.index)
	m.head = nil
	m.tail = nil
	m.gen++
}

// All yields entries in insertion order
func (m *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		c := m.Cursor()
		for c.Next() {
			if !yield(c.Key(), c.Value()) {
				return
			}
		}
	}
}

// Stats returns storage statistics
func (m *OrderedMap[K, V]) Stats() StoreStats {
	return StoreStats{
		Keys:       len(m.index),
		Generation: m.gen,
	}
}

// Cursor returns a cursor positioned before the first entry
func (m *OrderedMap[K, V]) Cursor() *Cursor[K, V] {
	return &Cursor[K, V]{m: m, gen: m.gen}
}

// Cursor walks an OrderedMap in insertion order.
//
// Deleting entries while a cursor is live is safe: removed entries are
// skipped. Entries appended after the cursor was created are visited if the
// cursor has not yet passed the tail. Clear ends the walk.
type Cursor[K comparable, V any] struct {
	m       *OrderedMap[K, V]
	cur     *entry[K, V]
	gen     uint64
	started bool
	done    bool
}

// Next advances to the next live entry and reports whether one exists
func (c *Cursor[K, V]) Next() bool {
	if c.done {
		return false
	}
	if c.gen != c.m.gen {
		c.finish()
		return false
	}

	var e *entry[K, V]
	switch {
	case !c.started:
		c.started = true
		e = c.m.head
	case c.cur != nil:
		e = c.cur.next
	}
	for e != nil && e.removed {
		e = e.next
	}

	if e == nil {
		// Stay parked on the last live entry so later appends are reachable.
		if c.cur == nil || c.cur.removed {
			c.finish()
		}
		return false
	}
	c.cur = e
	return true
}

func (c *Cursor[K, V]) finish() {
	c.done = true
	c.cur = nil
}

// Key returns the key at the cursor position
func (c *Cursor[K, V]) Key() K {
	if c.cur == nil {
		var zero K
		return zero
	}
	return c.cur.key
}

// Value returns the value at the cursor position
func (c *Cursor[K, V]) Value() V {
	if c.cur == nil {
		var zero V
		return zero
	}
	return c.cur.value
}

var _ Store[string, int] = (*OrderedMap[string, int])(nil)
