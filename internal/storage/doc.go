// Package storage provides the bounded map primitive that backs every shard
// of a LargeMap.
//
// # Overview
//
// A LargeMap never talks to a Go map directly. Each shard owns a Store, and
// the only implementation today is OrderedMap: a Go map that indexes a doubly
// linked list of entries, giving three properties the shard layer relies on:
//
//   - O(1) Get, Has, Put and Delete
//   - Deterministic iteration in insertion order; overwriting a key keeps
//     its original position
//   - Cursors that survive deletion of the entry they are parked on
//
// # Layout
//
//	index: map[K]*entry
//	         │
//	         ▼
//	head ─► [k1,v1] ◄─► [k2,v2] ◄─► [k3,v3] ◄─ tail
//
// Deleting an entry unlinks it from its neighbours but leaves its own next
// pointer in place, so a Cursor positioned on it can still walk forward to
// the next live entry.
//
// # Iteration Order
//
// Go maps randomise iteration order on every range. Shards need the opposite:
// All, Keys and Values on a LargeMap must produce mutually consistent
// sequences for the same state, and two traversals without intervening
// writes must agree. The linked list provides that order.
//
// # Concurrency
//
// Nothing in this package is safe for concurrent use. Callers serialise
// access externally.
//
// # Usage Example
//
//	m := storage.NewOrderedMap[string, int]()
//	m.Put("a", 1)
//	m.Put("b", 2)
//	m.Put("a", 3) // updates in place, "a" stays first
//
//	for k, v := range m.All() {
//	    fmt.Println(k, v) // a 3, then b 2
//	}
package storage
