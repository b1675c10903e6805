// Package largemap provides LargeMap, a generic key-value map that spreads
// its entries over an ordered sequence of capacity-bounded shards so that the
// total entry count is not limited by the capacity of any single map.
//
// # Overview
//
// To callers a LargeMap behaves like a map: Has, Get, Set, Delete, Clear, Len
// and ordered iteration. Internally it keeps a slice of shards, each allowed
// to grow up to a configured limit (DefaultLimit, 2^24, unless WithLimit is
// given):
//
//	         frozen              frozen              tail
//	┌──────────────────┐┌──────────────────┐┌──────────────────┐
//	│ shard 0          ││ shard 1          ││ shard 2          │
//	│ limit entries    ││ limit entries    ││ < limit entries  │
//	└──────────────────┘└──────────────────┘└──────────────────┘
//	  existing keys        existing keys       existing keys
//	  updated in place     updated in place    + every new key
//
// # Routing
//
// Set: if the tail already holds limit entries a new tail is appended first.
// Then every shard except the tail is searched for the key; a hit is updated
// in place, otherwise the key goes to the tail. Keys never move between
// shards.
//
// Get / Has: scan shards from first to last and stop at the first hit. Since
// a key lives in exactly one shard the scan order does not change the result.
//
// Delete: scan shards from last to first (recent keys are found sooner). If
// removing the key leaves a non-tail shard empty, that shard is dropped. The
// tail is never dropped, so a map always has at least one shard.
//
// Clear: keeps the tail, empties it and drops every other shard.
//
// # Iteration
//
// All, Keys and Values return range-over-func iterators; Iter returns a
// pull-style Iterator. Each traversal starts fresh and visits shards in
// sequence order, and the entries of a shard in insertion order (an update
// does not move a key). The three projections therefore line up pair by
// pair.
//
// ForEach visits the same entries in the same order and also passes a
// ShardView of the owning shard.
//
// Deleting entries during iteration is safe. Entries added during iteration
// may or may not be visited. Clear ends any iteration in progress.
//
// # Cost Model
//
//   - Has, Get, Set, Delete: O(shards)
//   - Len: O(shards), not cached
//   - Iteration: O(entries + shards)
//
// # Concurrency
//
// A LargeMap is not safe for concurrent use. Callers that share one between
// goroutines must serialise access themselves, for example with a
// sync.Mutex.
//
// # Logging
//
// Pass WithLogger to receive shard lifecycle events through an hclog.Logger:
// "appended tail shard" and "compacted empty shard" at Debug, "cleared map"
// at Trace. Nothing is logged per entry.
//
// # Usage Example
//
//	m, err := largemap.New[string, int](largemap.WithLimit(2))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m.Set("foo", 1)
//	m.Set("bar", 2)
//	m.Set("baz", 3) // tail is full: shard 1 is created
//
//	fmt.Println(m.Len(), m.ShardCount()) // 3 2
//
//	for k, v := range m.All() {
//	    fmt.Println(k, v) // foo 1, bar 2, baz 3
//	}
package largemap
