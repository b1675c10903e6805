// Package shard implements the partition unit of a LargeMap: a bounded,
// insertion-ordered map with an identity, a lifecycle state and operation
// counters.
//
// # Overview
//
// A LargeMap splits its key space by capacity, not by hash. Shards form an
// ordered sequence and a key lives in whichever shard it was first inserted
// into:
//
//	┌──────────┐   ┌──────────┐   ┌──────────┐
//	│ shard #0 │ ─►│ shard #1 │ ─►│ shard #4 │ ◄─ tail (active)
//	│  frozen  │   │  frozen  │   │  active  │
//	│  limit/L │   │  limit/L │   │   < L    │
//	└──────────┘   └──────────┘   └──────────┘
//
// Shard IDs come from a per-map counter, so they increase along the sequence
// even after compaction removed shards in between (#2 and #3 above).
//
// # States
//
// ShardStateActive: the tail; the only shard that receives new keys.
//
// ShardStateFrozen: a newer tail exists. Keys already resident here are still
// updated in place and may be deleted, but no new key lands here.
//
// ShardStateRetired: removed from the sequence, either because it became
// empty while not being the tail, or because Clear discarded it. A retired
// shard may still be referenced by an iterator or a ForEach callback.
//
// # Statistics
//
// Each shard counts Get/Has, Put and Delete calls routed to it. Because
// lookups scan the sequence, the Gets counter of an old frozen shard grows
// with every lookup that passes through it, which makes it a direct measure
// of scan cost.
//
// # Concurrency
//
// None. A Shard is owned by exactly one LargeMap and inherits its
// single-threaded contract.
//
// # See Also
//
//   - internal/storage: the OrderedMap backing each shard
//   - pkg/largemap: routing, overflow and compaction across shards
package shard
