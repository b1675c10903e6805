package largemap

import (
	"iter"

	"github.com/dreamware/largemap/internal/shard"
)

// ShardView is a read-only handle on one shard, handed to ForEach callbacks
// so they can tell which partition an entry came from. Two views compare
// equal exactly when they refer to the same shard.
type ShardView[K comparable, V any] interface {
	// ID identifies the shard within its map. IDs increase along the
	// shard sequence and are never reused by the same map.
	ID() uint64

	// Len returns the number of entries in the shard.
	Len() int

	// Has reports whether the shard holds key.
	Has(key K) bool

	// Get returns the value the shard holds for key.
	Get(key K) (V, bool)

	// All yields the shard's entries in insertion order.
	All() iter.Seq2[K, V]
}

type shardView[K comparable, V any] struct {
	s *shard.Shard[K, V]
}

func (v shardView[K, V]) ID() uint64 { return v.s.ID }
func (v shardView[K, V]) Len() int { return v.s.Len() }
func (v shardView[K, V]) Has(key K) bool { return v.s.Has(key) }
func (v shardView[K, V]) Get(key K) (V, bool) { return v.s.Get(key) }
func (v shardView[K, V]) All() iter.Seq2[K, V] { return v.s.All() }

// ShardInfo is a point-in-time description of one shard.
type ShardInfo struct {
	Index   int    `json:"index" yaml:"index"`     // Position in the sequence
	ID      uint64 `json:"id" yaml:"id"`           // Shard identifier
	State   string `json:"state" yaml:"state"`     // active or frozen
	Len     int    `json:"len" yaml:"len"`         // Number of entries
	Gets    uint64 `json:"gets" yaml:"gets"`       // Get/Has probes routed here
	Puts    uint64 `json:"puts" yaml:"puts"`       // Writes landed here
	Deletes uint64 `json:"deletes" yaml:"deletes"` // Delete probes routed here
}

// Shards returns a snapshot of every shard in sequence order.
func (m *LargeMap[K, V]) Shards() []ShardInfo {
	infos := make([]ShardInfo, 0, len(m.shards))
	for i, s := range m.shards {
		info := s.Info()
		infos = append(infos, ShardInfo{
			Index:   i,
			ID:      info.ID,
			State:   string(info.State),
			Len:     info.KeyCount,
			Gets:    info.Ops.Gets,
			Puts:    info.Ops.Puts,
			Deletes: info.Ops.Deletes,
		})
	}
	return infos
}
