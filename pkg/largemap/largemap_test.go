package largemap

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMap(t *testing.T, limit int) *LargeMap[string, int] {
	t.Helper()
	m, err := New[string, int](WithLimit(limit))
	require.NoError(t, err)
	return m
}

// TestNew verifies construction defaults and limit validation
func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		limit   int
		wantErr bool
	}{
		{name: "default limit", opts: nil, limit: DefaultLimit},
		{name: "explicit limit", opts: []Option{WithLimit(2)}, limit: 2},
		{name: "limit of one", opts: []Option{WithLimit(1)}, limit: 1},
		{name: "zero limit", opts: []Option{WithLimit(0)}, wantErr: true},
		{name: "negative limit", opts: []Option{WithLimit(-5)}, wantErr: true},
		{name: "last option wins", opts: []Option{WithLimit(-1), WithLimit(3)}, limit: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New[string, int](tt.opts...)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidConfiguration))
				assert.Nil(t, m)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.limit, m.Limit())
			assert.Equal(t, 0, m.Len())
			assert.Equal(t, 1, m.ShardCount())
		})
	}
}

// TestMustNew verifies MustNew panics only on invalid configuration
func TestMustNew(t *testing.T) {
	assert.NotPanics(t, func() {
		MustNew[int, int](WithLimit(10))
	})
	assert.Panics(t, func() {
		MustNew[int, int](WithLimit(0))
	})
}

// TestSet covers insertion and update behaviour
func TestSet(t *testing.T) {
	t.Run("add a new key-value pair", func(t *testing.T) {
		m := newTestMap(t, 2)
		m.Set("foo", 42)

		v, ok := m.Get("foo")
		assert.True(t, ok)
		assert.Equal(t, 42, v)
		assert.Equal(t, 1, m.Len())
	})

	t.Run("update an existing key", func(t *testing.T) {
		m := newTestMap(t, 2)
		m.Set("foo", 42)
		m.Set("foo", 24)

		v, _ := m.Get("foo")
		assert.Equal(t, 24, v)
		assert.Equal(t, 1, m.Len())
	})

	t.Run("overflow creates a second shard", func(t *testing.T) {
		m := newTestMap(t, 2)
		m.Set("foo", 1)
		m.Set("bar", 2)
		m.Set("baz", 3)

		assert.Equal(t, 3, m.Len())
		assert.Equal(t, 2, m.ShardCount())
		for k, want := range map[string]int{"foo": 1, "bar": 2, "baz": 3} {
			v, ok := m.Get(k)
			assert.True(t, ok, k)
			assert.Equal(t, want, v, k)
		}
	})

	t.Run("fourth key shares the second shard", func(t *testing.T) {
		m := newTestMap(t, 2)
		m.Set("foo", 1)
		m.Set("bar", 2)
		m.Set("baz", 3)
		m.Set("qux", 4)

		assert.Equal(t, 4, m.Len())
		assert.Equal(t, 2, m.ShardCount())
		v, _ := m.Get("qux")
		assert.Equal(t, 4, v)
	})

	t.Run("existing keys are updated in frozen shards", func(t *testing.T) {
		m := newTestMap(t, 2)
		m.Set("foo", 1)
		m.Set("bar", 2)
		m.Set("baz", 3)
		m.Set("qux", 4)

		// Tail is full: this appends a third shard, but foo stays in shard 0.
		m.Set("foo", 10)

		assert.Equal(t, 4, m.Len())
		assert.Equal(t, 3, m.ShardCount())

		shards := m.Shards()
		assert.Equal(t, 2, shards[0].Len)
		assert.Equal(t, 2, shards[1].Len)
		assert.Equal(t, 0, shards[2].Len)

		v, _ := m.Get("foo")
		assert.Equal(t, 10, v)
	})

	t.Run("limit of one gives one shard per key", func(t *testing.T) {
		m := newTestMap(t, 1)
		for i := 0; i < 5; i++ {
			m.Set(fmt.Sprint(i), i)
		}
		assert.Equal(t, 5, m.ShardCount())
		for _, info := range m.Shards() {
			assert.Equal(t, 1, info.Len)
		}
	})
}

// TestGetHas covers lookups
func TestGetHas(t *testing.T) {
	m := newTestMap(t, 2)

	v, ok := m.Get("foo")
	assert.False(t, ok)
	assert.Zero(t, v)
	assert.False(t, m.Has("foo"))

	m.Set("foo", 42)
	m.Set("bar", 0)
	m.Set("baz", 7)

	assert.True(t, m.Has("foo"))
	assert.True(t, m.Has("baz"))

	// A stored zero value is distinguishable from absence.
	v, ok = m.Get("bar")
	assert.True(t, ok)
	assert.Equal(t, 0, v)
}

// TestDelete covers removal and shard compaction
func TestDelete(t *testing.T) {
	t.Run("remove an existing key", func(t *testing.T) {
		m := newTestMap(t, 2)
		m.Set("foo", 42)

		assert.True(t, m.Delete("foo"))
		_, ok := m.Get("foo")
		assert.False(t, ok)
		assert.Equal(t, 0, m.Len())
	})

	t.Run("missing key", func(t *testing.T) {
		m := newTestMap(t, 2)
		assert.False(t, m.Delete("foo"))

		m.Set("foo", 1)
		assert.True(t, m.Delete("foo"))
		assert.False(t, m.Delete("foo"))
	})

	t.Run("emptied sole shard survives", func(t *testing.T) {
		m := newTestMap(t, 2)
		m.Set("foo", 1)
		m.Set("bar", 2)

		assert.True(t, m.Delete("foo"))
		assert.True(t, m.Delete("bar"))
		assert.Equal(t, 0, m.Len())
		assert.Equal(t, 1, m.ShardCount())
	})

	t.Run("emptied first shard is compacted", func(t *testing.T) {
		m := newTestMap(t, 2)
		m.Set("foo", 1)
		m.Set("bar", 2)
		m.Set("baz", 3)
		require.Equal(t, 2, m.ShardCount())

		assert.True(t, m.Delete("foo"))
		assert.Equal(t, 2, m.ShardCount())
		assert.True(t, m.Delete("bar"))
		assert.Equal(t, 1, m.ShardCount())

		v, ok := m.Get("baz")
		assert.True(t, ok)
		assert.Equal(t, 3, v)
	})

	t.Run("emptied tail is kept", func(t *testing.T) {
		m := newTestMap(t, 2)
		m.Set("foo", 1)
		m.Set("bar", 2)
		m.Set("baz", 3)

		assert.True(t, m.Delete("baz"))
		assert.Equal(t, 2, m.ShardCount())

		// The next new key still lands in the (empty) tail.
		m.Set("qux", 4)
		shards := m.Shards()
		require.Len(t, shards, 2)
		assert.Equal(t, 1, shards[1].Len)
	})

	t.Run("compacting a middle shard", func(t *testing.T) {
		m := newTestMap(t, 1)
		m.Set("a", 1)
		m.Set("b", 2)
		m.Set("c", 3)
		require.Equal(t, 3, m.ShardCount())

		assert.True(t, m.Delete("b"))
		assert.Equal(t, 2, m.ShardCount())

		ids := []uint64{}
		for _, info := range m.Shards() {
			ids = append(ids, info.ID)
		}
		assert.Equal(t, []uint64{0, 2}, ids)
	})
}

// TestClear covers resetting the map
func TestClear(t *testing.T) {
	m := newTestMap(t, 2)
	keys := []string{"a", "b", "c", "d", "e"}
	for i, k := range keys {
		m.Set(k, i)
	}
	require.Equal(t, 3, m.ShardCount())
	tailID := m.Shards()[2].ID

	m.Clear()

	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 1, m.ShardCount())
	for _, k := range keys {
		assert.False(t, m.Has(k), k)
	}
	assert.Equal(t, tailID, m.Shards()[0].ID, "Clear keeps the tail shard")
	assert.Equal(t, "active", m.Shards()[0].State)

	// Usable afterwards with the same limit.
	m.Set("x", 1)
	m.Set("y", 2)
	m.Set("z", 3)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, 2, m.ShardCount())

	// Clearing an empty map is a no-op.
	empty := newTestMap(t, 2)
	empty.Clear()
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, 1, empty.ShardCount())
}

// TestShardStates verifies tail and frozen shard bookkeeping
func TestShardStates(t *testing.T) {
	m := newTestMap(t, 2)
	for i := 0; i < 5; i++ {
		m.Set(fmt.Sprint(i), i)
	}

	shards := m.Shards()
	require.Len(t, shards, 3)
	for i, info := range shards {
		assert.Equal(t, i, info.Index)
		if i == len(shards)-1 {
			assert.Equal(t, "active", info.State)
		} else {
			assert.Equal(t, "frozen", info.State)
		}
	}
	assert.Equal(t, uint64(2), shards[0].Puts)
}

// TestString verifies the Stringer output
func TestString(t *testing.T) {
	m := newTestMap(t, 2)
	m.Set("foo", 1)
	m.Set("bar", 2)
	m.Set("baz", 3)

	assert.Equal(t, "LargeMap(len=3, shards=2, limit=2)", m.String())
	assert.Equal(t, "LargeMap(len=3, shards=2, limit=2)", fmt.Sprint(m))
}

// TestLogger verifies lifecycle events reach the configured logger
func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "test",
		Level:  hclog.Trace,
		Output: &buf,
	})

	m, err := New[string, int](WithLimit(1), WithLogger(logger))
	require.NoError(t, err)

	m.Set("a", 1)
	m.Set("b", 2)
	assert.Contains(t, buf.String(), "appended tail shard")

	m.Delete("a")
	assert.Contains(t, buf.String(), "compacted empty shard")

	m.Clear()
	assert.Contains(t, buf.String(), "cleared map")
}

// TestWithNilLogger verifies a nil logger falls back to the null logger
func TestWithNilLogger(t *testing.T) {
	m, err := New[int, int](WithLimit(1), WithLogger(nil))
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		m.Set(1, 1)
		m.Set(2, 2)
		m.Delete(1)
		m.Clear()
	})
}

// TestRandomOperations compares a LargeMap against a plain map under a
// random workload and checks the structural invariants after every step.
func TestRandomOperations(t *testing.T) {
	for _, limit := range []int{1, 2, 3, 8, 64} {
		t.Run(fmt.Sprintf("limit=%d", limit), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(uint64(limit), 42))
			m := MustNew[int, int](WithLimit(limit))
			model := make(map[int]int)

			for step := 0; step < 2000; step++ {
				key := rng.IntN(100)
				switch op := rng.IntN(10); {
				case op < 6:
					m.Set(key, step)
					model[key] = step
				case op < 9:
					_, want := model[key]
					assert.Equal(t, want, m.Delete(key))
					delete(model, key)
				default:
					if rng.IntN(20) == 0 {
						m.Clear()
						clear(model)
					}
				}

				checkInvariants(t, m, model, limit)
				if t.Failed() {
					t.Fatalf("invariants broken at step %d", step)
				}
			}
		})
	}
}

func checkInvariants(t *testing.T, m *LargeMap[int, int], model map[int]int, limit int) {
	t.Helper()

	assert.Equal(t, len(model), m.Len())
	require.GreaterOrEqual(t, m.ShardCount(), 1)

	shards := m.Shards()
	for i, info := range shards[:len(shards)-1] {
		assert.NotZero(t, info.Len, "non-tail shard %d is empty", i)
		assert.LessOrEqual(t, info.Len, limit)
	}
	assert.LessOrEqual(t, shards[len(shards)-1].Len, limit)
	for i := 1; i < len(shards); i++ {
		assert.Less(t, shards[i-1].ID, shards[i].ID)
	}

	seen := make(map[int]uint64)
	m.ForEach(func(value, key int, s ShardView[int, int]) {
		if prev, dup := seen[key]; dup {
			t.Errorf("key %d present in shards %d and %d", key, prev, s.ID())
		}
		seen[key] = s.ID()
		assert.Equal(t, model[key], value)
	})
	assert.Len(t, seen, len(model))

	for k, want := range model {
		got, ok := m.Get(k)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}
}
