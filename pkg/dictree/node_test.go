package dictree

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

// checkTable compares a child table against the sorted list of keys it holds.
// Each key c is stored as leafRef(c).
func checkTable(t *testing.T, table childTable, keys []byte) {
	t.Helper()
	require.Equal(t, len(keys), table.size())

	has := make(map[byte]bool, len(keys))
	for _, k := range keys {
		has[k] = true
	}
	for c := 0; c < 256; c++ {
		b := byte(c)
		if has[b] {
			require.Equal(t, leafRef(uint32(b)), table.find(b))
		} else {
			require.True(t, table.find(b).isEmpty())
		}

		wantPrev, wantNext := nullRef, nullRef
		for _, k := range keys {
			if k < b {
				wantPrev = leafRef(uint32(k))
			}
			if k > b && wantNext.isEmpty() {
				wantNext = leafRef(uint32(k))
			}
		}
		require.Equal(t, wantPrev, table.prev(b), "prev(%d)", c)
		require.Equal(t, wantNext, table.next(b), "next(%d)", c)
	}
	if len(keys) > 0 {
		require.Equal(t, leafRef(uint32(keys[0])), table.first())
		require.Equal(t, leafRef(uint32(keys[len(keys)-1])), table.last())
	}
}

func TestChildTablesGrow(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	n := &node{children: &node4{}}
	var keys []byte
	kinds := map[int]NodeKind{4: KindNode4, 16: KindNode16, 48: KindNode48, 256: KindNode256}

	for _, c := range rng.Perm(256) {
		b := byte(c)
		n.insert(b, leafRef(uint32(b)))
		keys = append(keys, b)
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		if kind, ok := kinds[len(keys)]; ok {
			require.Equal(t, kind, n.children.kind())
			checkTable(t, n.children, keys)
		}
	}
}

func TestNodeInsertReplaces(t *testing.T) {
	for _, table := range []childTable{&node4{}, &node16{}, &node48{}, &node256{}} {
		n := &node{children: table}
		n.insert('a', leafRef(1))
		grown, _, _ := n.insert('a', leafRef(2))
		require.False(t, grown)
		require.Equal(t, leafRef(2), n.child('a'))
		require.Equal(t, 1, n.children.size())
	}
}

func TestNodePrefixTrim(t *testing.T) {
	n := newNode([]byte("abcdefghijklmnop"), nil)
	require.Equal(t, []byte("abcdefghij"), n.getPrefix())
	n.setPrefix(n.getPrefix()[3:])
	require.Equal(t, []byte("defghij"), n.getPrefix())
	require.Equal(t, 3, matchPrefix(n, "xxdefz", 2))
}

func TestBitmap(t *testing.T) {
	var b bitmap256
	for _, c := range []byte{0, 63, 64, 200, 255} {
		b.set(c)
	}
	c, ok := b.below(64)
	require.True(t, ok)
	require.Equal(t, byte(63), c)
	c, ok = b.above(64)
	require.True(t, ok)
	require.Equal(t, byte(200), c)
	_, ok = b.below(0)
	require.False(t, ok)
	_, ok = b.above(255)
	require.False(t, ok)
	c, _ = b.first()
	require.Equal(t, byte(0), c)
	c, _ = b.last()
	require.Equal(t, byte(255), c)
}
