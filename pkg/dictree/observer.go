package dictree

// Observer receives node allocation events while a tree is built.
type Observer interface {
	NodeAdded(kind NodeKind)
	NodeGrown(from, to NodeKind)
}

// Stats reports live node counts per size class and the number of leaves.
type Stats struct {
	Node4   int `msgpack:"n4"`
	Node16  int `msgpack:"n16"`
	Node48  int `msgpack:"n48"`
	Node256 int `msgpack:"n256"`
	Leaves  int `msgpack:"leaves"`
}

// Nodes returns the total number of inner nodes.
func (s Stats) Nodes() int { return s.Node4 + s.Node16 + s.Node48 + s.Node256 }

func (s *Stats) inc(kind NodeKind, delta int) {
	switch kind {
	case KindNode4:
		s.Node4 += delta
	case KindNode16:
		s.Node16 += delta
	case KindNode48:
		s.Node48 += delta
	case KindNode256:
		s.Node256 += delta
	}
}

// Counter is an Observer that keeps per-class counts. Counts accumulate
// across builds; call Reset before rebuilding a tree.
type Counter struct {
	stats Stats
}

func (c *Counter) NodeAdded(kind NodeKind) { c.stats.inc(kind, 1) }

func (c *Counter) NodeGrown(from, to NodeKind) {
	c.stats.inc(from, -1)
	c.stats.inc(to, 1)
}

// Counts returns the counts seen so far. Leaves is always zero.
func (c *Counter) Counts() Stats { return c.stats }

// Reset zeroes the counts.
func (c *Counter) Reset() { c.stats = Stats{} }

type nopObserver struct{}

func (nopObserver) NodeAdded(NodeKind) {}
func (nopObserver) NodeGrown(NodeKind, NodeKind) {}
