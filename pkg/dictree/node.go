package dictree

const maxPrefixLen = 10

// NodeKind names the size class of an inner node.
type NodeKind uint8

const (
	KindNode4 NodeKind = iota
	KindNode16
	KindNode48
	KindNode256
)

func (k NodeKind) String() string {
	switch k {
	case KindNode4:
		return "node4"
	case KindNode16:
		return "node16"
	case KindNode48:
		return "node48"
	case KindNode256:
		return "node256"
	default:
		return "unknown"
	}
}

// childTable maps single key bytes to child refs in ascending key order.
type childTable interface {
	kind() NodeKind
	size() int
	isFull() bool
	grow() childTable
	find(c byte) ref
	// replace swaps the child stored under c and reports whether c was present.
	replace(c byte, r ref) bool
	// add stores a new key. The table must not be full and must not hold c.
	add(c byte, r ref)
	prev(c byte) ref
	next(c byte) ref
	first() ref
	last() ref
}

// node is an inner node of the dictionary tree. Its child table grows in
// place, so a node keeps its arena index for its whole life.
type node struct {
	prefix    [maxPrefixLen]byte
	prefixLen uint8
	leaf      ref
	children  childTable
}

func newNode(prefix []byte, table childTable) *node {
	n := &node{children: table}
	n.setPrefix(prefix)
	return n
}

func (n *node) getPrefix() []byte { return n.prefix[:n.prefixLen] }

func (n *node) setPrefix(p []byte) {
	if len(p) > maxPrefixLen {
		p = p[:maxPrefixLen]
	}
	n.prefixLen = uint8(copy(n.prefix[:], p))
}

func (n *node) prefixLeaf() ref { return n.leaf }

func (n *node) setPrefixLeaf(r ref) { n.leaf = r }

// matchPrefix returns how many prefix bytes agree with key from depth on.
func matchPrefix[K ~string | ~[]byte](n *node, key K, depth int) int {
	i := 0
	for ; i < int(n.prefixLen) && depth+i < len(key); i++ {
		if key[depth+i] != n.prefix[i] {
			break
		}
	}
	return i
}

func (n *node) child(c byte) ref { return n.children.find(c) }

func (n *node) prevChild(c byte) ref { return n.children.prev(c) }

func (n *node) nextChild(c byte) ref { return n.children.next(c) }

func (n *node) firstChild() ref { return n.children.first() }

func (n *node) lastChild() ref { return n.children.last() }

// insert adds or replaces the child under c. When the table had to grow it
// returns the old and new size classes.
func (n *node) insert(c byte, r ref) (grown bool, from, to NodeKind) {
	if n.children.replace(c, r) {
		return false, 0, 0
	}
	if n.children.isFull() {
		from = n.children.kind()
		n.children = n.children.grow()
		grown, to = true, n.children.kind()
	}
	n.children.add(c, r)
	return grown, from, to
}
