// Package dictree implements the dictionary tree of the order-preserving
// encoder: an adaptive radix tree keyed by dictionary symbols that maps any
// byte string to the code of the dictionary interval containing it.
//
// Every symbol starts an interval that runs up to the next symbol. A lookup
// returns the code of the interval together with the number of leading
// query bytes the code stands for, so an encoder can advance past them and
// look up the rest.
package dictree

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyDictionary = errors.New("dictree: empty dictionary")
	ErrUnsorted        = errors.New("dictree: symbols not strictly ascending")
)

// Tree is the dictionary tree. It is built once by Build and is safe for
// concurrent lookups afterwards.
type Tree struct {
	nodes   []*node
	leaves  []LeafInfo
	symbols []SymbolCode
	root    uint32
	obs     Observer
}

// Option configures a Tree.
type Option func(*Tree)

// WithObserver reports node allocations to o.
func WithObserver(o Observer) Option {
	return func(t *Tree) {
		if o != nil {
			t.obs = o
		}
	}
}

// New returns an empty tree. Lookups on it return the zero Code.
func New(opts ...Option) *Tree {
	t := &Tree{obs: nopObserver{}}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tree) reset() {
	t.nodes = t.nodes[:0:0]
	t.leaves = nil
	t.symbols = nil
	t.root = t.newNode(nil, &node256{})
}

func (t *Tree) newNode(prefix []byte, table childTable) uint32 {
	if table == nil {
		table = &node4{}
	}
	idx := uint32(len(t.nodes))
	t.nodes = append(t.nodes, newNode(prefix, table))
	t.obs.NodeAdded(table.kind())
	return idx
}

func (t *Tree) setChild(idx uint32, c byte, r ref) {
	if grown, from, to := t.nodes[idx].insert(c, r); grown {
		t.obs.NodeGrown(from, to)
	}
}

// Build replaces the tree contents with list, which must be non-empty and
// strictly ascending by symbol.
func (t *Tree) Build(list []SymbolCode) error {
	if len(list) == 0 {
		return ErrEmptyDictionary
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].Symbol >= list[i].Symbol {
			return fmt.Errorf("%w: %q follows %q at %d", ErrUnsorted, list[i].Symbol, list[i-1].Symbol, i)
		}
	}

	t.reset()
	t.symbols = append([]SymbolCode(nil), list...)
	t.leaves = make([]LeafInfo, len(list))
	last := len(list) - 1
	for i := range t.symbols {
		lf := &t.leaves[i]
		lf.SymbolCode = &t.symbols[i]
		if i > 0 {
			lf.prev = &t.leaves[i-1]
		}
		if i < last {
			lf.PrefixLen = intervalPrefixLen(t.symbols[i].Symbol, t.symbols[i+1].Symbol)
		} else {
			lf.PrefixLen = 1
		}
		t.insert(uint32(i))
	}
	return nil
}

func (t *Tree) insert(li uint32) {
	key := t.symbols[li].Symbol
	val := leafRef(li)

	var parent uint32
	var parentKey byte
	cur := t.root
	depth := 0
	for {
		n := t.nodes[cur]
		matched := matchPrefix(n, key, depth)
		if matched < int(n.prefixLen) {
			t.spawn(parent, parentKey, cur, key, depth, matched, val)
			return
		}
		depth += matched
		if depth == len(key) {
			n.setPrefixLeaf(val)
			return
		}

		c := key[depth]
		next := n.child(c)
		switch {
		case next.isEmpty():
			t.addLeaf(cur, key, depth, val)
			return
		case next.isLeaf():
			idx := t.newNode(nil, nil)
			t.nodes[idx].setPrefixLeaf(next)
			t.setChild(cur, c, nodeRef(idx))
			t.addLeaf(idx, key, depth+1, val)
			return
		}
		parent, parentKey = cur, c
		cur = next.idx
		depth++
	}
}

// addLeaf hangs val below node at, starting at key[depth]. Remainders longer
// than maxPrefixLen are chained through single-child nodes.
func (t *Tree) addLeaf(at uint32, key string, depth int, val ref) {
	for {
		if depth == len(key) {
			t.nodes[at].setPrefixLeaf(val)
			return
		}
		c := key[depth]
		if depth == len(key)-1 {
			t.setChild(at, c, val)
			return
		}
		rest := key[depth+1:]
		prefix := rest[:min(len(rest), maxPrefixLen)]
		chain := t.newNode([]byte(prefix), nil)
		t.setChild(at, c, nodeRef(chain))
		at, depth = chain, depth+1+len(prefix)
	}
}

// spawn splits node old whose prefix diverges from key after matched bytes.
func (t *Tree) spawn(parent uint32, parentKey byte, old uint32, key string, depth, matched int, val ref) {
	on := t.nodes[old]
	split := t.newNode(on.getPrefix()[:matched], nil)
	t.addLeaf(split, key, depth+matched, val)
	t.setChild(split, on.prefix[matched], nodeRef(old))
	on.setPrefix(on.getPrefix()[matched+1:])
	t.setChild(parent, parentKey, nodeRef(split))
}

// Lookup returns the code of the interval containing query and the number
// of leading query bytes it covers.
func (t *Tree) Lookup(query []byte) (Code, int) { return lookup(t, query) }

// LookupString is Lookup for a string query.
func (t *Tree) LookupString(query string) (Code, int) { return lookup(t, query) }

func lookup[K ~string | ~[]byte](t *Tree, q K) (Code, int) {
	if len(t.leaves) == 0 {
		return Code{}, 0
	}
	cur := t.root
	depth := 0
	for {
		n := t.nodes[cur]
		matched := matchPrefix(n, q, depth)
		if matched < int(n.prefixLen) {
			if d := depth + matched; d == len(q) || q[d] < n.prefix[matched] {
				return answer(t, t.leftmost(nodeRef(cur)).prev, q)
			}
			return answer(t, t.rightmost(nodeRef(cur)), q)
		}
		depth += matched
		if depth == len(q) {
			if lf := n.prefixLeaf(); !lf.isEmpty() {
				return answer(t, t.leaf(lf), q)
			}
			return answer(t, t.leftmost(nodeRef(cur)).prev, q)
		}

		c := q[depth]
		next := n.child(c)
		switch {
		case next.isLeaf():
			return answer(t, t.leaf(next), q)
		case next.isNode():
			cur = next.idx
			depth++
			continue
		}
		if p := n.prevChild(c); !p.isEmpty() {
			return answer(t, t.rightmost(p), q)
		}
		if nx := n.nextChild(c); !nx.isEmpty() {
			return answer(t, t.leftmost(nx).prev, q)
		}
		if lf := n.prefixLeaf(); !lf.isEmpty() {
			return answer(t, t.leaf(lf), q)
		}
		panic(fmt.Sprintf("dictree: node %d has no children and no prefix leaf", cur))
	}
}

func answer[K ~string | ~[]byte](t *Tree, lf *LeafInfo, q K) (Code, int) {
	if lf == nil {
		return t.leaves[0].SymbolCode.Code, 0
	}
	n := lf.PrefixLen
	if lf.SymbolCode.Symbol == string(q) {
		n = len(q)
	}
	return lf.SymbolCode.Code, min(n, len(q))
}

func (t *Tree) leaf(r ref) *LeafInfo {
	if !r.isLeaf() {
		panic(fmt.Sprintf("dictree: expected leaf, got %s", r))
	}
	return &t.leaves[r.idx]
}

// leftmost returns the smallest leaf under r.
func (t *Tree) leftmost(r ref) *LeafInfo {
	for {
		switch {
		case r.isLeaf():
			return t.leaf(r)
		case r.isEmpty():
			panic("dictree: empty subtree")
		}
		n := t.nodes[r.idx]
		if lf := n.prefixLeaf(); !lf.isEmpty() {
			return t.leaf(lf)
		}
		r = n.firstChild()
	}
}

// rightmost returns the largest leaf under r.
func (t *Tree) rightmost(r ref) *LeafInfo {
	for {
		switch {
		case r.isLeaf():
			return t.leaf(r)
		case r.isEmpty():
			panic("dictree: empty subtree")
		}
		n := t.nodes[r.idx]
		if c := n.lastChild(); !c.isEmpty() {
			r = c
			continue
		}
		r = n.prefixLeaf()
	}
}

// Len returns the number of dictionary entries.
func (t *Tree) Len() int { return len(t.leaves) }

// Leaves returns the leaf records in symbol order.
func (t *Tree) Leaves() []LeafInfo { return t.leaves }

// Stats counts the live nodes per size class.
func (t *Tree) Stats() Stats {
	s := Stats{Leaves: len(t.leaves)}
	for _, n := range t.nodes {
		s.inc(n.children.kind(), 1)
	}
	return s
}
