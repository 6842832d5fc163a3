package dictree

import "fmt"

type refKind uint8

const (
	refEmpty refKind = iota
	refNode
	refLeaf
)

// ref addresses a slot in one of the tree arenas. The zero value is empty.
type ref struct {
	kind refKind
	idx  uint32
}

var nullRef ref

func nodeRef(idx uint32) ref { return ref{kind: refNode, idx: idx} }

func leafRef(idx uint32) ref { return ref{kind: refLeaf, idx: idx} }

func (r ref) isEmpty() bool { return r.kind == refEmpty }

func (r ref) isNode() bool { return r.kind == refNode }

func (r ref) isLeaf() bool { return r.kind == refLeaf }

func (r ref) String() string {
	switch r.kind {
	case refNode:
		return fmt.Sprintf("node(%d)", r.idx)
	case refLeaf:
		return fmt.Sprintf("leaf(%d)", r.idx)
	default:
		return "empty"
	}
}
