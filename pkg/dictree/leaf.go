package dictree

import (
	"cmp"
	"strings"
)

// Code is an order-preserving binary code of Len bits, most significant
// bit first. Value holds the code in its low Len bits.
type Code struct {
	Value uint64
	Len   uint8
}

// Compare orders two codes as bit strings. A proper prefix sorts first.
func (c Code) Compare(o Code) int {
	n := min(c.Len, o.Len)
	a := c.Value >> (c.Len - n)
	b := o.Value >> (o.Len - n)
	if a != b {
		return cmp.Compare(a, b)
	}
	return cmp.Compare(c.Len, o.Len)
}

// Bit returns bit i counted from the most significant end.
func (c Code) Bit(i int) uint8 {
	return uint8(c.Value>>(int(c.Len)-1-i)) & 1
}

func (c Code) String() string {
	var sb strings.Builder
	sb.Grow(int(c.Len))
	for i := 0; i < int(c.Len); i++ {
		sb.WriteByte('0' + c.Bit(i))
	}
	return sb.String()
}

// SymbolCode is one dictionary entry handed to Build.
type SymbolCode struct {
	Symbol string
	Code   Code
}

// LeafInfo describes the interval that starts at one dictionary symbol.
type LeafInfo struct {
	// SymbolCode points into the tree's copy of the entry list.
	SymbolCode *SymbolCode
	// PrefixLen is the number of leading bytes shared by every string in
	// the interval.
	PrefixLen int
	prev      *LeafInfo
}

// Prev returns the leaf of the preceding symbol, or nil for the first one.
func (l *LeafInfo) Prev() *LeafInfo { return l.prev }

func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// prevString returns a string that sorts immediately before s: trailing
// zero bytes are dropped, otherwise the last byte is decremented. An empty
// or all-zero s has no such string.
func prevString(s string) (string, bool) {
	end := len(s)
	for end > 0 && s[end-1] == 0 {
		end--
	}
	if end == 0 {
		return "", false
	}
	if end < len(s) {
		return s[:end], true
	}
	b := []byte(s)
	b[end-1]--
	return string(b), true
}

// intervalPrefixLen computes the prefix length of the interval [sym, next).
func intervalPrefixLen(sym, next string) int {
	p, ok := prevString(next)
	if !ok {
		return len(sym)
	}
	return commonPrefixLen(sym, p)
}
