package dictree

// node48 indexes up to 48 children through a 256-entry slot table.
// Slot values are 1-based; zero means absent.
type node48 struct {
	index    [256]uint8
	children [48]ref
	present  bitmap256
	n        uint8
}

func (t *node48) kind() NodeKind { return KindNode48 }
func (t *node48) size() int { return int(t.n) }
func (t *node48) isFull() bool { return t.n == 48 }

func (t *node48) find(c byte) ref {
	if s := t.index[c]; s != 0 {
		return t.children[s-1]
	}
	return nullRef
}

func (t *node48) replace(c byte, r ref) bool {
	s := t.index[c]
	if s == 0 {
		return false
	}
	t.children[s-1] = r
	return true
}

func (t *node48) add(c byte, r ref) {
	t.children[t.n] = r
	t.n++
	t.index[c] = t.n
	t.present.set(c)
}

func (t *node48) at(c byte, ok bool) ref {
	if !ok {
		return nullRef
	}
	return t.children[t.index[c]-1]
}

func (t *node48) prev(c byte) ref { return t.at(t.present.below(c)) }
func (t *node48) next(c byte) ref { return t.at(t.present.above(c)) }
func (t *node48) first() ref { return t.at(t.present.first()) }
func (t *node48) last() ref { return t.at(t.present.last()) }

func (t *node48) grow() childTable {
	nt := &node256{}
	for c := 0; c < 256; c++ {
		if s := t.index[c]; s != 0 {
			nt.add(byte(c), t.children[s-1])
		}
	}
	return nt
}
