package dictree

type node4 struct {
	keys     [4]byte
	children [4]ref
	n        uint8
}

func (t *node4) kind() NodeKind { return KindNode4 }
func (t *node4) size() int { return int(t.n) }
func (t *node4) isFull() bool { return t.n == 4 }

func (t *node4) index(c byte) int {
	for i := 0; i < int(t.n); i++ {
		if t.keys[i] == c {
			return i
		}
	}
	return -1
}

func (t *node4) find(c byte) ref {
	if i := t.index(c); i >= 0 {
		return t.children[i]
	}
	return nullRef
}

func (t *node4) replace(c byte, r ref) bool {
	i := t.index(c)
	if i < 0 {
		return false
	}
	t.children[i] = r
	return true
}

func (t *node4) add(c byte, r ref) {
	i := int(t.n)
	for ; i > 0 && t.keys[i-1] > c; i-- {
		t.keys[i] = t.keys[i-1]
		t.children[i] = t.children[i-1]
	}
	t.keys[i] = c
	t.children[i] = r
	t.n++
}

func (t *node4) prev(c byte) ref {
	for i := int(t.n) - 1; i >= 0; i-- {
		if t.keys[i] < c {
			return t.children[i]
		}
	}
	return nullRef
}

func (t *node4) next(c byte) ref {
	for i := 0; i < int(t.n); i++ {
		if t.keys[i] > c {
			return t.children[i]
		}
	}
	return nullRef
}

func (t *node4) first() ref {
	if t.n == 0 {
		return nullRef
	}
	return t.children[0]
}

func (t *node4) last() ref {
	if t.n == 0 {
		return nullRef
	}
	return t.children[t.n-1]
}

func (t *node4) grow() childTable {
	nt := &node16{n: t.n}
	copy(nt.keys[:], t.keys[:t.n])
	copy(nt.children[:], t.children[:t.n])
	return nt
}
