package dictree

import "sort"

// node16 keeps keys sorted and searches them with a binary search.
type node16 struct {
	keys     [16]byte
	children [16]ref
	n        uint8
}

func (t *node16) kind() NodeKind { return KindNode16 }
func (t *node16) size() int { return int(t.n) }
func (t *node16) isFull() bool { return t.n == 16 }

// search returns the position of the first key >= c.
func (t *node16) search(c byte) int {
	return sort.Search(int(t.n), func(i int) bool { return t.keys[i] >= c })
}

func (t *node16) find(c byte) ref {
	if i := t.search(c); i < int(t.n) && t.keys[i] == c {
		return t.children[i]
	}
	return nullRef
}

func (t *node16) replace(c byte, r ref) bool {
	i := t.search(c)
	if i < int(t.n) && t.keys[i] == c {
		t.children[i] = r
		return true
	}
	return false
}

func (t *node16) add(c byte, r ref) {
	i := t.search(c)
	copy(t.keys[i+1:t.n+1], t.keys[i:t.n])
	copy(t.children[i+1:t.n+1], t.children[i:t.n])
	t.keys[i] = c
	t.children[i] = r
	t.n++
}

func (t *node16) prev(c byte) ref {
	if i := t.search(c); i > 0 {
		return t.children[i-1]
	}
	return nullRef
}

func (t *node16) next(c byte) ref {
	i := t.search(c)
	if i < int(t.n) && t.keys[i] == c {
		i++
	}
	if i < int(t.n) {
		return t.children[i]
	}
	return nullRef
}

func (t *node16) first() ref {
	if t.n == 0 {
		return nullRef
	}
	return t.children[0]
}

func (t *node16) last() ref {
	if t.n == 0 {
		return nullRef
	}
	return t.children[t.n-1]
}

func (t *node16) grow() childTable {
	nt := &node48{}
	for i := 0; i < int(t.n); i++ {
		nt.add(t.keys[i], t.children[i])
	}
	return nt
}
