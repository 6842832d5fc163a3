package dictree

type node256 struct {
	children [256]ref
	present  bitmap256
	n        uint16
}

func (t *node256) kind() NodeKind { return KindNode256 }
func (t *node256) size() int { return int(t.n) }
func (t *node256) isFull() bool { return false }

func (t *node256) find(c byte) ref { return t.children[c] }

func (t *node256) replace(c byte, r ref) bool {
	if !t.present.test(c) {
		return false
	}
	t.children[c] = r
	return true
}

func (t *node256) add(c byte, r ref) {
	t.children[c] = r
	t.present.set(c)
	t.n++
}

func (t *node256) at(c byte, ok bool) ref {
	if !ok {
		return nullRef
	}
	return t.children[c]
}

func (t *node256) prev(c byte) ref { return t.at(t.present.below(c)) }
func (t *node256) next(c byte) ref { return t.at(t.present.above(c)) }
func (t *node256) first() ref { return t.at(t.present.first()) }
func (t *node256) last() ref { return t.at(t.present.last()) }

func (t *node256) grow() childTable { panic("dictree: node256 cannot grow") }
