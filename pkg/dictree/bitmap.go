package dictree

import "math/bits"

// bitmap256 records which child keys are present in node48 and node256.
type bitmap256 [4]uint64

func (b *bitmap256) set(c byte) { b[c>>6] |= 1 << (c & 63) }

func (b *bitmap256) test(c byte) bool { return b[c>>6]&(1<<(c&63)) != 0 }

// below returns the largest present key strictly less than c.
func (b *bitmap256) below(c byte) (byte, bool) {
	w := int(c >> 6)
	if m := b[w] & (1<<(c&63) - 1); m != 0 {
		return byte(w<<6 + 63 - bits.LeadingZeros64(m)), true
	}
	for w--; w >= 0; w-- {
		if b[w] != 0 {
			return byte(w<<6 + 63 - bits.LeadingZeros64(b[w])), true
		}
	}
	return 0, false
}

// above returns the smallest present key strictly greater than c.
func (b *bitmap256) above(c byte) (byte, bool) {
	w := int(c >> 6)
	if c&63 != 63 {
		if m := b[w] &^ (1<<(c&63+1) - 1); m != 0 {
			return byte(w<<6 + bits.TrailingZeros64(m)), true
		}
	}
	for w++; w < 4; w++ {
		if b[w] != 0 {
			return byte(w<<6 + bits.TrailingZeros64(b[w])), true
		}
	}
	return 0, false
}

func (b *bitmap256) first() (byte, bool) {
	for w := 0; w < 4; w++ {
		if b[w] != 0 {
			return byte(w<<6 + bits.TrailingZeros64(b[w])), true
		}
	}
	return 0, false
}

func (b *bitmap256) last() (byte, bool) {
	for w := 3; w >= 0; w-- {
		if b[w] != 0 {
			return byte(w<<6 + 63 - bits.LeadingZeros64(b[w])), true
		}
	}
	return 0, false
}
