package dictionary

import (
	"cmp"
	"strings"

	"github.com/bastiangx/hope/pkg/dictree"
)

type bitReader struct {
	codes []dictree.Code
	i     int
	bit   int
}

func (r *bitReader) next() (uint8, bool) {
	for r.i < len(r.codes) && r.bit >= int(r.codes[r.i].Len) {
		r.i++
		r.bit = 0
	}
	if r.i == len(r.codes) {
		return 0, false
	}
	b := r.codes[r.i].Bit(r.bit)
	r.bit++
	return b, true
}

// CompareCodes compares the concatenated bit strings of two encodings.
func CompareCodes(a, b []dictree.Code) int {
	ra, rb := bitReader{codes: a}, bitReader{codes: b}
	for {
		x, okA := ra.next()
		y, okB := rb.next()
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return -1
		case !okB:
			return 1
		case x != y:
			return cmp.Compare(x, y)
		}
	}
}

// Bits renders an encoding as a string of '0' and '1'.
func Bits(codes []dictree.Code) string {
	var sb strings.Builder
	sb.Grow(EncodedBits(codes))
	for _, c := range codes {
		sb.WriteString(c.String())
	}
	return sb.String()
}
