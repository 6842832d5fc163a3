package selector

// DoubleChar partitions the space into, for every byte c, the interval
// holding exactly "c" followed by one interval per two-byte string "cd".
type DoubleChar struct{}

const doubleStride = 257

func doubleIndex(c, d byte, pair bool) int {
	if !pair {
		return int(c) * doubleStride
	}
	return int(c)*doubleStride + 1 + int(d)
}

func (DoubleChar) Select(keys []string, _ int) ([]SymbolFreq, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyKeys
	}
	out := make([]SymbolFreq, 256*doubleStride)
	for c := 0; c < 256; c++ {
		out[doubleIndex(byte(c), 0, false)] = SymbolFreq{Symbol: string([]byte{byte(c)}), Freq: 1}
		for d := 0; d < 256; d++ {
			out[doubleIndex(byte(c), byte(d), true)] = SymbolFreq{Symbol: string([]byte{byte(c), byte(d)}), Freq: 1}
		}
	}
	for _, key := range keys {
		pos := 0
		for ; pos+1 < len(key); pos += 2 {
			out[doubleIndex(key[pos], key[pos+1], true)].Freq++
		}
		if pos < len(key) {
			out[doubleIndex(key[pos], 0, false)].Freq++
		}
	}
	return out, nil
}
