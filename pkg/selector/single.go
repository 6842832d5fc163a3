package selector

// SingleChar partitions the space into the 256 one-byte intervals.
type SingleChar struct{}

func (SingleChar) Select(keys []string, _ int) ([]SymbolFreq, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyKeys
	}
	var counts [256]int64
	for _, key := range keys {
		for i := 0; i < len(key); i++ {
			counts[key[i]]++
		}
	}
	out := make([]SymbolFreq, 256)
	for c := range out {
		out[c] = SymbolFreq{Symbol: string([]byte{byte(c)}), Freq: counts[c] + 1}
	}
	return out, nil
}
