package selector

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// NGram selects the most frequent n-byte substrings of the sample and fills
// the gaps between them so the boundaries cover the whole byte-string space.
type NGram struct {
	n       int
	workers int

	prefixes   []string
	boundaries []string
	freqs      []int64
}

// NewNGram returns an n-gram selector. Only WithWorkers applies.
func NewNGram(n int, opts ...Option) *NGram {
	o := options{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return &NGram{n: n, workers: o.workers}
}

// Select returns the boundaries with their recounted frequencies. numLimit
// bounds the n-grams picked before gap filling to numLimit/2.
func (s *NGram) Select(keys []string, numLimit int) ([]SymbolFreq, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyKeys
	}
	if s.n < 2 {
		return nil, fmt.Errorf("selector: invalid n-gram length %d", s.n)
	}
	s.prefixes, s.boundaries, s.freqs = nil, nil, nil

	table, err := s.countSymbolFreq(keys)
	if err != nil {
		return nil, err
	}
	symbols, err := pickMostFreq(table, numLimit/2)
	if err != nil {
		return nil, err
	}
	s.fillInGap(symbols)
	s.countIntervalFreq(keys)
	log.Debug("ngram selection done", "n", s.n, "distinct", table.size, "picked", len(symbols), "intervals", len(s.boundaries))

	out := make([]SymbolFreq, len(s.boundaries))
	for i, b := range s.boundaries {
		out[i] = SymbolFreq{Symbol: b, Freq: s.freqs[i]}
	}
	return out, nil
}

// Prefixes returns the interval prefixes of the last Select, aligned with
// its boundaries.
func (s *NGram) Prefixes() []string { return s.prefixes }

func countNGrams(t *freqTable, keys []string, n int) {
	for _, key := range keys {
		for i := 0; i+n <= len(key); i++ {
			t.inc(key[i : i+n])
		}
	}
}

func (s *NGram) countSymbolFreq(keys []string) (*freqTable, error) {
	workers := min(s.workers, len(keys))
	if workers <= 1 {
		t := newFreqTable()
		countNGrams(t, keys, s.n)
		return t, nil
	}

	shards := make([]*freqTable, workers)
	chunk := (len(keys) + workers - 1) / workers
	var g errgroup.Group
	for w := range shards {
		w := w
		lo, hi := min(w*chunk, len(keys)), min((w+1)*chunk, len(keys))
		shards[w] = newFreqTable()
		g.Go(func() error {
			countNGrams(shards[w], keys[lo:hi], s.n)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	merged := shards[0]
	for _, sh := range shards[1:] {
		if err := merged.merge(sh); err != nil {
			return nil, fmt.Errorf("selector: merge counts: %w", err)
		}
	}
	return merged, nil
}

// pickMostFreq returns the k most frequent strings in ascending order. Ties
// go to the lexicographically larger string.
func pickMostFreq(t *freqTable, k int) ([]string, error) {
	list, err := t.list()
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Freq != list[j].Freq {
			return list[i].Freq > list[j].Freq
		}
		return list[i].Symbol > list[j].Symbol
	})
	k = max(0, min(k, len(list)))
	symbols := make([]string, k)
	for i := range symbols {
		symbols[i] = list[i].Symbol
	}
	sort.Strings(symbols)
	return symbols, nil
}

// rightNeighbor increments the last byte of s, carrying past 0xff. It fails
// when every byte is 0xff.
func rightNeighbor(s string) (string, bool) {
	b := []byte(s)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0xff {
			b[i]++
			return string(b[:i+1]), true
		}
	}
	return "", false
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

func (s *NGram) push(prefix, boundary string) {
	s.prefixes = append(s.prefixes, prefix)
	s.boundaries = append(s.boundaries, boundary)
}

// fillInSingleChar adds one-byte intervals for every byte in [from, to].
func (s *NGram) fillInSingleChar(from, to int) {
	for c := from; c <= to; c++ {
		ch := string([]byte{byte(c)})
		s.push(ch, ch)
	}
}

func (s *NGram) fillInGap(symbols []string) {
	if len(symbols) == 0 {
		s.fillInSingleChar(0, 0xff)
		return
	}
	s.fillInSingleChar(0, int(symbols[0][0]))
	for i := 0; i+1 < len(symbols); i++ {
		s1, s2 := symbols[i], symbols[i+1]
		s.push(s1, s1)
		rn, ok := rightNeighbor(s1)
		if !ok || rn == s2 {
			continue
		}
		if s1[0] != s2[0] {
			if len(rn) > 1 {
				s.push(s1[:1], rn)
			}
			s.fillInSingleChar(int(s1[0])+1, int(s2[0]))
			continue
		}
		s.push(commonPrefix(s1, s2), rn)
	}

	last := symbols[len(symbols)-1]
	s.push(last, last)
	if rn, ok := rightNeighbor(last); ok && len(rn) > 1 {
		s.push(last[:1], rn)
	}
	s.fillInSingleChar(int(last[0])+1, 0xff)
}

func (s *NGram) countIntervalFreq(keys []string) {
	s.freqs = make([]int64, len(s.boundaries))
	for i := range s.freqs {
		s.freqs[i] = 1
	}
	for _, key := range keys {
		for pos := 0; pos < len(key); {
			end := min(pos+s.n+1, len(key))
			idx := searchBoundaries(s.boundaries, key[pos:end])
			s.freqs[idx]++
			pos += len(s.prefixes[idx])
		}
	}
}
