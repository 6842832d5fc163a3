package selector

import (
	"github.com/tchap/go-patricia/v2/patricia"
)

// freqTable counts occurrences of byte strings in a patricia trie.
type freqTable struct {
	trie *patricia.Trie
	size int
}

func newFreqTable() *freqTable {
	return &freqTable{trie: patricia.NewTrie()}
}

func (f *freqTable) add(sym string, n int64) {
	key := patricia.Prefix(sym)
	if item := f.trie.Get(key); item != nil {
		f.trie.Set(key, item.(int64)+n)
		return
	}
	f.trie.Insert(key, n)
	f.size++
}

func (f *freqTable) inc(sym string) { f.add(sym, 1) }

func (f *freqTable) get(sym string) int64 {
	if item := f.trie.Get(patricia.Prefix(sym)); item != nil {
		return item.(int64)
	}
	return 0
}

func (f *freqTable) merge(o *freqTable) error {
	return o.trie.Visit(func(p patricia.Prefix, item patricia.Item) error {
		f.add(string(p), item.(int64))
		return nil
	})
}

// list returns every counted string. The order is unspecified.
func (f *freqTable) list() ([]SymbolFreq, error) {
	out := make([]SymbolFreq, 0, f.size)
	err := f.trie.Visit(func(p patricia.Prefix, item patricia.Item) error {
		out = append(out, SymbolFreq{Symbol: string(p), Freq: item.(int64)})
		return nil
	})
	return out, err
}
