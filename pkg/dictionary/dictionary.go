// Package dictionary turns selector output into an order-preserving code
// dictionary and encodes keys with it.
package dictionary

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
	"time"

	"github.com/bastiangx/hope/pkg/dictree"
	"github.com/bastiangx/hope/pkg/selector"
	"github.com/charmbracelet/log"
)

var ErrNoSymbols = errors.New("dictionary: no symbols")

// Entry is one dictionary symbol with its code and sample frequency.
type Entry struct {
	Symbol string
	Code   dictree.Code
	Freq   int64
}

// Dictionary maps every byte string to a code. It is read-only once built.
type Dictionary struct {
	selector selector.Type
	entries  []Entry
	tree     *dictree.Tree
}

// TrainOptions selects the symbol selector used by Train.
type TrainOptions struct {
	Selector selector.Type
	NumLimit int
	Workers  int
	Observer dictree.Observer
}

// Train selects symbols from keys and builds a dictionary from them.
func Train(keys []string, opts TrainOptions) (*Dictionary, error) {
	sel, err := selector.New(opts.Selector, selector.WithWorkers(opts.Workers))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	freqs, err := sel.Select(keys, opts.NumLimit)
	if err != nil {
		return nil, fmt.Errorf("symbol selection failed: %w", err)
	}
	log.Debugf("Selected %d symbols from %d keys in %v", len(freqs), len(keys), time.Since(start))

	var treeOpts []dictree.Option
	if opts.Observer != nil {
		treeOpts = append(treeOpts, dictree.WithObserver(opts.Observer))
	}
	d, err := Build(freqs, treeOpts...)
	if err != nil {
		return nil, err
	}
	d.selector = opts.Selector
	return d, nil
}

// codeWidth returns the bits needed to number n entries, at least one.
func codeWidth(n int) uint8 {
	if n <= 1 {
		return 1
	}
	return uint8(bits.Len(uint(n - 1)))
}

// Build assigns fixed-width codes in symbol order and builds the lookup
// tree. freqs must be sorted ascending by symbol.
func Build(freqs []selector.SymbolFreq, opts ...dictree.Option) (*Dictionary, error) {
	if len(freqs) == 0 {
		return nil, ErrNoSymbols
	}
	width := codeWidth(len(freqs))
	entries := make([]Entry, len(freqs))
	for i, sf := range freqs {
		entries[i] = Entry{
			Symbol: sf.Symbol,
			Code:   dictree.Code{Value: uint64(i), Len: width},
			Freq:   sf.Freq,
		}
	}
	return fromEntries(entries, opts...)
}

func fromEntries(entries []Entry, opts ...dictree.Option) (*Dictionary, error) {
	list := make([]dictree.SymbolCode, len(entries))
	for i, e := range entries {
		list[i] = dictree.SymbolCode{Symbol: e.Symbol, Code: e.Code}
	}
	tree := dictree.New(opts...)
	if err := tree.Build(list); err != nil {
		return nil, fmt.Errorf("failed to build dictionary tree: %w", err)
	}
	return &Dictionary{entries: entries, tree: tree}, nil
}

// Selector reports the selector the dictionary was trained with, or zero.
func (d *Dictionary) Selector() selector.Type { return d.selector }

// Len returns the number of entries.
func (d *Dictionary) Len() int { return len(d.entries) }

// Entries returns a copy of the entries in symbol order.
func (d *Dictionary) Entries() []Entry { return append([]Entry(nil), d.entries...) }

// Stats reports the shape of the lookup tree.
func (d *Dictionary) Stats() dictree.Stats { return d.tree.Stats() }

// SymbolFor returns the symbol that was assigned code.
func (d *Dictionary) SymbolFor(code dictree.Code) (string, bool) {
	i := sort.Search(len(d.entries), func(i int) bool { return d.entries[i].Code.Compare(code) >= 0 })
	if i < len(d.entries) && d.entries[i].Code == code {
		return d.entries[i].Symbol, true
	}
	return "", false
}

// Lookup returns the code of the dictionary interval containing q
// and how many bytes of q it covers.
func (d *Dictionary) Lookup(q []byte) (dictree.Code, int) { return d.tree.Lookup(q) }

// LookupString is Lookup for a string query.
func (d *Dictionary) LookupString(q string) (dictree.Code, int) { return d.tree.LookupString(q) }

// Encode splits key into dictionary codes. Comparing two encodings with
// CompareCodes gives the same order as comparing the keys.
func (d *Dictionary) Encode(key string) []dictree.Code {
	var codes []dictree.Code
	for pos := 0; pos < len(key); {
		code, n := d.tree.LookupString(key[pos:])
		codes = append(codes, code)
		pos += max(n, 1)
	}
	return codes
}

// EncodedBits returns the total bit length of codes.
func EncodedBits(codes []dictree.Code) int {
	n := 0
	for _, c := range codes {
		n += int(c.Len)
	}
	return n
}
