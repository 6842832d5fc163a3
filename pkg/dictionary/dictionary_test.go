package dictionary

import (
	"bytes"
	"math/rand"
	"sort"
	"testing"

	"github.com/bastiangx/hope/pkg/dictree"
	"github.com/bastiangx/hope/pkg/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomKeys(rng *rand.Rand, n int) []string {
	const alphabet = "abcdeklmz\x00\xff"
	keys := make([]string, n)
	for i := range keys {
		b := make([]byte, rng.Intn(24))
		for j := range b {
			b[j] = alphabet[rng.Intn(len(alphabet))]
		}
		keys[i] = string(b)
	}
	return keys
}

func TestCodeWidth(t *testing.T) {
	for n, want := range map[int]uint8{1: 1, 2: 1, 3: 2, 4: 2, 5: 3, 256: 8, 257: 9, 65792: 17} {
		assert.Equal(t, want, codeWidth(n), "n=%d", n)
	}
}

func TestBuildAssignsAscendingCodes(t *testing.T) {
	d, err := Build([]selector.SymbolFreq{{Symbol: "a", Freq: 3}, {Symbol: "ab", Freq: 1}, {Symbol: "b", Freq: 2}})
	require.NoError(t, err)
	require.Equal(t, 3, d.Len())

	entries := d.Entries()
	for i, e := range entries {
		assert.Equal(t, dictree.Code{Value: uint64(i), Len: 2}, e.Code)
	}

	sym, ok := d.SymbolFor(entries[2].Code)
	assert.True(t, ok)
	assert.Equal(t, "b", sym)
	_, ok = d.SymbolFor(dictree.Code{Value: 3, Len: 2})
	assert.False(t, ok)

	code, n := d.LookupString("ab")
	assert.Equal(t, entries[1].Code, code)
	assert.Equal(t, 2, n)
	code, n = d.Lookup([]byte("ac"))
	assert.Equal(t, entries[1].Code, code)
	assert.Equal(t, 1, n)
}

func TestBuildErrors(t *testing.T) {
	_, err := Build(nil)
	require.ErrorIs(t, err, ErrNoSymbols)

	_, err = Build([]selector.SymbolFreq{{Symbol: "b"}, {Symbol: "a"}})
	require.ErrorIs(t, err, dictree.ErrUnsorted)
}

func TestTrainUnsupportedSelector(t *testing.T) {
	_, err := Train([]string{"a"}, TrainOptions{Selector: selector.ALMType})
	require.ErrorIs(t, err, selector.ErrUnsupported)

	_, err = Train(nil, TrainOptions{Selector: selector.NGram3Type, NumLimit: 10})
	require.ErrorIs(t, err, selector.ErrEmptyKeys)
}

func TestEncodePreservesOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	keys := randomKeys(rng, 600)

	for _, typ := range []selector.Type{
		selector.SingleCharType, selector.DoubleCharType, selector.NGram3Type, selector.NGram4Type,
	} {
		t.Run(typ.String(), func(t *testing.T) {
			d, err := Train(keys, TrainOptions{Selector: typ, NumLimit: 128, Workers: 2})
			require.NoError(t, err)
			assert.Equal(t, typ, d.Selector())

			probe := append(randomKeys(rng, 400), keys[:50]...)
			for _, e := range d.Entries()[:40] {
				probe = append(probe, e.Symbol, e.Symbol+"a")
			}
			sort.Strings(probe)

			prev := d.Encode(probe[0])
			for i, k := range probe[1:] {
				cur := d.Encode(k)
				c := CompareCodes(prev, cur)
				require.LessOrEqual(t, c, 0, "%q vs %q", probe[i], k)
				if probe[i] == k {
					require.Zero(t, c)
				}
				prev = cur
			}
		})
	}
}

func TestEncodeConsumesWholeKey(t *testing.T) {
	d, err := Train([]string{"hello", "help", "world"}, TrainOptions{Selector: selector.NGram3Type, NumLimit: 8})
	require.NoError(t, err)

	assert.Empty(t, d.Encode(""))
	codes := d.Encode("help")
	require.NotEmpty(t, codes)
	assert.LessOrEqual(t, len(codes), 4)
	assert.Equal(t, len(codes)*int(codes[0].Len), EncodedBits(codes))
	assert.Len(t, Bits(codes), EncodedBits(codes))
}

func TestCompareCodes(t *testing.T) {
	c := func(v uint64, l uint8) dictree.Code { return dictree.Code{Value: v, Len: l} }
	tests := []struct {
		a, b []dictree.Code
		want int
	}{
		{nil, nil, 0},
		{nil, []dictree.Code{c(0, 1)}, -1},
		{[]dictree.Code{c(0b10, 2)}, []dictree.Code{c(0b1, 1), c(0b0, 1)}, 0},
		{[]dictree.Code{c(0b1, 1), c(0b1, 1)}, []dictree.Code{c(0b10, 2)}, 1},
		{[]dictree.Code{c(0b01, 2)}, []dictree.Code{c(0b01, 2), c(0, 3)}, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CompareCodes(tt.a, tt.b), "%s vs %s", Bits(tt.a), Bits(tt.b))
	}
}

func TestWriteToReadFrom(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	d, err := Train(randomKeys(rng, 200), TrainOptions{Selector: selector.NGram3Type, NumLimit: 64})
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := d.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	var loaded Dictionary
	_, err = loaded.ReadFrom(&buf)
	require.NoError(t, err)
	assert.Equal(t, d.Entries(), loaded.Entries())
	assert.Equal(t, selector.NGram3Type, loaded.Selector())
	assert.Equal(t, d.Stats(), loaded.Stats())

	for _, k := range randomKeys(rng, 100) {
		require.Equal(t, d.Encode(k), loaded.Encode(k), "key %q", k)
	}
}

func TestReadFromBadVersion(t *testing.T) {
	var buf bytes.Buffer
	d, err := Build([]selector.SymbolFreq{{Symbol: "a"}})
	require.NoError(t, err)
	_, err = d.WriteTo(&buf)
	require.NoError(t, err)

	data := buf.Bytes()
	// The document starts with a fixmap header then "v" and the version.
	idx := bytes.Index(data, []byte{0xa1, 'v', fileVersion})
	require.GreaterOrEqual(t, idx, 0)
	data[idx+2] = fileVersion + 1

	var loaded Dictionary
	_, err = loaded.ReadFrom(bytes.NewReader(data))
	require.ErrorIs(t, err, ErrBadVersion)
}
