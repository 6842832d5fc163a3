package server

import (
	"bytes"
	"testing"

	"github.com/bastiangx/hope/pkg/config"
	"github.com/bastiangx/hope/pkg/dictionary"
	"github.com/bastiangx/hope/pkg/selector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func testDictionary(t *testing.T) *dictionary.Dictionary {
	t.Helper()
	d, err := dictionary.Train(
		[]string{"order", "ordered", "ordering", "preserve", "preserving", "encoder"},
		dictionary.TrainOptions{Selector: selector.NGram3Type, NumLimit: 16},
	)
	require.NoError(t, err)
	return d
}

// run feeds reqs to a server and returns a decoder over everything it wrote.
func run(t *testing.T, d *dictionary.Dictionary, cfg config.ServerConfig, reqs ...any) *msgpack.Decoder {
	t.Helper()
	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range reqs {
		require.NoError(t, enc.Encode(r))
	}
	require.NoError(t, NewServer(d, cfg, &in, &out).Start())

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	require.Equal(t, "ready", ready.Status)
	return dec
}

func TestLookupAndEncode(t *testing.T) {
	d := testDictionary(t)
	cfg := config.DefaultConfig().Server

	dec := run(t, d, cfg,
		Request{ID: "1", Action: "lookup", Query: []byte("ordered")},
		Request{ID: "2", Action: "encode", Keys: [][]byte{[]byte("order"), []byte("zebra")}},
		Request{ID: "3", Action: "stats"},
		Request{ID: "4", Action: "health"},
	)

	var lr LookupResponse
	require.NoError(t, dec.Decode(&lr))
	code, n := d.LookupString("ordered")
	assert.Equal(t, "1", lr.ID)
	assert.Equal(t, code.Value, lr.Code)
	assert.Equal(t, code.Len, lr.Bits)
	assert.Equal(t, n, lr.Length)

	var er EncodeResponse
	require.NoError(t, dec.Decode(&er))
	require.Equal(t, 2, er.Count)
	want := d.Encode("zebra")
	require.Len(t, er.Keys[1].Codes, len(want))
	for i, c := range want {
		assert.Equal(t, c.Value, er.Keys[1].Codes[i])
		assert.Equal(t, c.Len, er.Keys[1].Bits[i])
	}

	var sr StatsResponse
	require.NoError(t, dec.Decode(&sr))
	assert.Equal(t, d.Len(), sr.Entries)
	assert.Equal(t, "3gram", sr.Selector)
	assert.Equal(t, d.Stats(), sr.Tree)
	assert.Equal(t, 3, sr.Requests)

	var hr StatusResponse
	require.NoError(t, dec.Decode(&hr))
	assert.Equal(t, StatusResponse{ID: "4", Status: "ok"}, hr)
}

func TestRequestErrors(t *testing.T) {
	d := testDictionary(t)
	cfg := config.ServerConfig{MaxQueryLen: 4, MaxBatch: 1}

	dec := run(t, d, cfg,
		Request{ID: "long", Action: "lookup", Query: []byte("too long")},
		Request{ID: "empty", Action: "encode"},
		Request{ID: "batch", Action: "encode", Keys: [][]byte{[]byte("a"), []byte("b")}},
		Request{ID: "key", Action: "encode", Keys: [][]byte{[]byte("abcdef")}},
		Request{ID: "what", Action: "complete"},
	)

	for _, want := range []struct {
		id   string
		code int
	}{
		{"long", 413}, {"empty", 400}, {"batch", 413}, {"key", 413}, {"what", 400},
	} {
		var resp ErrorResponse
		require.NoError(t, dec.Decode(&resp))
		assert.Equal(t, want.id, resp.ID)
		assert.Equal(t, want.code, resp.Code, want.id)
		assert.NotEmpty(t, resp.Error)
	}
}

func TestStringQueriesAccepted(t *testing.T) {
	d := testDictionary(t)
	// Clients may send the query as a msgpack str rather than bin.
	dec := run(t, d, config.DefaultConfig().Server,
		map[string]any{"id": "s", "a": "lookup", "q": "preserve"})

	var lr LookupResponse
	require.NoError(t, dec.Decode(&lr))
	code, n := d.LookupString("preserve")
	assert.Equal(t, code.Value, lr.Code)
	assert.Equal(t, n, lr.Length)
}

func TestMalformedInput(t *testing.T) {
	d := testDictionary(t)
	in := bytes.NewReader([]byte{0xc1})
	var out bytes.Buffer
	err := NewServer(d, config.DefaultConfig().Server, in, &out).Start()
	require.Error(t, err)

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	var resp ErrorResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, 400, resp.Code)
}
