/*
Package server implements msgpack IPC for the order-preserving encoder.

Clients write msgpack requests to the server's input (stdin in the hope
binary) and read one msgpack response per request from its output. The first
message the server writes is a ready marker:

	{"status": "ready"}

Every request names its action:

	{"id": "q1", "a": "lookup", "q": "order"}
	{"id": "q2", "a": "encode", "k": ["order", "ordered"]}
	{"id": "q3", "a": "stats"}
	{"id": "q4", "a": "health"}

A lookup answers with the code of the dictionary interval holding the query
and the number of query bytes it covers:

	{"id": "q1", "c": 1234, "b": 14, "l": 3, "t": 2}

An encode answers with one code sequence per key, in request order. Codes
compare as concatenated bit strings in the same order as the keys.

Failed requests get an ErrorResponse carrying an HTTP-like status code.
Requests are served one at a time until the input is closed.
*/
package server

import "github.com/bastiangx/hope/pkg/dictree"

// Request is the envelope of every client message
type Request struct {
	ID     string   `msgpack:"id"`
	Action string   `msgpack:"a"`
	Query  []byte   `msgpack:"q,omitempty"`
	Keys   [][]byte `msgpack:"k,omitempty"`
}

// LookupResponse carries the code for a single query
type LookupResponse struct {
	ID        string `msgpack:"id"`
	Code      uint64 `msgpack:"c"`
	Bits      uint8  `msgpack:"b"`
	Length    int    `msgpack:"l"`
	TimeTaken int64  `msgpack:"t"` // microseconds
}

// EncodedKey is the code sequence of one key
type EncodedKey struct {
	Codes []uint64 `msgpack:"c"`
	Bits  []uint8  `msgpack:"b"`
}

// EncodeResponse carries the encodings of a batch of keys
type EncodeResponse struct {
	ID        string       `msgpack:"id"`
	Keys      []EncodedKey `msgpack:"k"`
	Count     int          `msgpack:"n"`
	TimeTaken int64        `msgpack:"t"`
}

// StatsResponse describes the loaded dictionary
type StatsResponse struct {
	ID       string        `msgpack:"id"`
	Entries  int           `msgpack:"entries"`
	Selector string        `msgpack:"selector"`
	Tree     dictree.Stats `msgpack:"tree"`
	Requests int           `msgpack:"requests"`
}

// StatusResponse is sent for health checks and on startup
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
