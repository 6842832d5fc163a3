package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/hope/pkg/config"
	"github.com/bastiangx/hope/pkg/dictionary"
	"github.com/bastiangx/hope/pkg/dictree"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server answers lookup and encode requests against one dictionary
type Server struct {
	dict         *dictionary.Dictionary
	cfg          config.ServerConfig
	decoder      *msgpack.Decoder
	writer       *bufio.Writer
	encoder      *msgpack.Encoder
	requestCount int
}

// NewServer creates a server reading requests from r and writing responses to w
func NewServer(dict *dictionary.Dictionary, cfg config.ServerConfig, r io.Reader, w io.Writer) *Server {
	bw := bufio.NewWriter(w)
	return &Server{
		dict:    dict,
		cfg:     cfg,
		decoder: msgpack.NewDecoder(r),
		writer:  bw,
		encoder: msgpack.NewEncoder(bw),
	}
}

// Start serves requests until the input is exhausted
func (s *Server) Start() error {
	log.Debug("Starting server", "entries", s.dict.Len(), "max_query_len", s.cfg.MaxQueryLen)
	s.sendResponse(StatusResponse{Status: "ready"})

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requestCount)
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			return fmt.Errorf("decode request: %w", err)
		}
		s.requestCount++
		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req Request) {
	switch req.Action {
	case "lookup":
		s.handleLookup(req)
	case "encode":
		s.handleEncode(req)
	case "stats":
		s.sendResponse(StatsResponse{
			ID:       req.ID,
			Entries:  s.dict.Len(),
			Selector: s.dict.Selector().String(),
			Tree:     s.dict.Stats(),
			Requests: s.requestCount,
		})
	case "health":
		s.sendResponse(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown action: %q", req.Action), 400)
	}
}

func (s *Server) handleLookup(req Request) {
	if len(req.Query) > s.cfg.MaxQueryLen {
		s.sendError(req.ID, fmt.Sprintf("Query exceeds maximum length of %d bytes", s.cfg.MaxQueryLen), 413)
		return
	}
	start := time.Now()
	code, n := s.dict.Lookup(req.Query)
	s.sendResponse(LookupResponse{
		ID:        req.ID,
		Code:      code.Value,
		Bits:      code.Len,
		Length:    n,
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) handleEncode(req Request) {
	switch {
	case len(req.Keys) == 0:
		s.sendError(req.ID, "Missing 'k' parameter", 400)
		return
	case len(req.Keys) > s.cfg.MaxBatch:
		s.sendError(req.ID, fmt.Sprintf("Batch exceeds maximum of %d keys", s.cfg.MaxBatch), 413)
		return
	}
	for i, k := range req.Keys {
		if len(k) > s.cfg.MaxQueryLen {
			s.sendError(req.ID, fmt.Sprintf("Key %d exceeds maximum length of %d bytes", i, s.cfg.MaxQueryLen), 413)
			return
		}
	}

	start := time.Now()
	keys := make([]EncodedKey, len(req.Keys))
	for i, k := range req.Keys {
		keys[i] = toEncodedKey(s.dict.Encode(string(k)))
	}
	s.sendResponse(EncodeResponse{
		ID:        req.ID,
		Keys:      keys,
		Count:     len(keys),
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func toEncodedKey(codes []dictree.Code) EncodedKey {
	ek := EncodedKey{Codes: make([]uint64, len(codes)), Bits: make([]uint8, len(codes))}
	for i, c := range codes {
		ek.Codes[i] = c.Value
		ek.Bits[i] = c.Len
	}
	return ek
}

// sendResponse writes one msgpack message and flushes it to the client
func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		log.Errorf("Writing response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	log.Debug("Request failed", "id", id, "error", message, "code", code)
	s.sendResponse(ErrorResponse{ID: id, Error: message, Code: code})
}
