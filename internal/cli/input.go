// Package cli implements an interactive REPL for trying dictionary lookups
// and encodings by hand.
package cli

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/hope/internal/logger"
	"github.com/bastiangx/hope/internal/utils"
	"github.com/bastiangx/hope/pkg/config"
	"github.com/bastiangx/hope/pkg/dictionary"
	"github.com/charmbracelet/log"
)

// InputHandler reads one query per line and prints its code, or its full
// encoding in encode mode. Queries may contain \xNN escapes.
// Lines starting with ':' are commands: :encode, :lookup, :hex, :stats.
type InputHandler struct {
	dict         *dictionary.Dictionary
	in           io.Reader
	out          *log.Logger
	maxQueryLen  int
	showHex      bool
	encode       bool
	requestCount int
}

// NewInputHandler handles initialization of the InputHandler
func NewInputHandler(dict *dictionary.Dictionary, cfg config.CliConfig, maxQueryLen int, in io.Reader, out io.Writer) *InputHandler {
	l := logger.NewWithConfig(out, "", log.GetLevel(), false, false, log.TextFormatter)
	l.SetStyles(logger.Styles())
	return &InputHandler{
		dict:        dict,
		in:          in,
		out:         l,
		maxQueryLen: maxQueryLen,
		showHex:     cfg.ShowHex,
		encode:      cfg.Encode,
	}
}

// Start runs the loop until the input ends.
func (h *InputHandler) Start() error {
	h.out.Print("hope REPL", "entries", h.dict.Len(), "selector", h.dict.Selector())
	h.out.Print("type a key and press Enter (:encode, :lookup, :hex, :stats; Ctrl+D to exit)")
	reader := bufio.NewReader(h.in)

	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimRight(line, "\r\n"); line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (h *InputHandler) handleInput(line string) {
	if strings.HasPrefix(line, ":") {
		h.handleCommand(strings.TrimSpace(line[1:]))
		return
	}
	h.requestCount++

	query := utils.Unescape(line)
	if len(query) > h.maxQueryLen {
		h.out.Error("Query too long", "len", len(query), "max", h.maxQueryLen)
		return
	}

	start := time.Now()
	if h.encode {
		codes := h.dict.Encode(query)
		log.Debugf("Encoded %q in %v", query, time.Since(start))
		h.out.Print("encode",
			"query", h.show(query),
			"codes", len(codes),
			"bits", dictionary.EncodedBits(codes),
			"code", dictionary.Bits(codes))
		return
	}

	code, n := h.dict.LookupString(query)
	log.Debugf("Looked up %q in %v", query, time.Since(start))
	symbol, _ := h.dict.SymbolFor(code)
	h.out.Print("lookup",
		"query", h.show(query),
		"code", code.String(),
		"value", code.Value,
		"len", n,
		"symbol", h.show(symbol))
}

func (h *InputHandler) handleCommand(cmd string) {
	switch cmd {
	case "encode":
		h.encode = true
	case "lookup":
		h.encode = false
	case "hex":
		h.showHex = !h.showHex
	case "stats":
		s := h.dict.Stats()
		h.out.Print("stats",
			"entries", h.dict.Len(),
			"node4", s.Node4, "node16", s.Node16, "node48", s.Node48, "node256", s.Node256,
			"queries", h.requestCount)
		return
	default:
		h.out.Warn("Unknown command", "cmd", cmd)
		return
	}
	h.out.Print("ok", "encode", h.encode, "hex", h.showHex)
}

func (h *InputHandler) show(s string) string {
	if h.showHex {
		return utils.Printable(s)
	}
	return s
}
