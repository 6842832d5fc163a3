package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bastiangx/hope/internal/utils"
	"github.com/bastiangx/hope/pkg/dictree"
	"github.com/bastiangx/hope/pkg/selector"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

const fileVersion = 1

var ErrBadVersion = errors.New("dictionary: unsupported file version")

type fileEntry struct {
	Symbol []byte `msgpack:"s"`
	Code   uint64 `msgpack:"c"`
	Len    uint8  `msgpack:"l"`
	Freq   int64  `msgpack:"f"`
}

type fileDoc struct {
	Version  int         `msgpack:"v"`
	Selector int         `msgpack:"sel"`
	Entries  []fileEntry `msgpack:"e"`
}

// WriteTo writes the dictionary as a msgpack document.
func (d *Dictionary) WriteTo(w io.Writer) (int64, error) {
	doc := fileDoc{
		Version:  fileVersion,
		Selector: int(d.selector),
		Entries:  make([]fileEntry, len(d.entries)),
	}
	for i, e := range d.entries {
		doc.Entries[i] = fileEntry{Symbol: []byte(e.Symbol), Code: e.Code.Value, Len: e.Code.Len, Freq: e.Freq}
	}
	data, err := msgpack.Marshal(&doc)
	if err != nil {
		return 0, fmt.Errorf("failed to encode dictionary: %w", err)
	}
	n, err := w.Write(data)
	return int64(n), err
}

// ReadFrom replaces the dictionary with one read from r. Codes are kept as
// stored.
func (d *Dictionary) ReadFrom(r io.Reader) (int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return int64(len(data)), err
	}
	var doc fileDoc
	if err := msgpack.Unmarshal(data, &doc); err != nil {
		return int64(len(data)), fmt.Errorf("failed to decode dictionary: %w", err)
	}
	if doc.Version != fileVersion {
		return int64(len(data)), fmt.Errorf("%w: %d", ErrBadVersion, doc.Version)
	}

	entries := make([]Entry, len(doc.Entries))
	for i, fe := range doc.Entries {
		entries[i] = Entry{
			Symbol: string(fe.Symbol),
			Code:   dictree.Code{Value: fe.Code, Len: fe.Len},
			Freq:   fe.Freq,
		}
	}
	loaded, err := fromEntries(entries)
	if err != nil {
		return int64(len(data)), err
	}
	*d = *loaded
	d.selector = selector.Type(doc.Selector)
	return int64(len(data)), nil
}

// Save writes the dictionary to path, creating parent directories.
func (d *Dictionary) Save(path string) error {
	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dictionary file %s: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	n, err := d.WriteTo(w)
	if err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	log.Debugf("Saved %d entries to %s (%d bytes)", d.Len(), path, n)
	return file.Close()
}

// Load reads a dictionary written by Save.
func Load(path string) (*Dictionary, error) {
	if err := ValidateFileFormat(path, FormatDict); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary file %s: %w", path, err)
	}
	defer file.Close()

	d := &Dictionary{}
	if _, err := d.ReadFrom(bufio.NewReader(file)); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.Debugf("Loaded dictionary %s: %d entries", path, d.Len())
	return d, nil
}
