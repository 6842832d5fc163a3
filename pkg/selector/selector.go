// Package selector picks the dictionary symbols of the order-preserving
// encoder. A selector scans a sample of keys and returns an ordered list of
// interval boundaries that together cover every byte string, each ranked by
// how often the sample falls into its interval.
package selector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrEmptyKeys   = errors.New("selector: empty key list")
	ErrUnknownType = errors.New("selector: unknown selector type")
	ErrUnsupported = errors.New("selector: selector type not supported")
)

// SymbolFreq is one interval boundary and the number of sample hits in it.
type SymbolFreq struct {
	Symbol string `msgpack:"s"`
	Freq   int64  `msgpack:"f"`
}

// Selector turns a key sample into interval boundaries sorted ascending.
type Selector interface {
	Select(keys []string, numLimit int) ([]SymbolFreq, error)
}

// Type identifies a selector implementation.
type Type int

const (
	SingleCharType Type = iota + 1
	DoubleCharType
	NGram3Type
	NGram4Type
	ALMType
	ALMImprovedType
)

var typeNames = map[Type]string{
	SingleCharType:  "single",
	DoubleCharType:  "double",
	NGram3Type:      "3gram",
	NGram4Type:      "4gram",
	ALMType:         "alm",
	ALMImprovedType: "alm-improved",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "type(" + strconv.Itoa(int(t)) + ")"
}

// ParseType accepts a selector name or its number.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if _, ok := typeNames[Type(n)]; ok {
			return Type(n), nil
		}
		return 0, fmt.Errorf("%w: %d", ErrUnknownType, n)
	}
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

type options struct {
	workers int
}

// Option configures a selector built by New.
type Option func(*options)

// WithWorkers spreads n-gram counting over n goroutines.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// New returns the selector for t.
func New(t Type, opts ...Option) (Selector, error) {
	o := options{workers: 1}
	for _, opt := range opts {
		opt(&o)
	}
	switch t {
	case SingleCharType:
		return SingleChar{}, nil
	case DoubleCharType:
		return DoubleChar{}, nil
	case NGram3Type:
		return NewNGram(3, WithWorkers(o.workers)), nil
	case NGram4Type:
		return NewNGram(4, WithWorkers(o.workers)), nil
	case ALMType, ALMImprovedType:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, t)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
}

// searchBoundaries returns the largest index l with boundaries[l] <= key, or
// 0 when key sorts before every boundary.
func searchBoundaries(boundaries []string, key string) int {
	l, r := 0, len(boundaries)
	for r-l > 1 {
		m := l + (r-l)/2
		switch {
		case boundaries[m] == key:
			return m
		case boundaries[m] < key:
			l = m
		default:
			r = m
		}
	}
	return l
}
