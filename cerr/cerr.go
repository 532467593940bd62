// Package cerr defines the small set of error kinds that every codec and
// transform in comptool can fail with. Callers branch on Kind rather than on
// error strings.
package cerr

import "fmt"

// Kind identifies the category of a compression failure.
type Kind int

const (
	// Truncated means the input ended before a field could be fully read.
	Truncated Kind = iota
	// Corrupt means a structural invariant of the on-disk format was
	// violated.
	Corrupt
	// OutOfMemory means an LZW dictionary using the Abort policy exceeded
	// its configured entry limit.
	OutOfMemory
	// InvalidOption means a caller-supplied option was out of range.
	InvalidOption
)

func (k Kind) String() string {
	switch k {
	case Truncated:
		return "TRUNCATED"
	case Corrupt:
		return "CORRUPT"
	case OutOfMemory:
		return "OUT_OF_MEMORY"
	case InvalidOption:
		return "INVALID_OPTION"
	default:
		return "UNKNOWN"
	}
}

// Error is the concrete error type returned by every package in comptool.
type Error struct {
	Kind Kind
	Op   string // e.g. "huffman.Decode", "lzw.Compress"
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
}

// New builds an *Error for op with the given kind and message.
func New(op string, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// Is reports whether err is a *cerr.Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
