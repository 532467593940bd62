// Package lzw implements Lempel-Ziv-Welch dictionary coding with a
// caller-configurable dictionary size limit and overflow policy.
//
// The encoder's dictionary is a small open-addressing hash table keyed on
// (parent code, next byte), hashed with the non-cryptographic xxHash32 — it
// avoids allocating a full byte-string key per lookup the way a plain
// map[string]int would.
package lzw

import (
	"encoding/binary"

	"github.com/pierrec/xxHash/xxHash32"

	"github.com/kestrelbyte/comptool/cerr"
)

// OverflowPolicy controls what happens when the LZW dictionary reaches its
// configured entry limit.
type OverflowPolicy int

const (
	// Abort fails compression with OutOfMemory once the dictionary is full
	// and a new entry is needed.
	Abort OverflowPolicy = iota
	// StopStore stops adding new dictionary entries once full, but keeps
	// compressing with the entries already present.
	StopStore
	// Unlimited ignores MaxEntries entirely.
	Unlimited
)

// Options configures the LZW dictionary. The zero value behaves as
// {MaxEntries: 10_000, Overflow: Abort}.
type Options struct {
	MaxEntries int
	Overflow   OverflowPolicy
}

// Named presets for MaxEntries, matching the sizes documented for this
// toolkit's LZW codec.
var (
	Small  = Options{MaxEntries: 1_000, Overflow: Abort}
	Medium = Options{MaxEntries: 10_000, Overflow: Abort}
	Large  = Options{MaxEntries: 100_000, Overflow: Abort}
	XL     = Options{MaxEntries: 1_000_000, Overflow: Abort}
)

func (o Options) withDefaults() Options {
	if o.MaxEntries == 0 {
		o.MaxEntries = 10_000
	}
	return o
}

func (o Options) validate() error {
	if o.MaxEntries < 0 {
		return cerr.New("lzw.Options", cerr.InvalidOption, "max_entries must be positive")
	}
	if o.Overflow < Abort || o.Overflow > Unlimited {
		return cerr.New("lzw.Options", cerr.InvalidOption, "unknown overflow policy")
	}
	return nil
}

// Codec implements comptool's Codec interface for LZW coding.
type Codec struct {
	Options Options
}

func (c Codec) Encode(data []byte) ([]byte, error) { return Compress(data, c.Options) }
func (c Codec) Decode(data []byte) ([]byte, error) { return Decompress(data, c.Options) }

// hashTable is the encoder's dictionary: an open-addressing hash table
// mapping (parentCode, nextByte) to a child code.
type hashTable struct {
	slots []tableSlot
	mask  uint32
	count int
}

type tableSlot struct {
	key   uint32
	child int32
	used  bool
}

func newHashTable(capacityHint int) *hashTable {
	size := 64
	for size < capacityHint*2 {
		size <<= 1
	}
	return &hashTable{slots: make([]tableSlot, size), mask: uint32(size - 1)}
}

func packKey(parent int32, b byte) uint32 {
	return uint32(parent)<<8 | uint32(b)
}

func hashKey(key uint32) uint32 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], key)
	return xxHash32.Checksum(buf[:], 0)
}

func (t *hashTable) lookup(key uint32) (int32, bool) {
	i := hashKey(key) & t.mask
	for t.slots[i].used {
		if t.slots[i].key == key {
			return t.slots[i].child, true
		}
		i = (i + 1) & t.mask
	}
	return 0, false
}

func (t *hashTable) insert(key uint32, child int32) {
	if t.count*2 >= len(t.slots) {
		t.grow()
	}
	i := hashKey(key) & t.mask
	for t.slots[i].used {
		if t.slots[i].key == key {
			t.slots[i].child = child
			return
		}
		i = (i + 1) & t.mask
	}
	t.slots[i] = tableSlot{key: key, child: child, used: true}
	t.count++
}

func (t *hashTable) grow() {
	old := t.slots
	t.slots = make([]tableSlot, len(old)*2)
	t.mask = uint32(len(t.slots) - 1)
	for _, s := range old {
		if !s.used {
			continue
		}
		i := hashKey(s.key) & t.mask
		for t.slots[i].used {
			i = (i + 1) & t.mask
		}
		t.slots[i] = s
	}
}

// Compress encodes data using LZW dictionary coding per opts.
func Compress(data []byte, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []byte{}, nil
	}

	maxEntries := int32(opts.MaxEntries)
	if opts.Overflow == Unlimited {
		maxEntries = 1<<31 - 1
	}

	table := newHashTable(64)
	nextCode := int32(256)

	var codes []int32
	w := int32(data[0])
	for _, c := range data[1:] {
		key := packKey(w, c)
		if child, ok := table.lookup(key); ok {
			w = child
			continue
		}

		codes = append(codes, w)

		if nextCode < maxEntries {
			table.insert(key, nextCode)
			nextCode++
		} else if opts.Overflow == Abort {
			return nil, cerr.New("lzw.Compress", cerr.OutOfMemory, "dictionary reached max_entries")
		}

		w = int32(c)
	}
	codes = append(codes, w)

	out := make([]byte, 0, len(codes)*2)
	for _, code := range codes {
		out = appendCode(out, code)
	}
	return out, nil
}

// appendCode appends the variable-length encoding of code to dst: a
// 1-byte length ℓ followed by ℓ big-endian bytes.
func appendCode(dst []byte, code int32) []byte {
	length := codeByteLength(code)
	dst = append(dst, byte(length))
	for i := length - 1; i >= 0; i-- {
		dst = append(dst, byte(code>>(8*uint(i))))
	}
	return dst
}

func codeByteLength(code int32) int {
	if code == 0 {
		return 1
	}
	n := 0
	for v := code; v > 0; v >>= 8 {
		n++
	}
	return n
}

// decEntry describes a multi-byte dictionary entry (code >= 256) as its
// parent code plus the one byte appended to the parent's sequence.
type decEntry struct {
	parent int32
	b      byte
}

func sequenceFor(code int32, entries []decEntry) []byte {
	var rev []byte
	for code >= 256 {
		e := entries[code-256]
		rev = append(rev, e.b)
		code = e.parent
	}
	rev = append(rev, byte(code))
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// Decompress reverses Compress.
func Decompress(data []byte, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []byte{}, nil
	}

	maxEntries := int32(opts.MaxEntries)
	if opts.Overflow == Unlimited {
		maxEntries = 1<<31 - 1
	}

	pos := 0
	readCode := func() (int32, error) {
		if pos >= len(data) {
			return 0, cerr.New("lzw.Decompress", cerr.Truncated, "missing code length byte")
		}
		length := int(data[pos])
		pos++
		if length == 0 {
			return 0, cerr.New("lzw.Decompress", cerr.Corrupt, "code_len must not be zero")
		}
		if pos+length > len(data) {
			return 0, cerr.New("lzw.Decompress", cerr.Truncated, "truncated code")
		}
		var v int32
		for i := 0; i < length; i++ {
			v = v<<8 | int32(data[pos+i])
		}
		pos += length
		return v, nil
	}

	var entries []decEntry
	var out []byte
	prevCode := int32(-1)
	var prevOutput []byte

	for pos < len(data) {
		code, err := readCode()
		if err != nil {
			return nil, err
		}

		dictSize := int32(256 + len(entries))
		var current []byte
		switch {
		case code < dictSize:
			current = sequenceFor(code, entries)
		case code == dictSize && prevCode != -1:
			current = append(append([]byte{}, prevOutput...), prevOutput[0])
		default:
			return nil, cerr.New("lzw.Decompress", cerr.Corrupt, "code exceeds dictionary size")
		}

		out = append(out, current...)

		if prevCode != -1 && dictSize < maxEntries {
			entries = append(entries, decEntry{parent: prevCode, b: current[0]})
		}

		prevCode = code
		prevOutput = current
	}

	return out, nil
}
