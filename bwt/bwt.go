// Package bwt implements the Burrows-Wheeler Transform and its inverse,
// using a linear-time SA-IS suffix array construction (package
// bwt/sais) to sort the input's rotations.
//
// The transform's output is wrapped in a small self-describing frame so
// that the EOF row index needed to invert the transform travels alongside
// the transformed bytes:
//
//	D | idx (0..255 bytes, big-endian) | D | T
//
// where D is a delimiter byte guaranteed not to appear in idx, and T is
// the Burrows-Wheeler Transform of the input.
package bwt

import (
	"github.com/kestrelbyte/comptool/bwt/sais"
	"github.com/kestrelbyte/comptool/cerr"
)

// Transform implements comptool's Transform interface for the BWT frame
// format described above.
type Transform struct{}

func (Transform) Forward(data []byte) ([]byte, error) { return Forward(data) }
func (Transform) Inverse(data []byte) ([]byte, error) { return Inverse(data) }

// Forward computes the Burrows-Wheeler Transform of data and wraps it in a
// BWT frame.
func Forward(data []byte) ([]byte, error) {
	n := len(data)
	if n == 0 {
		return []byte{0x00, 0x00}, nil
	}

	sa := buildRotationOrder(data)

	t := make([]byte, n)
	eof := 0
	for i, suffixStart := range sa {
		if suffixStart == 0 {
			// The rotation beginning at the start of the original string.
			t[i] = data[n-1]
			eof = i
		} else {
			t[i] = data[suffixStart-1]
		}
	}

	idx := minimalBigEndian(eof)
	delim := findDelimiter(idx)

	frame := make([]byte, 0, 2+len(idx)+len(t))
	frame = append(frame, delim)
	frame = append(frame, idx...)
	frame = append(frame, delim)
	frame = append(frame, t...)
	return frame, nil
}

// Inverse parses a BWT frame and reconstructs the original input.
func Inverse(frame []byte) ([]byte, error) {
	if len(frame) < 2 {
		return nil, cerr.New("bwt.Inverse", cerr.Corrupt, "frame too short")
	}
	delim := frame[0]

	second := -1
	for i := 1; i < len(frame); i++ {
		if frame[i] == delim {
			second = i
			break
		}
	}
	if second == -1 {
		return nil, cerr.New("bwt.Inverse", cerr.Corrupt, "missing second delimiter")
	}

	idx := frame[1:second]
	t := frame[second+1:]

	if len(t) == 0 {
		if len(idx) != 0 {
			return nil, cerr.New("bwt.Inverse", cerr.Corrupt, "non-empty index for empty transform")
		}
		return []byte{}, nil
	}

	p := int(bigEndianToUint(idx))
	if p < 0 || p >= len(t) {
		return nil, cerr.New("bwt.Inverse", cerr.Corrupt, "EOF index out of range")
	}

	return inverseFromRow(t, p), nil
}

// buildRotationOrder returns the start offsets (in data) of data's n
// rotations, sorted lexicographically. It computes this via the suffix
// array of data concatenated with itself: for a start i < n, the suffix of
// data+data at i begins with the whole rotation at i, so the suffixes that
// start in the first copy sort in rotation order (equal rotations, which
// only occur in periodic input, are identical rows and may come in any
// order). The suffixes starting in the second copy, and the leading entry
// sais.BuildSuffixArray adds for the empty suffix, are dropped here.
func buildRotationOrder(data []byte) []int {
	n := len(data)
	ints := make([]int32, 2*n)
	for i, b := range data {
		ints[i] = int32(b)
		ints[n+i] = int32(b)
	}
	sa := sais.BuildSuffixArray(ints, 256)

	out := make([]int, 0, n)
	for _, v := range sa[1:] {
		if int(v) < n {
			out = append(out, int(v))
		}
	}
	return out
}

func inverseFromRow(t []byte, p int) []byte {
	n := len(t)

	// count[b] = number of bytes in t strictly less than b.
	var freq [256]int
	for _, b := range t {
		freq[b]++
	}
	var count [256]int
	total := 0
	for b := 0; b < 256; b++ {
		count[b] = total
		total += freq[b]
	}

	// rank[i] = occurrence count of t[i] among t[0:i].
	rank := make([]int, n)
	var seen [256]int
	for i, b := range t {
		rank[i] = seen[b]
		seen[b]++
	}

	out := make([]byte, n)
	i := p
	for k := n - 1; k >= 0; k-- {
		out[k] = t[i]
		i = count[t[i]] + rank[i]
	}
	return out
}

// minimalBigEndian returns the minimal big-endian byte encoding of a
// non-negative integer. Zero always encodes as a single 0x00 byte so that
// an index field of length zero is unambiguous (it means the transformed
// input was empty, not that the EOF row is 0).
func minimalBigEndian(v int) []byte {
	if v == 0 {
		return []byte{0x00}
	}
	var b []byte
	for v > 0 {
		b = append([]byte{byte(v & 0xFF)}, b...)
		v >>= 8
	}
	return b
}

func bigEndianToUint(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}

// findDelimiter finds a byte value that does not occur in idx, in O(1)
// auxiliary space via a 256-bit presence bitset.
func findDelimiter(idx []byte) byte {
	var present [4]uint64
	for _, b := range idx {
		present[b/64] |= 1 << (b % 64)
	}
	for v := 0; v < 256; v++ {
		if present[v/64]&(1<<(v%64)) == 0 {
			return byte(v)
		}
	}
	// Unreachable: idx has at most 255 distinct byte values by
	// construction, so at least one value is always free.
	return 0
}
