// Package bitio provides a big-endian, most-significant-bit-first bit
// stream reader and writer over a plain byte buffer. The RLE and Huffman
// codecs in comptool build their on-disk formats on top of these two types.
package bitio

import "github.com/kestrelbyte/comptool/cerr"

// Writer accumulates values of arbitrary bit width into a byte buffer,
// packing bits most-significant-bit first within each byte, and
// most-significant-bit first within each written value.
type Writer struct {
	buf    []byte
	bitPos uint // number of bits already used in the last byte of buf, 0..7
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteBits appends the low width bits of v to the stream, most-significant
// bit first. width must be in [1, 64].
func (w *Writer) WriteBits(v uint64, width uint) {
	if width == 0 {
		return
	}
	v &= mask(width)

	for width > 0 {
		if w.bitPos == 0 {
			w.buf = append(w.buf, 0)
		}
		free := 8 - w.bitPos
		take := width
		if take > free {
			take = free
		}

		shift := width - take
		chunk := byte((v >> shift) & ((1 << take) - 1))

		last := len(w.buf) - 1
		w.buf[last] |= chunk << (free - take)

		w.bitPos += take
		if w.bitPos == 8 {
			w.bitPos = 0
		}
		width -= take
	}
}

// mask returns a bitmask with the low width bits set, avoiding undefined
// behavior from a 64-bit shift when width == 64.
func mask(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<width - 1
}

// Finalize pads the current byte with zero bits and returns the packed
// buffer along with the number of padding bits appended (0..7).
func (w *Writer) Finalize() ([]byte, int) {
	pad := 0
	if w.bitPos != 0 {
		pad = int(8 - w.bitPos)
		w.bitPos = 0
	}
	return w.buf, pad
}

// Len returns the number of bits written so far.
func (w *Writer) Len() int {
	if w.bitPos == 0 {
		return len(w.buf) * 8
	}
	return (len(w.buf)-1)*8 + int(w.bitPos)
}

// Reader reads fixed-width unsigned integers from a byte buffer, most
// significant bit first, mirroring Writer's packing.
type Reader struct {
	buf     []byte
	bitPos  uint // next bit to read within buf[bytePos], 0..7
	bytePos int
}

// NewReader wraps data for bit-level reading.
func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// BitsRemaining reports how many bits are left to read.
func (r *Reader) BitsRemaining() int {
	return (len(r.buf)-r.bytePos)*8 - int(r.bitPos)
}

// ReadBits reads the next width bits (1..64) as an unsigned integer,
// most-significant bit first. It returns a *cerr.Error of kind Truncated if
// fewer than width bits remain.
func (r *Reader) ReadBits(width uint) (uint64, error) {
	if width == 0 {
		return 0, nil
	}
	if uint(r.BitsRemaining()) < width {
		return 0, cerr.New("bitio.ReadBits", cerr.Truncated, "not enough bits remaining")
	}

	var v uint64
	remaining := width
	for remaining > 0 {
		avail := 8 - r.bitPos
		take := remaining
		if take > avail {
			take = avail
		}

		cur := r.buf[r.bytePos]
		shift := avail - take
		chunk := (cur >> shift) & ((1 << take) - 1)
		v = (v << take) | uint64(chunk)

		r.bitPos += take
		if r.bitPos == 8 {
			r.bitPos = 0
			r.bytePos++
		}
		remaining -= take
	}
	return v, nil
}
