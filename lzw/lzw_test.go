package lzw

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/kestrelbyte/comptool/cerr"
)

func TestClassicRoundTrip(t *testing.T) {
	data := []byte("TOBEORNOTTOBEORTOBEORNOT")
	compressed, err := Compress(data, Medium)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	got, err := Decompress(compressed, Medium)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip: got %q, want %q", got, data)
	}
}

func TestEmptyInput(t *testing.T) {
	compressed, err := Compress(nil, Medium)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(compressed) != 0 {
		t.Fatalf("Compress(nil) = %v, want empty", compressed)
	}
	got, err := Decompress(compressed, Medium)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Decompress(empty) = %v, want empty", got)
	}
}

func TestOverflowAbort(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	data := make([]byte, 10_000)
	for i := range data {
		data[i] = byte(rng.Intn(256))
	}

	opts := Options{MaxEntries: 1_000, Overflow: Abort}
	_, err := Compress(data, opts)
	if err == nil {
		t.Fatal("Compress: expected OutOfMemory error, got nil")
	}
	if !cerr.Is(err, cerr.OutOfMemory) {
		t.Fatalf("Compress: got %v, want OutOfMemory", err)
	}
}

func TestOverflowAbortExactFit(t *testing.T) {
	// "AB" needs exactly 257 entries: the 256 single-byte codes plus one
	// new entry for "AB". Reaching MaxEntries exactly must succeed; only
	// exceeding it should fail.
	opts := Options{MaxEntries: 257, Overflow: Abort}
	compressed, err := Compress([]byte("AB"), opts)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	got, err := Decompress(compressed, opts)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, []byte("AB")) {
		t.Fatalf("round trip: got %q, want %q", got, "AB")
	}
}

func TestOverflowStopStore(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	data := make([]byte, 10_000)
	for i := range data {
		data[i] = byte(rng.Intn(256))
	}

	opts := Options{MaxEntries: 1_000, Overflow: StopStore}
	compressed, err := Compress(data, opts)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	got, err := Decompress(compressed, opts)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("round trip mismatch under StopStore overflow policy")
	}
}

func TestUnlimited(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefgh"), 5000)
	compressed, err := Compress(data, Options{Overflow: Unlimited})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	got, err := Decompress(compressed, Options{Overflow: Unlimited})
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("round trip mismatch under Unlimited overflow policy")
	}
}

func TestInvalidOptions(t *testing.T) {
	_, err := Compress([]byte("x"), Options{MaxEntries: -1})
	if !cerr.Is(err, cerr.InvalidOption) {
		t.Fatalf("got %v, want InvalidOption", err)
	}
}

func TestSingleByteRepeats(t *testing.T) {
	data := bytes.Repeat([]byte{0x42}, 300)
	compressed, err := Compress(data, Small)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	got, err := Decompress(compressed, Small)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatal("round trip mismatch on single-byte-repeat input")
	}
}

func TestRandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	for i := 0; i < 30; i++ {
		data := make([]byte, rng.Intn(2000))
		for j := range data {
			data[j] = byte(rng.Intn(16)) // small alphabet, encourages long matches
		}
		compressed, err := Compress(data, Large)
		if err != nil {
			t.Fatalf("iteration %d: Compress: %v", i, err)
		}
		got, err := Decompress(compressed, Large)
		if err != nil {
			t.Fatalf("iteration %d: Decompress: %v", i, err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("iteration %d: round trip mismatch", i)
		}
	}
}

func TestDecompressTruncated(t *testing.T) {
	_, err := Decompress([]byte{2, 0x01}, Medium)
	if !cerr.Is(err, cerr.Truncated) {
		t.Fatalf("got %v, want Truncated", err)
	}
}

func TestDecompressCorruptCode(t *testing.T) {
	// A code length byte of zero is never produced by Compress.
	_, err := Decompress([]byte{0}, Medium)
	if !cerr.Is(err, cerr.Corrupt) {
		t.Fatalf("got %v, want Corrupt", err)
	}
}
