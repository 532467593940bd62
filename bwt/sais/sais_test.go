package sais

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"
)

// bruteForceSuffixArray computes the suffix array of data+sentinel by
// sorting all suffixes directly, for use as an oracle in tests. The
// sentinel is represented implicitly: the empty suffix at index len(data)
// always sorts first.
func bruteForceSuffixArray(data []int32) []int32 {
	n := len(data)
	indices := make([]int32, n+1)
	for i := range indices {
		indices[i] = int32(i)
	}
	sort.Slice(indices, func(a, b int) bool {
		ia, ib := int(indices[a]), int(indices[b])
		if ia == n {
			return ib != n
		}
		if ib == n {
			return false
		}
		for ia < n && ib < n {
			if data[ia] != data[ib] {
				return data[ia] < data[ib]
			}
			ia++
			ib++
		}
		// The suffix that runs out first (hits the sentinel) is smaller.
		return ia == n && ib != n
	})
	return indices
}

func TestAgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(40)
		data := make([]int32, n)
		alphabet := int32(1 + rng.Intn(4)) // small alphabet to force ties
		for i := range data {
			data[i] = rng.Int31n(alphabet)
		}

		got := BuildSuffixArray(data, int(alphabet))
		want := bruteForceSuffixArray(data)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("trial %d: data=%v\n got=%v\nwant=%v", trial, data, got, want)
		}
	}
}

func TestEmptyInput(t *testing.T) {
	sa := BuildSuffixArray(nil, 1)
	if len(sa) != 1 || sa[0] != 0 {
		t.Fatalf("BuildSuffixArray(nil) = %v, want [0]", sa)
	}
}

func TestSingleByte(t *testing.T) {
	sa := BuildSuffixArray([]int32{5}, 256)
	want := []int32{1, 0}
	if !reflect.DeepEqual(sa, want) {
		t.Fatalf("got %v, want %v", sa, want)
	}
}

func TestAllEqualBytes(t *testing.T) {
	data := []int32{7, 7, 7, 7}
	sa := BuildSuffixArray(data, 256)
	want := bruteForceSuffixArray(data)
	if !reflect.DeepEqual(sa, want) {
		t.Fatalf("got %v, want %v", sa, want)
	}
}
