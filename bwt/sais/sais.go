// Package sais builds suffix arrays in linear time using the SA-IS
// algorithm (induced sorting over S-type/L-type suffix classification and
// recursive reduction of LMS substrings).
//
// The implementation follows the classic description of SA-IS: classify
// suffixes, bucket-sort the LMS suffixes, induce-sort L-type suffixes
// left-to-right and S-type suffixes right-to-left, name the LMS substrings,
// and recurse on the named summary string when names are not already
// unique.
package sais

// BuildSuffixArray returns the sorted suffix array of data over an
// alphabet of the given size (every value in data must be < alphabetSize).
// The returned array has length len(data)+1: index 0 always holds
// len(data), the position of the conceptual empty suffix, which sorts
// before every real suffix.
func BuildSuffixArray(data []int32, alphabetSize int) []int32 {
	types := suffixTypes(data)

	bucketSizes := computeBucketSizes(data, alphabetSize)
	heads := bucketHeads(bucketSizes)
	tails := bucketTails(bucketSizes)

	sa := approximateLMSOrder(data, append([]int32(nil), tails...), types)
	induceSortL(data, sa, append([]int32(nil), heads...), types)
	induceSortS(data, sa, append([]int32(nil), tails...), types)

	names, alphaSize := nameLMSSubstrings(data, sa, types)
	summary, summaryToOffset := summarize(names)

	var summarySA []int32
	if len(summary) == alphaSize {
		// Every name is unique: the summary's suffix array is a direct
		// bucket sort.
		summarySA = make([]int32, len(summary)+1)
		for i := range summarySA {
			summarySA[i] = -1
		}
		summarySA[0] = int32(len(summary))
		for i, v := range summary {
			summarySA[v+1] = int32(i)
		}
	} else {
		summarySA = BuildSuffixArray(summary, alphaSize)
	}

	accurate := accurateLMSOrder(data, append([]int32(nil), tails...), summarySA, summaryToOffset)
	induceSortL(data, accurate, heads, types)
	induceSortS(data, accurate, tails, types)

	return accurate
}

type suffixType bool

const (
	sType suffixType = true
	lType suffixType = false
)

// suffixTypes classifies every suffix of data, including the empty suffix
// at index len(data), which is always S-type.
func suffixTypes(data []int32) []suffixType {
	n := len(data)
	types := make([]suffixType, n+1)
	types[n] = sType
	if n == 0 {
		return types
	}
	types[n-1] = lType
	for i := n - 2; i >= 0; i-- {
		switch {
		case data[i] > data[i+1]:
			types[i] = lType
		case data[i] < data[i+1]:
			types[i] = sType
		default:
			types[i] = types[i+1]
		}
	}
	return types
}

func computeBucketSizes(data []int32, alphabetSize int) []int32 {
	sizes := make([]int32, alphabetSize)
	for _, v := range data {
		sizes[v]++
	}
	return sizes
}

// bucketHeads maps a symbol to the first suffix-array slot of its bucket,
// reserving slot 0 for the empty suffix.
func bucketHeads(sizes []int32) []int32 {
	heads := make([]int32, len(sizes))
	offset := int32(1)
	for i, size := range sizes {
		heads[i] = offset
		offset += size
	}
	return heads
}

// bucketTails maps a symbol to the last suffix-array slot of its bucket.
func bucketTails(sizes []int32) []int32 {
	tails := make([]int32, len(sizes))
	offset := int32(1)
	for i, size := range sizes {
		offset += size
		tails[i] = offset - 1
	}
	return tails
}

func isLMS(types []suffixType, i int) bool {
	if i == 0 {
		return false
	}
	return types[i] == sType && types[i-1] == lType
}

// approximateLMSOrder bucket-sorts the LMS suffixes to the tails of their
// buckets, leaving every other slot as -1. tails is consumed (decremented
// in place).
func approximateLMSOrder(data []int32, tails []int32, types []suffixType) []int32 {
	n := len(data)
	sa := make([]int32, n+1)
	for i := range sa {
		sa[i] = -1
	}
	for i := 0; i < n; i++ {
		if !isLMS(types, i) {
			continue
		}
		b := data[i]
		sa[tails[b]] = int32(i)
		tails[b]--
	}
	sa[0] = int32(n)
	return sa
}

// induceSortL fills in L-type suffixes left-to-right using already-placed
// suffixes to their right. heads is consumed (incremented in place).
func induceSortL(data []int32, sa []int32, heads []int32, types []suffixType) {
	for i := 0; i < len(sa); i++ {
		if sa[i] <= 0 {
			continue
		}
		j := sa[i] - 1
		if types[j] != lType {
			continue
		}
		b := data[j]
		sa[heads[b]] = j
		heads[b]++
	}
}

// induceSortS fills in S-type suffixes right-to-left using already-placed
// suffixes to their right. tails is consumed (decremented in place).
func induceSortS(data []int32, sa []int32, tails []int32, types []suffixType) {
	for i := len(sa) - 1; i >= 0; i-- {
		if sa[i] <= 0 {
			continue
		}
		j := sa[i] - 1
		if types[j] != sType {
			continue
		}
		b := data[j]
		sa[tails[b]] = j
		tails[b]--
	}
}

// lmsSubstringsEqual compares the LMS substrings starting at offset1 and
// offset2 for equality.
func lmsSubstringsEqual(data []int32, types []suffixType, offset1, offset2 int) bool {
	n := len(data)
	if offset1 == n || offset2 == n {
		return false
	}
	for i := 0; ; i++ {
		lms1, lms2 := isLMS(types, offset1+i), isLMS(types, offset2+i)
		if i > 0 && lms1 && lms2 {
			return true
		}
		if lms1 != lms2 {
			return false
		}
		if data[offset1+i] != data[offset2+i] {
			return false
		}
	}
}

// nameLMSSubstrings assigns a dense integer name to each distinct LMS
// substring found (in order) in the approximate suffix array sa. It
// returns a mapping from LMS start offset to name (-1 for non-LMS
// offsets) and the size of the resulting name alphabet.
func nameLMSSubstrings(data []int32, sa []int32, types []suffixType) ([]int32, int) {
	n := len(data)
	names := make([]int32, n+1)
	for i := range names {
		names[i] = -1
	}

	name := int32(0)
	last := sa[0]
	names[last] = name
	for _, offset := range sa[1:] {
		if !isLMS(types, int(offset)) {
			continue
		}
		if !lmsSubstringsEqual(data, types, int(last), int(offset)) {
			name++
		}
		last = offset
		names[offset] = name
	}
	return names, int(name) + 1
}

// summarize collects the non-missing names into a summary string, along
// with a mapping from summary index back to the original LMS offset.
func summarize(names []int32) ([]int32, []int32) {
	var summary, offsets []int32
	for offset, name := range names {
		if name < 0 {
			continue
		}
		summary = append(summary, name)
		offsets = append(offsets, int32(offset))
	}
	return summary, offsets
}

// accurateLMSOrder places the LMS suffixes into their fully sorted
// positions using the summary suffix array, leaving every other slot as
// -1. tails is consumed (decremented in place).
func accurateLMSOrder(data []int32, tails []int32, summarySA []int32, summaryToOffset []int32) []int32 {
	n := len(data)
	sa := make([]int32, n+1)
	for i := range sa {
		sa[i] = -1
	}
	for i := len(summarySA) - 1; i >= 2; i-- {
		offset := summaryToOffset[summarySA[i]]
		b := data[offset]
		sa[tails[b]] = offset
		tails[b]--
	}
	sa[0] = int32(n)
	return sa
}
