package pingala

import (
	"iter"
	"strings"

	merr "github.com/matzehuels/meru/pkg/errors"
)

const (
	// MaxLength is the largest length [Enumerate] materializes (2^20 patterns).
	MaxLength = 20

	// MaxStreamLength is the largest length [Stream] accepts. The pattern index
	// must fit in a uint64 counter.
	MaxStreamLength = 62
)

// Symbol is one syllable weight.
type Symbol uint8

const (
	// Short is a laghu syllable, the cleared bit.
	Short Symbol = 0
	// Long is a guru syllable, the set bit.
	Long Symbol = 1
)

// String returns "|" for Short and "S" for Long.
func (s Symbol) String() string {
	if s == Long {
		return "S"
	}
	return "|"
}

// Name returns "short" or "long".
func (s Symbol) Name() string {
	if s == Long {
		return "long"
	}
	return "short"
}

// Sequence is one metrical pattern.
type Sequence []Symbol

// String renders the pattern with "|" and "S".
func (s Sequence) String() string {
	var b strings.Builder
	b.Grow(len(s))
	for _, sym := range s {
		b.WriteString(sym.String())
	}
	return b.String()
}

// Names returns the pattern as "short"/"long" words.
func (s Sequence) Names() []string {
	out := make([]string, len(s))
	for i, sym := range s {
		out[i] = sym.Name()
	}
	return out
}

// Longs returns the number of Long syllables in the pattern.
func (s Sequence) Longs() int {
	n := 0
	for _, sym := range s {
		if sym == Long {
			n++
		}
	}
	return n
}

// Index returns the position of s in the enumeration of its length.
func (s Sequence) Index() uint64 {
	var idx uint64
	for _, sym := range s {
		idx = idx<<1 | uint64(sym)
	}
	return idx
}

// ParseSequence parses a pattern written with "|" (or "0") for short and
// "S" (or "1") for long.
func ParseSequence(text string) (Sequence, error) {
	seq := make(Sequence, 0, len(text))
	for _, r := range text {
		switch r {
		case '|', '0':
			seq = append(seq, Short)
		case 'S', 's', '1':
			seq = append(seq, Long)
		default:
			return nil, merr.New(merr.ErrCodeInvalidArgument, "invalid syllable %q in %q", r, text)
		}
	}
	return seq, nil
}

// Count returns the number of patterns of the given length, 2^length.
func Count(length int) (uint64, error) {
	if err := merr.ValidateRange("length", length, 0, MaxStreamLength); err != nil {
		return 0, err
	}
	return uint64(1) << length, nil
}

// Enumerate returns every pattern of the given length in enumeration order.
// Length 0 yields a single empty pattern.
//
// It returns an INVALID_ARGUMENT error if length < 0 or length > MaxLength.
func Enumerate(length int) ([]Sequence, error) {
	if err := merr.ValidateRange("length", length, 0, MaxLength); err != nil {
		return nil, err
	}

	n := uint64(1) << length
	out := make([]Sequence, 0, n)
	for i := range n {
		out = append(out, decode(i, length))
	}
	return out, nil
}

// Stream returns an iterator over every pattern of the given length, in the
// same order as [Enumerate]. Each yielded Sequence is freshly allocated.
func Stream(length int) (iter.Seq[Sequence], error) {
	if err := merr.ValidateRange("length", length, 0, MaxStreamLength); err != nil {
		return nil, err
	}

	n := uint64(1) << length
	return func(yield func(Sequence) bool) {
		for i := range n {
			if !yield(decode(i, length)) {
				return
			}
		}
	}, nil
}

// CountByLong returns, for k = 0..length, how many patterns of the given
// length contain exactly k long syllables. The result equals row length of
// the triangle.
func CountByLong(length int) ([]uint64, error) {
	if err := merr.ValidateRange("length", length, 0, MaxLength); err != nil {
		return nil, err
	}
	seqs, err := Stream(length)
	if err != nil {
		return nil, err
	}
	counts := make([]uint64, length+1)
	for s := range seqs {
		counts[s.Longs()]++
	}
	return counts, nil
}

// decode spells index i as a length-symbol pattern, most significant first.
func decode(i uint64, length int) Sequence {
	seq := make(Sequence, length)
	for pos := length - 1; pos >= 0; pos-- {
		seq[pos] = Symbol(i & 1)
		i >>= 1
	}
	return seq
}
