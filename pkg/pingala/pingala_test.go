package pingala_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	merr "github.com/matzehuels/meru/pkg/errors"
	"github.com/matzehuels/meru/pkg/pingala"
	"github.com/matzehuels/meru/pkg/triangle"
)

var (
	s = pingala.Short
	l = pingala.Long
)

func TestEnumerate_LengthZero(t *testing.T) {
	seqs, err := pingala.Enumerate(0)
	require.NoError(t, err)
	require.Len(t, seqs, 1)
	assert.Empty(t, seqs[0])
}

func TestEnumerate_Invalid(t *testing.T) {
	_, err := pingala.Enumerate(-1)
	assert.True(t, merr.Is(err, merr.ErrCodeInvalidArgument))

	_, err = pingala.Enumerate(pingala.MaxLength + 1)
	assert.True(t, merr.Is(err, merr.ErrCodeInvalidArgument))

	_, err = pingala.Stream(-1)
	assert.True(t, merr.Is(err, merr.ErrCodeInvalidArgument))
}

func TestEnumerate_LengthTwo(t *testing.T) {
	seqs, err := pingala.Enumerate(2)
	require.NoError(t, err)
	assert.Equal(t, []pingala.Sequence{{s, s}, {s, l}, {l, s}, {l, l}}, seqs)
}

func TestEnumerate_RecursiveSelfConsistency(t *testing.T) {
	for n := 1; n <= 10; n++ {
		prev, err := pingala.Enumerate(n - 1)
		require.NoError(t, err)
		cur, err := pingala.Enumerate(n)
		require.NoError(t, err)

		var want []pingala.Sequence
		for _, p := range prev {
			want = append(want, append(pingala.Sequence{s}, p...))
		}
		for _, p := range prev {
			want = append(want, append(pingala.Sequence{l}, p...))
		}
		assert.Equal(t, want, cur, "length %d", n)
	}
}

func TestEnumerate_CountDistinctAndHalves(t *testing.T) {
	for n := 0; n <= 12; n++ {
		seqs, err := pingala.Enumerate(n)
		require.NoError(t, err)
		require.Len(t, seqs, 1<<n)

		seen := make(map[string]bool, len(seqs))
		for i, seq := range seqs {
			require.Len(t, seq, n)
			seen[seq.String()] = true
			assert.Equal(t, uint64(i), seq.Index(), "pattern %s", seq)
			if n == 0 {
				continue
			}
			if i < len(seqs)/2 {
				assert.Equal(t, s, seq[0], "first half starts short")
			} else {
				assert.Equal(t, l, seq[0], "second half starts long")
			}
		}
		assert.Len(t, seen, 1<<n, "patterns of length %d must be distinct", n)
	}
}

func TestEnumerate_NoSharedState(t *testing.T) {
	seqs, err := pingala.Enumerate(3)
	require.NoError(t, err)
	seqs[0][0] = l

	again, err := pingala.Enumerate(3)
	require.NoError(t, err)
	assert.Equal(t, "|||", again[0].String())
}

func TestStream_MatchesEnumerate(t *testing.T) {
	want, err := pingala.Enumerate(8)
	require.NoError(t, err)

	seq, err := pingala.Stream(8)
	require.NoError(t, err)

	var got []pingala.Sequence
	for p := range seq {
		got = append(got, p)
	}
	assert.Equal(t, want, got)
}

func TestStream_EarlyStop(t *testing.T) {
	seq, err := pingala.Stream(pingala.MaxStreamLength)
	require.NoError(t, err)

	n := 0
	for p := range seq {
		assert.Len(t, p, pingala.MaxStreamLength)
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

func TestCount(t *testing.T) {
	c, err := pingala.Count(8)
	require.NoError(t, err)
	assert.Equal(t, uint64(256), c)

	_, err = pingala.Count(pingala.MaxStreamLength + 1)
	assert.Error(t, err)
}

func TestCountByLong_MatchesTriangle(t *testing.T) {
	rows, err := triangle.Build(11)
	require.NoError(t, err)
	for n := 0; n <= 10; n++ {
		counts, err := pingala.CountByLong(n)
		require.NoError(t, err)
		assert.Equal(t, []uint64(rows[n]), counts, "length %d", n)
	}
}

func TestSequence_Strings(t *testing.T) {
	seq := pingala.Sequence{s, l, l}
	assert.Equal(t, "|SS", seq.String())
	assert.Equal(t, []string{"short", "long", "long"}, seq.Names())
	assert.Equal(t, 2, seq.Longs())
}

func TestParseSequence(t *testing.T) {
	tests := []struct {
		in      string
		want    pingala.Sequence
		wantErr bool
	}{
		{"|S|", pingala.Sequence{s, l, s}, false},
		{"010", pingala.Sequence{s, l, s}, false},
		{"", pingala.Sequence{}, false},
		{"|x", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := pingala.ParseSequence(tt.in)
			if tt.wantErr {
				assert.True(t, merr.Is(err, merr.ErrCodeInvalidArgument))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
