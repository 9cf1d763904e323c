package chunking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// verifyPartition checks that chunks cover text exactly once, in order, and
// that every chunk except the last has exactly size characters.
func verifyPartition(t *testing.T, text string, size int, chunks []string) {
	t.Helper()
	assert.Equal(t, text, strings.Join(chunks, ""), "concatenation must reproduce input")
	assert.Len(t, chunks, Count(text, size))
	for i, c := range chunks {
		assert.NotEmpty(t, c, "chunk %d is empty", i)
		if i < len(chunks)-1 {
			assert.Equal(t, size, Length(c), "chunk %d has wrong length", i)
		} else {
			assert.LessOrEqual(t, Length(c), size, "last chunk too long")
		}
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		size  int
		want  []string
	}{
		{"empty", "", 800, []string{}},
		{"shorter than size", "aaaa", 800, []string{"aaaa"}},
		{"exact fit", "abcde", 5, []string{"abcde"}},
		{"two full chunks", "abcdefghij", 5, []string{"abcde", "fghij"}},
		{"short tail", "abcdefg", 3, []string{"abc", "def", "g"}},
		{"size one", "abc", 1, []string{"a", "b", "c"}},
		{"multibyte runes", "héllo wörld", 4, []string{"héll", "o wö", "rld"}},
		{"emoji", "😀😁😂", 2, []string{"😀😁", "😂"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.input, tt.size)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			verifyPartition(t, tt.input, tt.size, got)
		})
	}
}

func TestSplit_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1, -800} {
		_, err := Split("hello", size)
		assert.ErrorIs(t, err, ErrInvalidSize)

		_, err = Chunks("hello", size)
		assert.ErrorIs(t, err, ErrInvalidSize)
	}
}

func TestSplit_InvalidUTF8(t *testing.T) {
	input := "ab\xff\xfecd"
	got, err := Split(input, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"ab", "\xff\xfe", "cd"}, got)
	verifyPartition(t, input, 2, got)
}

func TestSplit_DefaultSizeLongReview(t *testing.T) {
	input := strings.Repeat("x", 2*DefaultChunkSize+17)
	got, err := Split(input, DefaultChunkSize)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Len(t, got[2], 17)
	verifyPartition(t, input, DefaultChunkSize, got)
}

func TestChunks_Restartable(t *testing.T) {
	seq, err := Chunks("abcdefgh", 3)
	require.NoError(t, err)

	var first, second []string
	for c := range seq {
		first = append(first, c)
	}
	for c := range seq {
		second = append(second, c)
	}
	assert.Equal(t, []string{"abc", "def", "gh"}, first)
	assert.Equal(t, first, second)
}

func TestChunks_EarlyStop(t *testing.T) {
	seq, err := Chunks("abcdefgh", 3)
	require.NoError(t, err)

	var got []string
	for c := range seq {
		got = append(got, c)
		break
	}
	assert.Equal(t, []string{"abc"}, got)
}

func TestCount(t *testing.T) {
	assert.Equal(t, 0, Count("", 5))
	assert.Equal(t, 1, Count("a", 5))
	assert.Equal(t, 2, Count("abcdef", 5))
	assert.Equal(t, 0, Count("abc", 0))
}
