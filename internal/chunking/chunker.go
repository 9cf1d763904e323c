// Package chunking splits review text into fixed-size, non-overlapping
// character chunks so long documents fit a classifier's input window.
//
// A character is a Unicode code point. Invalid UTF-8 bytes count as one
// character each, so joining the chunks in order always reproduces the
// input byte for byte.
package chunking

import (
	"errors"
	"fmt"
	"iter"
	"unicode/utf8"
)

const DefaultChunkSize = 800

var ErrInvalidSize = errors.New("chunk size must be positive")

// Split returns the chunks of text in order. Empty text yields no chunks.
func Split(text string, size int) ([]string, error) {
	seq, err := Chunks(text, size)
	if err != nil {
		return nil, err
	}

	chunks := make([]string, 0, Count(text, size))
	for c := range seq {
		chunks = append(chunks, c)
	}
	return chunks, nil
}

// Chunks returns a restartable sequence over the chunks of text.
func Chunks(text string, size int) (iter.Seq[string], error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	return func(yield func(string) bool) {
		start, chars := 0, 0
		for i := 0; i < len(text); {
			_, width := utf8.DecodeRuneInString(text[i:])
			i += width
			chars++
			if chars == size {
				if !yield(text[start:i]) {
					return
				}
				start, chars = i, 0
			}
		}
		if start < len(text) {
			yield(text[start:])
		}
	}, nil
}

// Count returns ceil(characters/size), or 0 when size is not positive.
func Count(text string, size int) int {
	if size <= 0 {
		return 0
	}
	n := Length(text)
	return (n + size - 1) / size
}

// Length counts characters the same way the chunker does.
func Length(text string) int {
	n := 0
	for i := 0; i < len(text); {
		_, width := utf8.DecodeRuneInString(text[i:])
		i += width
		n++
	}
	return n
}
