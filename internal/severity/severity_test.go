package severity

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/spacesedan/reviewflow/internal/chunking"
	"github.com/spacesedan/reviewflow/internal/models"
	"github.com/spacesedan/reviewflow/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClassifier returns fixed scores in order, cycling when it runs out.
type stubClassifier struct {
	scores []float64
	calls  [][]string
	err    error
	short  bool
}

func (s *stubClassifier) Name() string { return "stub" }

func (s *stubClassifier) ScoreChunks(_ context.Context, chunks []string) ([]float64, error) {
	s.calls = append(s.calls, chunks)
	if s.err != nil {
		return nil, s.err
	}
	out := make([]float64, len(chunks))
	for i := range chunks {
		out[i] = s.scores[i%len(s.scores)]
	}
	if s.short {
		out = out[:len(out)-1]
	}
	return out, nil
}

func newScorer(t *testing.T, c sentiment.Classifier, size int) *Scorer {
	t.Helper()
	s, err := NewScorer(c, size)
	require.NoError(t, err)
	return s
}

func TestSeverity_EndToEndExample(t *testing.T) {
	stub := &stubClassifier{scores: []float64{0.3}}
	s := newScorer(t, stub, chunking.DefaultChunkSize)
	ctx := context.Background()

	pos, err := s.Severity(ctx, "aaaa", models.Positive)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, pos, 1e-12)

	neg, err := s.Severity(ctx, "aaaa", models.Negative)
	require.NoError(t, err)
	assert.InDelta(t, -0.3, neg, 1e-12)

	require.Len(t, stub.calls, 2)
	assert.Equal(t, []string{"aaaa"}, stub.calls[0])
}

func TestSeverity_LabelForcesSign(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		label  models.Sentiment
		want   float64
	}{
		{"positive label, negative model", []float64{-0.8}, models.Positive, 0.8},
		{"negative label, positive model", []float64{0.6}, models.Negative, -0.6},
		{"negative label, negative model", []float64{-0.4}, models.Negative, -0.4},
		{"positive label, positive model", []float64{0.9}, models.Positive, 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScorer(t, &stubClassifier{scores: tt.scores}, 10)
			got, err := s.Severity(context.Background(), "some text", tt.label)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestSeverity_UnweightedMean(t *testing.T) {
	// 25 characters in chunks of 10: two full chunks and a 5 character tail.
	stub := &stubClassifier{scores: []float64{0.9, 0.3, -0.6}}
	s := newScorer(t, stub, 10)

	got, err := s.Severity(context.Background(), strings.Repeat("z", 25), models.Positive)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, got, 1e-12)

	require.Len(t, stub.calls, 1, "all chunks go out in a single batch")
	assert.Len(t, stub.calls[0], 3)
}

func TestSeverity_EmptyText(t *testing.T) {
	stub := &stubClassifier{err: errors.New("must not be called")}
	s := newScorer(t, stub, 800)

	for _, label := range []models.Sentiment{models.Positive, models.Negative} {
		got, err := s.Severity(context.Background(), "", label)
		require.NoError(t, err)
		assert.Equal(t, 0.0, got)
	}
	assert.Empty(t, stub.calls)
}

func TestSeverity_Invariants(t *testing.T) {
	scoreSets := [][]float64{{1}, {-1}, {0}, {0.5, -0.5}, {-0.2, -0.9, 0.1}, {1, 1, -1}}
	texts := []string{"a", "hello world", strings.Repeat("review ", 300)}

	for _, scores := range scoreSets {
		for _, text := range texts {
			for _, label := range []models.Sentiment{models.Positive, models.Negative} {
				s := newScorer(t, &stubClassifier{scores: scores}, 800)
				got, err := s.Severity(context.Background(), text, label)
				require.NoError(t, err)

				assert.LessOrEqual(t, math.Abs(got), 1.0)
				if got != 0 {
					assert.Equal(t, label.Sign(), math.Copysign(1, got))
				}
			}
		}
	}
}

func TestSeverity_ClassifierError(t *testing.T) {
	boom := errors.New("boom")
	s := newScorer(t, &stubClassifier{err: boom}, 800)
	_, err := s.Severity(context.Background(), "text", models.Positive)
	assert.ErrorIs(t, err, boom)
}

func TestSeverity_ScoreCountMismatch(t *testing.T) {
	s := newScorer(t, &stubClassifier{scores: []float64{0.1}, short: true}, 2)
	_, err := s.Severity(context.Background(), "abcd", models.Positive)
	assert.ErrorIs(t, err, sentiment.ErrScoreCount)
}

func TestSeverityForLabel(t *testing.T) {
	s := newScorer(t, &stubClassifier{scores: []float64{0.5}}, 800)

	got, err := s.SeverityForLabel(context.Background(), "fine", "NEGATIVE")
	require.NoError(t, err)
	assert.InDelta(t, -0.5, got, 1e-12)

	_, err = s.SeverityForLabel(context.Background(), "fine", "mixed")
	assert.ErrorIs(t, err, models.ErrUnknownSentiment)
}

func TestNewScorer_InvalidSize(t *testing.T) {
	_, err := NewScorer(&stubClassifier{}, 0)
	assert.ErrorIs(t, err, chunking.ErrInvalidSize)
}
