// Package sentiment adapts pretrained three-class sentiment classifiers to a
// single signed score per chunk: P(positive) - P(negative).
package sentiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrScoreCount   = errors.New("classifier returned wrong number of scores")
	ErrMissingClass = errors.New("classifier output is missing a class")
	ErrProbability  = errors.New("class probability outside [0, 1]")
)

// Classifier scores a batch of chunks, one score per chunk in input order.
type Classifier interface {
	ScoreChunks(ctx context.Context, chunks []string) ([]float64, error)
	Name() string
}

// LabeledScore is one class of a classifier's output for a single chunk.
type LabeledScore struct {
	Label string
	Score float64
}

const (
	classNegative = "negative"
	classNeutral  = "neutral"
	classPositive = "positive"
)

// canonicalLabel maps model label names to negative/neutral/positive.
// Models exported without an id2label mapping report LABEL_<n>.
func canonicalLabel(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "negative", "neg", "label_0":
		return classNegative
	case "neutral", "neu", "label_1":
		return classNeutral
	case "positive", "pos", "label_2":
		return classPositive
	default:
		return ""
	}
}

// Softmax converts raw logits into probabilities.
func Softmax(logits []float64) []float64 {
	if len(logits) == 0 {
		return nil
	}
	probs := make([]float64, len(logits))
	peak := floats.Max(logits)
	for i, l := range logits {
		probs[i] = math.Exp(l - peak)
	}
	floats.Scale(1/floats.Sum(probs), probs)
	return probs
}

// ChunkScore derives P(positive) - P(negative) from per-class probabilities.
func ChunkScore(classes []LabeledScore) (float64, error) {
	var neg, pos float64
	var hasNeg, hasPos bool
	for _, c := range classes {
		switch canonicalLabel(c.Label) {
		case classNegative:
			neg, hasNeg = c.Score, true
		case classPositive:
			pos, hasPos = c.Score, true
		}
	}
	if !hasNeg || !hasPos {
		return 0, fmt.Errorf("%w: got %d classes", ErrMissingClass, len(classes))
	}
	return pos - neg, nil
}

// ChunkScoreFromLogits applies softmax to raw class scores before ChunkScore.
func ChunkScoreFromLogits(classes []LabeledScore) (float64, error) {
	logits := make([]float64, len(classes))
	for i, c := range classes {
		logits[i] = c.Score
	}
	probs := Softmax(logits)
	normalized := make([]LabeledScore, len(classes))
	for i, c := range classes {
		normalized[i] = LabeledScore{Label: c.Label, Score: probs[i]}
	}
	return ChunkScore(normalized)
}

func checkCount(chunks int, scores int) error {
	if chunks != scores {
		return fmt.Errorf("%w: %d chunks, %d scores", ErrScoreCount, chunks, scores)
	}
	return nil
}
