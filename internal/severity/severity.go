// Package severity maps a whole review to one signed score: how strongly
// the classifier's confidence supports the review's known label.
package severity

import (
	"context"
	"fmt"
	"math"

	"github.com/spacesedan/reviewflow/internal/chunking"
	"github.com/spacesedan/reviewflow/internal/models"
	"github.com/spacesedan/reviewflow/internal/sentiment"
	"gonum.org/v1/gonum/stat"
)

type Scorer struct {
	classifier sentiment.Classifier
	chunkSize  int
}

func NewScorer(classifier sentiment.Classifier, chunkSize int) (*Scorer, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", chunking.ErrInvalidSize, chunkSize)
	}
	return &Scorer{classifier: classifier, chunkSize: chunkSize}, nil
}

func (s *Scorer) ModelName() string {
	return s.classifier.Name()
}

// Severity chunks text, scores every chunk in one batch and averages the
// scores without weighting. The magnitude of the mean is then given the
// sign of label, whatever sign the mean had. Empty text scores 0.
func (s *Scorer) Severity(ctx context.Context, text string, label models.Sentiment) (float64, error) {
	chunks, err := chunking.Split(text, s.chunkSize)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	scores, err := s.classifier.ScoreChunks(ctx, chunks)
	if err != nil {
		return 0, err
	}
	if len(scores) != len(chunks) {
		return 0, fmt.Errorf("%w: %d chunks, %d scores", sentiment.ErrScoreCount, len(chunks), len(scores))
	}

	severity := label.Sign() * math.Abs(stat.Mean(scores, nil))
	if severity == 0 {
		// no negative zero in the output
		return 0, nil
	}
	return severity, nil
}

// SeverityForLabel parses a raw dataset label before scoring.
func (s *Scorer) SeverityForLabel(ctx context.Context, text, rawLabel string) (float64, error) {
	label, err := models.ParseSentiment(rawLabel)
	if err != nil {
		return 0, err
	}
	return s.Severity(ctx, text, label)
}
