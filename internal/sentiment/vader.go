package sentiment

import (
	"context"

	"github.com/jonreiter/govader"
)

// VaderClassifier is a lexicon baseline. The compound score is already a
// normalized signed value in [-1, 1] and is used as the chunk score.
type VaderClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderClassifier) Name() string {
	return "vader"
}

func (v *VaderClassifier) ScoreChunks(ctx context.Context, chunks []string) ([]float64, error) {
	scores := make([]float64, 0, len(chunks))
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		s := v.analyzer.PolarityScores(chunk)
		scores = append(scores, s.Compound)
	}
	return scores, nil
}
