package sentiment

import (
	"context"
	"fmt"

	"github.com/spacesedan/reviewflow/internal/models"
)

// Predictor is satisfied by clients.HuggingFaceClient.
type Predictor interface {
	Predict(ctx context.Context, input models.PredictRequest) (models.PredictResponse, error)
}

// RemoteClassifier asks an inference server for raw logits with truncation
// enabled and applies softmax locally.
type RemoteClassifier struct {
	predictor Predictor
	name      string
}

func NewRemoteClassifier(predictor Predictor, modelName string) *RemoteClassifier {
	return &RemoteClassifier{predictor: predictor, name: modelName}
}

func (r *RemoteClassifier) Name() string {
	return r.name
}

func (r *RemoteClassifier) ScoreChunks(ctx context.Context, chunks []string) ([]float64, error) {
	if len(chunks) == 0 {
		return []float64{}, nil
	}

	resp, err := r.predictor.Predict(ctx, models.PredictRequest{
		Inputs:    chunks,
		RawScores: true,
		Truncate:  true,
	})
	if err != nil {
		return nil, err
	}
	if err := checkCount(len(chunks), len(resp)); err != nil {
		return nil, err
	}

	scores := make([]float64, len(resp))
	for i, labels := range resp {
		classes := make([]LabeledScore, len(labels))
		for j, l := range labels {
			classes[j] = LabeledScore{Label: l.Label, Score: l.Score}
		}
		scores[i], err = ChunkScoreFromLogits(classes)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
	}
	return scores, nil
}
