package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/spacesedan/reviewflow/internal/models"
)

const llmPrompt = `You are a three-class sentiment classifier for movie reviews.
You receive a JSON array of text chunks. For each chunk, in order, return the
probability that it is negative, neutral, and positive. The three
probabilities for a chunk must sum to 1.

You MUST return only valid JSON, formatted exactly as follows:
{"chunks": [{"negative": 0.0, "neutral": 0.0, "positive": 0.0}]}

Return exactly one entry per input chunk. No Markdown, no extra text.`

// Completer is satisfied by clients.OpenAIClient.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// LLMClassifier treats a chat model as the three-class classifier.
type LLMClassifier struct {
	completer Completer
	name      string
}

func NewLLMClassifier(completer Completer, modelName string) *LLMClassifier {
	return &LLMClassifier{completer: completer, name: modelName}
}

func (l *LLMClassifier) Name() string {
	return l.name
}

func (l *LLMClassifier) ScoreChunks(ctx context.Context, chunks []string) ([]float64, error) {
	if len(chunks) == 0 {
		return []float64{}, nil
	}

	input, err := json.Marshal(chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chunks: %w", err)
	}

	raw, err := l.completer.Complete(ctx, llmPrompt, string(input))
	if err != nil {
		return nil, fmt.Errorf("llm classification failed: %w", err)
	}

	var resp models.ClassProbabilitiesResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse llm response: %w", err)
	}
	if err := checkCount(len(chunks), len(resp.Chunks)); err != nil {
		return nil, err
	}

	scores := make([]float64, len(resp.Chunks))
	for i, p := range resp.Chunks {
		for _, v := range []float64{p.Negative, p.Neutral, p.Positive} {
			if math.IsNaN(v) || v < 0 || v > 1 {
				return nil, fmt.Errorf("chunk %d: %w: %v", i, ErrProbability, v)
			}
		}
		total := p.Negative + p.Neutral + p.Positive
		if total <= 0 {
			return nil, fmt.Errorf("chunk %d: %w: probabilities sum to %v", i, ErrMissingClass, total)
		}
		// models rarely return an exact distribution
		scores[i] = (p.Positive - p.Negative) / total
	}
	return scores, nil
}
