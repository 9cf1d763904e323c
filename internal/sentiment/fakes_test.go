package sentiment

import (
	"context"
	"errors"
	"sync"
)

// countingClassifier scores a chunk as its length divided by 100 and records
// every batch it receives.
type countingClassifier struct {
	mu      sync.Mutex
	batches [][]string
	err     error
}

func (c *countingClassifier) Name() string { return "counting" }

func (c *countingClassifier) ScoreChunks(_ context.Context, chunks []string) ([]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, append([]string(nil), chunks...))
	if c.err != nil {
		return nil, c.err
	}
	scores := make([]float64, len(chunks))
	for i, chunk := range chunks {
		scores[i] = float64(len(chunk)) / 100
	}
	return scores, nil
}

type memoryCache struct {
	scores  map[string]float64
	getErr  error
	setErr  error
	setSize []int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{scores: map[string]float64{}}
}

func (m *memoryCache) GetScores(_ context.Context, keys []string) (map[string]float64, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	found := map[string]float64{}
	for _, k := range keys {
		if v, ok := m.scores[k]; ok {
			found[k] = v
		}
	}
	return found, nil
}

func (m *memoryCache) SetScores(_ context.Context, scores map[string]float64) error {
	m.setSize = append(m.setSize, len(scores))
	if m.setErr != nil {
		return m.setErr
	}
	for k, v := range scores {
		m.scores[k] = v
	}
	return nil
}

var errBoom = errors.New("boom")
