package sentiment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
)

// ScoreCache is satisfied by clients.ValkeyClient.
type ScoreCache interface {
	GetScores(ctx context.Context, keys []string) (map[string]float64, error)
	SetScores(ctx context.Context, scores map[string]float64) error
}

// CachedClassifier serves chunk scores from a cache and only sends misses
// to the wrapped classifier. Cache failures degrade to plain inference.
type CachedClassifier struct {
	inner Classifier
	cache ScoreCache
}

func NewCachedClassifier(inner Classifier, cache ScoreCache) *CachedClassifier {
	return &CachedClassifier{inner: inner, cache: cache}
}

func (c *CachedClassifier) Name() string {
	return c.inner.Name()
}

func (c *CachedClassifier) ScoreChunks(ctx context.Context, chunks []string) ([]float64, error) {
	if len(chunks) == 0 {
		return []float64{}, nil
	}

	keys := make([]string, len(chunks))
	for i, chunk := range chunks {
		keys[i] = c.cacheKey(chunk)
	}

	cached, err := c.cache.GetScores(ctx, keys)
	if err != nil {
		slog.Warn("[CachedClassifier] Cache lookup failed, scoring without cache",
			slog.String("error", err.Error()))
		cached = map[string]float64{}
	}

	var missIdx []int
	var missChunks []string
	for i, key := range keys {
		if _, ok := cached[key]; !ok {
			missIdx = append(missIdx, i)
			missChunks = append(missChunks, chunks[i])
		}
	}

	scores := make([]float64, len(chunks))
	if len(missChunks) > 0 {
		fresh, err := c.inner.ScoreChunks(ctx, missChunks)
		if err != nil {
			return nil, err
		}
		if err := checkCount(len(missChunks), len(fresh)); err != nil {
			return nil, err
		}

		toStore := make(map[string]float64, len(fresh))
		for j, i := range missIdx {
			cached[keys[i]] = fresh[j]
			toStore[keys[i]] = fresh[j]
		}
		if err := c.cache.SetScores(ctx, toStore); err != nil {
			slog.Warn("[CachedClassifier] Failed to store scores",
				slog.String("error", err.Error()))
		}
	}

	for i, key := range keys {
		scores[i] = cached[key]
	}
	return scores, nil
}

func (c *CachedClassifier) cacheKey(chunk string) string {
	sum := sha256.Sum256([]byte(c.inner.Name() + "\x00" + chunk))
	return hex.EncodeToString(sum[:])
}
