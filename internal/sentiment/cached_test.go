package sentiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedClassifier_OnlyScoresMisses(t *testing.T) {
	inner := &countingClassifier{}
	cache := newMemoryCache()
	c := NewCachedClassifier(inner, cache)
	ctx := context.Background()

	first, err := c.ScoreChunks(ctx, []string{"aa", "bbbb"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.02, 0.04}, first)

	second, err := c.ScoreChunks(ctx, []string{"bbbb", "cccccc", "aa"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.04, 0.06, 0.02}, second)

	require.Len(t, inner.batches, 2)
	assert.Equal(t, []string{"aa", "bbbb"}, inner.batches[0])
	assert.Equal(t, []string{"cccccc"}, inner.batches[1])
	assert.Equal(t, "counting", c.Name())
}

func TestCachedClassifier_AllHitsSkipInference(t *testing.T) {
	inner := &countingClassifier{}
	c := NewCachedClassifier(inner, newMemoryCache())
	ctx := context.Background()

	_, err := c.ScoreChunks(ctx, []string{"x"})
	require.NoError(t, err)
	_, err = c.ScoreChunks(ctx, []string{"x", "x"})
	require.NoError(t, err)

	assert.Len(t, inner.batches, 1)
}

func TestCachedClassifier_CacheFailuresDegrade(t *testing.T) {
	inner := &countingClassifier{}
	cache := newMemoryCache()
	cache.getErr = errBoom
	cache.setErr = errBoom

	got, err := NewCachedClassifier(inner, cache).ScoreChunks(context.Background(), []string{"abc"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.03}, got)
}

func TestCachedClassifier_InnerErrorPropagates(t *testing.T) {
	inner := &countingClassifier{err: errBoom}
	_, err := NewCachedClassifier(inner, newMemoryCache()).ScoreChunks(context.Background(), []string{"abc"})
	assert.ErrorIs(t, err, errBoom)
}

func TestCachedClassifier_Empty(t *testing.T) {
	inner := &countingClassifier{}
	got, err := NewCachedClassifier(inner, newMemoryCache()).ScoreChunks(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, inner.batches)
}
