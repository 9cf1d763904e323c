package main

import (
	"context"
	"testing"

	"github.com/spacesedan/reviewflow/config"
	"github.com/spacesedan/reviewflow/internal/sentiment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDependencies_Vader(t *testing.T) {
	cfg := config.Config{Backend: config.BackendVader}

	deps, err := buildDependencies(context.Background(), cfg)
	require.NoError(t, err)
	defer deps.Close()

	assert.IsType(t, &sentiment.VaderClassifier{}, deps.classifier)
	assert.Empty(t, deps.sinks)
}

func TestBuildDependencies_UnknownBackend(t *testing.T) {
	_, err := buildDependencies(context.Background(), config.Config{Backend: "bert"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bert")
}

func TestBuildDependencies_OpenAIRequiresKey(t *testing.T) {
	_, err := buildDependencies(context.Background(), config.Config{Backend: config.BackendOpenAI})
	require.Error(t, err)
}
