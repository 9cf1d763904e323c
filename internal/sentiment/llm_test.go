package sentiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	user     string
	response string
	err      error
}

func (f *fakeCompleter) Complete(_ context.Context, _ string, user string) (string, error) {
	f.user = user
	return f.response, f.err
}

func TestLLMClassifier(t *testing.T) {
	f := &fakeCompleter{response: `{"chunks":[
		{"negative":0.1,"neutral":0.2,"positive":0.7},
		{"negative":0.8,"neutral":0.2,"positive":0.2}
	]}`}
	c := NewLLMClassifier(f, "gpt-4o-mini")

	got, err := c.ScoreChunks(context.Background(), []string{"loved it", "hated \"it\""})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 0.6, got[0], 1e-12)
	assert.InDelta(t, -0.5, got[1], 1e-12)
	assert.JSONEq(t, `["loved it","hated \"it\""]`, f.user)
}

func TestLLMClassifier_BadResponses(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"not json", "I think it is positive", nil},
		{"wrong count", `{"chunks":[]}`, ErrScoreCount},
		{"zero distribution", `{"chunks":[{"negative":0,"neutral":0,"positive":0}]}`, ErrMissingClass},
		{"negative probability", `{"chunks":[{"negative":0,"neutral":-1.5,"positive":2}]}`, ErrProbability},
		{"probability above one", `{"chunks":[{"negative":0,"neutral":0,"positive":1.2}]}`, ErrProbability},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewLLMClassifier(&fakeCompleter{response: tt.response}, "m")
			_, err := c.ScoreChunks(context.Background(), []string{"a"})
			require.Error(t, err)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestLLMClassifier_CompleterError(t *testing.T) {
	c := NewLLMClassifier(&fakeCompleter{err: errBoom}, "m")
	_, err := c.ScoreChunks(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, errBoom)
}
