package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spacesedan/reviewflow/config"
	"github.com/spacesedan/reviewflow/internal/dataset"
	"github.com/spacesedan/reviewflow/internal/plotting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "IMDB_Dataset.csv")
	require.NoError(t, os.WriteFile(raw, []byte(
		"review,sentiment\n"+
			"\"Short.<br /><br />Fine.\",positive\n"+
			"A slightly longer review of a film,negative\n"+
			"Much longer review text that keeps going for quite a while,positive\n"), 0o644))

	cfg := config.Config{
		RawDataset:     raw,
		CleanedDataset: filepath.Join(dir, "cleaned_reviews.csv"),
		OutputDir:      filepath.Join(dir, "OUTPUT"),
	}
	require.NoError(t, run(cfg))

	cleaned, err := dataset.ReadFile(cfg.CleanedDataset)
	require.NoError(t, err)
	assert.Equal(t, []string{"review", "sentiment", "length", "log_length", "length_group"}, cleaned.Header)
	assert.Equal(t, "Short.Fine.", cleaned.Rows[0][0])

	groups, err := cleaned.Column("length_group")
	require.NoError(t, err)
	assert.Equal(t, []string{"short", "medium", "long"}, groups)

	for _, name := range []string{plotting.RawLengthFile, plotting.LogLengthFile, plotting.QQPlotFile} {
		assert.FileExists(t, filepath.Join(cfg.OutputDir, name))
	}
}

func TestRun_MissingInput(t *testing.T) {
	dir := t.TempDir()
	err := run(config.Config{RawDataset: filepath.Join(dir, "nope.csv")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
