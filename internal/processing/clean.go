package processing

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/spacesedan/reviewflow/internal/chunking"
	"github.com/spacesedan/reviewflow/internal/dataset"
	"github.com/spacesedan/reviewflow/internal/models"
)

// MarkupArtifact is the HTML line break scraped into every IMDB review.
const MarkupArtifact = "<br />"

func StripMarkup(text string) string {
	return strings.ReplaceAll(text, MarkupArtifact, "")
}

// ReviewLength counts characters (Unicode code points).
func ReviewLength(text string) int {
	return chunking.Length(text)
}

func LogLength(length int) float64 {
	return math.Log1p(float64(length))
}

// Profile is everything the cleaner learned about the dataset's lengths.
type Profile struct {
	Lengths    []float64
	LogLengths []float64
	Cuts       Tertiles
	First      float64
	Second     float64
	Counts     map[models.LengthGroup]int
}

// CleanTable strips markup from the review column in place and adds the
// length, log_length and length_group columns.
func CleanTable(table *dataset.Table) (*Profile, error) {
	reviews, err := table.Column(models.ColumnReview)
	if err != nil {
		return nil, err
	}
	if _, err := table.Index(models.ColumnSentiment); err != nil {
		return nil, err
	}

	profile := &Profile{
		Lengths:    make([]float64, len(reviews)),
		LogLengths: make([]float64, len(reviews)),
		Counts:     make(map[models.LengthGroup]int, 3),
	}
	lengthCol := make([]string, len(reviews))
	logCol := make([]string, len(reviews))

	for i, review := range reviews {
		reviews[i] = StripMarkup(review)
		length := ReviewLength(reviews[i])
		profile.Lengths[i] = float64(length)
		profile.LogLengths[i] = LogLength(length)
		lengthCol[i] = strconv.Itoa(length)
		logCol[i] = strconv.FormatFloat(profile.LogLengths[i], 'f', -1, 64)
	}

	profile.Cuts, err = ComputeTertiles(profile.LogLengths)
	if err != nil {
		return nil, err
	}
	profile.First, profile.Second = profile.Cuts.Thresholds(profile.LogLengths)

	groupCol := make([]string, len(reviews))
	for i, v := range profile.LogLengths {
		g := profile.Cuts.Group(v)
		profile.Counts[g]++
		groupCol[i] = string(g)
	}

	for _, col := range []struct {
		name   string
		values []string
	}{
		{models.ColumnReview, reviews},
		{models.ColumnLength, lengthCol},
		{models.ColumnLogLength, logCol},
		{models.ColumnLengthGroup, groupCol},
	} {
		if err := table.SetColumn(col.name, col.values); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", col.name, err)
		}
	}

	slog.Info("[Cleaner] Length groups assigned",
		slog.Int("records", len(reviews)),
		slog.Int("short", profile.Counts[models.LengthShort]),
		slog.Int("medium", profile.Counts[models.LengthMedium]),
		slog.Int("long", profile.Counts[models.LengthLong]),
		slog.Float64("first_threshold", profile.First),
		slog.Float64("second_threshold", profile.Second))

	return profile, nil
}
