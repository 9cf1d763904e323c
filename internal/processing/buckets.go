package processing

import (
	"errors"
	"math"
	"slices"

	"github.com/spacesedan/reviewflow/internal/models"
)

var ErrNoValues = errors.New("cannot bucket an empty dataset")

// Tertiles holds the bucket edges computed once over a whole dataset.
type Tertiles struct {
	Min    float64
	First  float64
	Second float64
	Max    float64
}

// ComputeTertiles cuts values at the 1/3 and 2/3 quantiles, interpolating
// linearly between order statistics at position (n-1)p.
func ComputeTertiles(values []float64) (Tertiles, error) {
	if len(values) == 0 {
		return Tertiles{}, ErrNoValues
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	return Tertiles{
		Min:    sorted[0],
		First:  quantile(sorted, 1.0/3),
		Second: quantile(sorted, 2.0/3),
		Max:    sorted[len(sorted)-1],
	}, nil
}

func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// Group assigns x to a bucket. Edges are right-inclusive and the lowest
// value belongs to short, so coinciding edges still yield a partition.
func (t Tertiles) Group(x float64) models.LengthGroup {
	switch {
	case x <= t.First:
		return models.LengthShort
	case x <= t.Second:
		return models.LengthMedium
	default:
		return models.LengthLong
	}
}

// Thresholds are the largest values that landed in the short and medium
// buckets. An empty bucket falls back to its upper edge.
func (t Tertiles) Thresholds(values []float64) (first, second float64) {
	first, second = math.Inf(-1), math.Inf(-1)
	for _, v := range values {
		switch t.Group(v) {
		case models.LengthShort:
			first = max(first, v)
		case models.LengthMedium:
			second = max(second, v)
		}
	}
	if math.IsInf(first, -1) {
		first = t.First
	}
	if math.IsInf(second, -1) {
		second = t.Second
	}
	return first, second
}
