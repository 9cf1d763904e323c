// Package plotting renders the cleaner's diagnostic charts.
package plotting

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	RawLengthFile = "raw_review_length.png"
	LogLengthFile = "log_transformed_review_length.png"
	QQPlotFile    = "q_q_plot.png"

	histogramBins = 20
	plotWidth     = 8 * vg.Inch
	plotHeight    = 6 * vg.Inch
)

var (
	barColor       = color.RGBA{R: 0x12, G: 0x8b, B: 0xb5, A: 0xff}
	thresholdColor = color.RGBA{R: 0xdb, G: 0xa5, B: 0x06, A: 0xff}
)

// WriteAll renders the three charts into dir.
func WriteAll(dir string, lengths, logLengths []float64, first, second float64) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create plot directory: %w", err)
	}

	if err := RawLengthHistogram(filepath.Join(dir, RawLengthFile), lengths); err != nil {
		return err
	}
	if err := LogLengthHistogram(filepath.Join(dir, LogLengthFile), logLengths, first, second); err != nil {
		return err
	}
	if err := QQPlot(filepath.Join(dir, QQPlotFile), logLengths); err != nil {
		return err
	}

	slog.Info("[Plotting] Charts written", slog.String("dir", dir))
	return nil
}

func RawLengthHistogram(path string, lengths []float64) error {
	p := plot.New()
	p.Title.Text = "IMDB Review Length (not log transformed)"
	p.X.Label.Text = "Character count"
	p.Y.Label.Text = "Frequency"

	if _, err := addHistogram(p, lengths); err != nil {
		return err
	}
	return save(p, path)
}

// LogLengthHistogram marks both length-group thresholds with dashed lines.
func LogLengthHistogram(path string, logLengths []float64, first, second float64) error {
	p := plot.New()
	p.Title.Text = "IMDB Review Length divided by length category"
	p.X.Label.Text = "Length (Logarithmic Scale)"
	p.Y.Label.Text = "Frequency"

	h, err := addHistogram(p, logLengths)
	if err != nil {
		return err
	}

	top := 0.0
	for _, bin := range h.Bins {
		top = max(top, bin.Weight)
	}

	for _, marker := range []struct {
		label string
		x     float64
	}{
		{"First threshold", first},
		{"Second threshold", second},
	} {
		line, err := plotter.NewLine(plotter.XYs{{X: marker.x, Y: 0}, {X: marker.x, Y: top}})
		if err != nil {
			return fmt.Errorf("failed to build threshold line: %w", err)
		}
		line.LineStyle.Color = thresholdColor
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		p.Add(line)
		p.Legend.Add(marker.label, line)
	}
	p.Legend.Top = true

	return save(p, path)
}

// QQPlot compares sample quantiles with standard normal quantiles.
func QQPlot(path string, values []float64) error {
	points := qqPoints(values)
	if len(points) == 0 {
		return fmt.Errorf("q-q plot needs at least one value")
	}

	p := plot.New()
	p.Title.Text = "Q-Q Plot of Logarithmic Length"
	p.X.Label.Text = "Theoretical Quantiles"
	p.Y.Label.Text = "Sample Quantiles"

	scatter, err := plotter.NewScatter(points)
	if err != nil {
		return fmt.Errorf("failed to build q-q scatter: %w", err)
	}
	scatter.GlyphStyle.Color = barColor
	scatter.GlyphStyle.Radius = vg.Points(1.5)
	p.Add(scatter)

	return save(p, path)
}

// qqPoints pairs each sorted value with the normal quantile at plotting
// position (i+0.5)/n.
func qqPoints(values []float64) plotter.XYs {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	n := float64(len(sorted))
	points := make(plotter.XYs, len(sorted))
	for i, v := range sorted {
		points[i].X = distuv.UnitNormal.Quantile((float64(i) + 0.5) / n)
		points[i].Y = v
	}
	return points
}

func addHistogram(p *plot.Plot, values []float64) (*plotter.Histogram, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("histogram needs at least one value")
	}
	h, err := plotter.NewHist(plotter.Values(values), histogramBins)
	if err != nil {
		return nil, fmt.Errorf("failed to build histogram: %w", err)
	}
	h.FillColor = barColor
	h.LineStyle.Color = color.White
	p.Add(h)
	return h, nil
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
