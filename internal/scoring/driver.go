// Package scoring runs the severity scorer over a cleaned dataset.
package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/spacesedan/reviewflow/internal/dataset"
	"github.com/spacesedan/reviewflow/internal/models"
	"github.com/spacesedan/reviewflow/internal/severity"
	"github.com/spacesedan/reviewflow/internal/utils"
	"golang.org/x/sync/errgroup"
)

// Sink receives scored reviews once the whole dataset has been scored.
type Sink interface {
	Name() string
	Write(ctx context.Context, reviews []models.ScoredReview) error
}

type Options struct {
	Workers       int
	ProgressEvery int
	SinkBatchSize int
}

type Driver struct {
	scorer *severity.Scorer
	sinks  []Sink
	opts   Options
}

func NewDriver(scorer *severity.Scorer, opts Options, sinks ...Sink) *Driver {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Driver{scorer: scorer, sinks: sinks, opts: opts}
}

// Run scores the dataset at inPath and writes the augmented dataset to
// outPath. The output file is only written when every record succeeded.
func (d *Driver) Run(ctx context.Context, inPath, outPath string) error {
	table, err := dataset.ReadFile(inPath)
	if err != nil {
		return err
	}

	scored, err := d.ScoreTable(ctx, table)
	if err != nil {
		return err
	}

	if err := table.WriteFile(outPath); err != nil {
		return err
	}
	slog.Info("[Scorer] Scored dataset written",
		slog.String("path", outPath),
		slog.Int("records", table.Len()))

	return d.publish(ctx, scored)
}

// ScoreTable computes a severity for every row, adds the roberta_severity
// column and drops sentiment, length and log_length. Row order is kept
// regardless of the worker count, and the first failing record aborts the
// whole batch.
func (d *Driver) ScoreTable(ctx context.Context, table *dataset.Table) ([]models.ScoredReview, error) {
	reviews, err := table.Column(models.ColumnReview)
	if err != nil {
		return nil, err
	}
	labels, err := table.Column(models.ColumnSentiment)
	if err != nil {
		return nil, err
	}
	groups, err := table.Column(models.ColumnLengthGroup)
	if err != nil {
		groups = make([]string, len(reviews))
	}

	severities := make([]float64, len(reviews))
	var done atomic.Int64
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Workers)
	for i := range reviews {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			sev, err := d.scorer.SeverityForLabel(gctx, reviews[i], labels[i])
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			severities[i] = sev
			d.logProgress(done.Add(1), len(reviews), start)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values := make([]string, len(severities))
	scored := make([]models.ScoredReview, len(severities))
	for i, sev := range severities {
		values[i] = strconv.FormatFloat(sev, 'g', -1, 64)
		scored[i] = models.ScoredReview{
			Index:       i,
			Review:      reviews[i],
			LengthGroup: models.LengthGroup(groups[i]),
			Severity:    sev,
			Model:       d.scorer.ModelName(),
		}
	}

	if err := table.SetColumn(models.ColumnSeverity, values); err != nil {
		return nil, err
	}
	table.DropColumns(models.ColumnSentiment, models.ColumnLength, models.ColumnLogLength)

	slog.Info("[Scorer] Scoring complete",
		slog.Int("records", len(reviews)),
		slog.Duration("elapsed", time.Since(start)))
	return scored, nil
}

func (d *Driver) logProgress(done int64, total int, start time.Time) {
	every := int64(d.opts.ProgressEvery)
	if every <= 0 || (done%every != 0 && done != int64(total)) {
		return
	}
	slog.Info("[Scorer] Progress",
		slog.Int64("done", done),
		slog.Int("total", total),
		slog.Duration("elapsed", time.Since(start)))
}

// publish hands the scored reviews to every sink in batches.
func (d *Driver) publish(ctx context.Context, scored []models.ScoredReview) error {
	for _, sink := range d.sinks {
		buf := utils.NewBatchBuffer[models.ScoredReview](d.opts.SinkBatchSize)
		for _, review := range scored {
			buf.Add(review)
			if buf.Full() {
				if err := d.flush(ctx, sink, buf); err != nil {
					return err
				}
			}
		}
		if err := d.flush(ctx, sink, buf); err != nil {
			return err
		}
		slog.Info("[Scorer] Results published",
			slog.String("sink", sink.Name()),
			slog.Int("records", len(scored)))
	}
	return nil
}

func (d *Driver) flush(ctx context.Context, sink Sink, buf *utils.BatchBuffer[models.ScoredReview]) error {
	if !buf.HasData() {
		return nil
	}
	buf.LogBatchProcessing(sink.Name())
	if err := sink.Write(ctx, buf.GetAndClear()); err != nil {
		return fmt.Errorf("sink %s: %w", sink.Name(), err)
	}
	return nil
}
