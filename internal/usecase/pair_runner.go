package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"LagScan/internal/domain/models"
	drepo "LagScan/internal/domain/repository"
	"LagScan/internal/services/lagcorr"
	applogger "LagScan/pkg/logger"
)

// PairRunner drives one batch: it loads every instrument's series once, fans
// the ordered pair permutations out over a worker pool, and records a
// PairReport per pair. A single pair failing (bad file, panic, sink error)
// never takes down the batch.
type PairRunner struct {
	source   drepo.SeriesSource
	sink     drepo.ResultSink
	recorder drepo.ResultRecorder
	engine   *lagcorr.Engine
	metrics  drepo.Metrics
	l        *applogger.Logger

	instruments []string
	workers     int
}

// NewPairRunner creates a batch runner over the given instrument universe.
func NewPairRunner(
	source drepo.SeriesSource,
	sink drepo.ResultSink,
	recorder drepo.ResultRecorder,
	engine *lagcorr.Engine,
	metrics drepo.Metrics,
	instruments []string,
	workers int,
) *PairRunner {
	if workers < 1 {
		workers = 1
	}
	return &PairRunner{
		source:      source,
		sink:        sink,
		recorder:    recorder,
		engine:      engine,
		metrics:     metrics,
		instruments: instruments,
		workers:     workers,
	}
}

// SetLogger injects a structured logger.
func (r *PairRunner) SetLogger(l *applogger.Logger) { r.l = l }

// Pairs returns the ordered permutations of the instrument universe. Both
// directions of each pair are produced since lag is directional.
func (r *PairRunner) Pairs() []models.Pair {
	out := make([]models.Pair, 0, len(r.instruments)*(len(r.instruments)-1))
	for _, base := range r.instruments {
		for _, quote := range r.instruments {
			if base == quote {
				continue
			}
			out = append(out, models.Pair{Base: base, Quote: quote})
		}
	}
	return out
}

// Run executes the full batch and returns the per-pair reports in pair order.
// The only returned error is context cancellation; everything pair-level is
// captured inside the reports.
func (r *PairRunner) Run(ctx context.Context) ([]models.PairReport, error) {
	start := time.Now()
	series := r.loadSeries(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pairs := r.Pairs()
	reports := make([]models.PairReport, len(pairs))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				reports[idx] = r.processPair(ctx, pairs[idx], series)
			}
		}()
	}

	for idx := range pairs {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	if r.l != nil {
		r.l.Info("batch finished",
			applogger.Int("pairs", len(pairs)),
			applogger.Int("workers", r.workers),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	r.metrics.RecordLatency("batch", time.Since(start).Seconds())
	return reports, nil
}

type loadedSeries struct {
	series *models.Series
	err    error
}

func (r *PairRunner) loadSeries(ctx context.Context) map[string]loadedSeries {
	out := make(map[string]loadedSeries, len(r.instruments))
	for _, sym := range r.instruments {
		if ctx.Err() != nil {
			return out
		}
		s, err := r.source.Load(ctx, sym)
		if err != nil && r.l != nil {
			r.l.Error("series load failed",
				applogger.String("symbol", sym),
				applogger.Error(err),
			)
		}
		out[sym] = loadedSeries{series: s, err: err}
	}
	return out
}

func (r *PairRunner) processPair(ctx context.Context, pair models.Pair, series map[string]loadedSeries) (report models.PairReport) {
	start := time.Now()
	report = models.PairReport{Pair: pair, ComputedAt: start}

	defer func() {
		if rec := recover(); rec != nil {
			report.Status = models.PairStatusFailed
			report.Error = fmt.Sprintf("panic: %v", rec)
			if r.l != nil {
				r.l.Error("pair panicked",
					applogger.String("pair", pair.Key()),
					applogger.Any("panic", rec),
				)
			}
		}
		report.Duration = time.Since(start)
		r.metrics.RecordPairProcessed(report.Status)
		r.metrics.RecordLatency("pair", report.Duration.Seconds())
	}()

	left, right := series[pair.Base], series[pair.Quote]
	if left.err != nil || right.err != nil {
		report.Status = models.PairStatusFailed
		if left.err != nil {
			report.Error = fmt.Sprintf("load %s: %v", pair.Base, left.err)
		} else {
			report.Error = fmt.Sprintf("load %s: %v", pair.Quote, right.err)
		}
		return report
	}

	aligned := lagcorr.Align(left.series, right.series)
	results := r.engine.Run(aligned)
	report.Results = len(results)

	if len(results) == 0 {
		report.Status = models.PairStatusEmpty
		report.Duration = time.Since(start)
		r.recorder.Put(report, nil)
		if r.l != nil {
			r.l.Warn("pair has too few aligned samples",
				applogger.String("pair", pair.Key()),
				applogger.Int("aligned", aligned.Len()),
				applogger.Int("required", r.engine.MinSamples()),
			)
		}
		return report
	}

	report.Status = models.PairStatusOK
	r.metrics.RecordResults(pair.Key(), len(results))
	if last := results[len(results)-1]; last.Defined() {
		r.metrics.RecordBestLag(pair.Key(), last.Lag)
	}

	if err := r.sink.Write(ctx, pair, results); err != nil {
		report.Status = models.PairStatusFailed
		report.Error = fmt.Sprintf("sink: %v", err)
	}
	report.Duration = time.Since(start)
	r.recorder.Put(report, results)

	if r.l != nil {
		r.l.Info("pair processed",
			applogger.String("pair", pair.Key()),
			applogger.String("status", report.Status),
			applogger.Int("results", len(results)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return report
}
