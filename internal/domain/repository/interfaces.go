package repository

import (
	"context"

	"LagScan/internal/domain/models"
)

// SeriesSource supplies one moving-average series per instrument. The engine
// makes no assumption about where the samples come from; CSV files and
// ClickHouse tables both implement this.
type SeriesSource interface {
	Load(ctx context.Context, symbol string) (*models.Series, error)
	Close() error
}

// ResultSink receives the finished result sequence for one pair. Implemented
// for ClickHouse, Kafka and as a no-op when results are only served over the
// API.
type ResultSink interface {
	Write(ctx context.Context, pair models.Pair, results []models.LagResult) error
	Close() error
}

// ResultStore is the in-memory read side consumed by the HTTP handlers.
type ResultStore interface {
	Reports() []models.PairReport
	Results(pair models.Pair) ([]models.LagResult, bool)
}

// ResultRecorder is the write side of the in-memory store, fed by the batch
// runner as each pair finishes.
type ResultRecorder interface {
	Put(report models.PairReport, results []models.LagResult)
}

// Metrics records batch progress and engine latency.
type Metrics interface {
	RecordPairProcessed(status string)
	RecordResults(pair string, n int)
	RecordBestLag(pair string, lag int)
	RecordLatency(op string, seconds float64)
}
