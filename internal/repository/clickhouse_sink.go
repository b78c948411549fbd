package repository

import (
	"context"
	"fmt"
	"math"
	"time"

	"LagScan/internal/domain/models"
	pkgch "LagScan/pkg/clickhouse"
	applogger "LagScan/pkg/logger"
)

// ResultSchema creates the database and results table. Correlation is
// Nullable: undefined values (zero-variance windows) are stored as NULL.
var ResultSchema = []string{
	`CREATE DATABASE IF NOT EXISTS lagscan`,
	`CREATE TABLE IF NOT EXISTS lagscan.lag_correlations (
        ts          DateTime,
        base        String,
        quote       String,
        correlation Nullable(Float64),
        lag         Int32,
        computed_at DateTime DEFAULT now()
    ) ENGINE = MergeTree()
    ORDER BY (base, quote, ts)`,
}

// CHSink writes result sequences into lagscan.lag_correlations in batches.
type CHSink struct {
	ch        *pkgch.Client
	batchSize int
	l         *applogger.Logger
}

func NewCHSink(ch *pkgch.Client, batchSize int) *CHSink {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &CHSink{ch: ch, batchSize: batchSize}
}

// SetLogger injects a structured logger.
func (s *CHSink) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHSink) Write(ctx context.Context, pair models.Pair, results []models.LagResult) error {
	if len(results) == 0 {
		return nil
	}
	start := time.Now()

	for off := 0; off < len(results); off += s.batchSize {
		end := off + s.batchSize
		if end > len(results) {
			end = len(results)
		}
		if err := s.writeBatch(ctx, pair, results[off:end]); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse result batch failed",
					applogger.String("pair", pair.Key()),
					applogger.Int("offset", off),
					applogger.Error(err),
				)
			}
			return err
		}
	}

	if s.l != nil {
		s.l.Info("clickhouse results written",
			applogger.String("pair", pair.Key()),
			applogger.Int("rows", len(results)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHSink) writeBatch(ctx context.Context, pair models.Pair, batch []models.LagResult) error {
	tx, err := s.ch.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO lagscan.lag_correlations (ts, base, quote, correlation, lag) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range batch {
		var corr any
		if !math.IsNaN(r.Correlation) {
			corr = r.Correlation
		}
		if _, err := stmt.ExecContext(ctx, r.Timestamp, pair.Base, pair.Quote, corr, int32(r.Lag)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert result: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func (s *CHSink) Close() error { return nil }
