package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"LagScan/internal/domain/models"
	pkgch "LagScan/pkg/clickhouse"
	applogger "LagScan/pkg/logger"
)

// CHSource loads moving-average series from a ClickHouse table. Rows are
// expected as (ts DateTime, symbol String, avg_value Float64); ordering by
// ts is done server-side so the aligner sees sorted input.
type CHSource struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHSource(ch *pkgch.Client, table string) *CHSource {
	return &CHSource{db: ch.DB(), table: table}
}

// SetLogger injects a structured logger.
func (s *CHSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHSource) Load(ctx context.Context, symbol string) (*models.Series, error) {
	start := time.Now()
	const qtpl = `
        SELECT ts, avg_value
        FROM %s
        WHERE symbol = ?
        ORDER BY ts ASC
    `
	q := fmt.Sprintf(qtpl, s.table)
	rows, err := s.db.QueryContext(ctx, q, symbol)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse load_series query error",
				applogger.String("table", s.table),
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("load series: %w", err)
	}
	defer rows.Close()

	series := &models.Series{Symbol: symbol}
	for rows.Next() {
		var ts time.Time
		var v float64
		if err := rows.Scan(&ts, &v); err != nil {
			return nil, fmt.Errorf("scan series row: %w", err)
		}
		series.Timestamps = append(series.Timestamps, ts)
		series.Values = append(series.Values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	if s.l != nil {
		s.l.Info("clickhouse series loaded",
			applogger.String("table", s.table),
			applogger.String("symbol", symbol),
			applogger.Int("samples", series.Len()),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return series, nil
}

func (s *CHSource) Close() error { return nil }
