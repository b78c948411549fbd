package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"LagScan/internal/domain/models"
	applogger "LagScan/pkg/logger"
	"LagScan/pkg/util"
)

const csvSeriesFile = "moving_average.csv"

// CSVSource reads per-instrument moving-average series from
// <dataDir>/<symbol>/moving_average.csv. The first column is the window-end
// timestamp, the second the moving average; extra columns are ignored.
type CSVSource struct {
	dataDir string
	l       *applogger.Logger
}

func NewCSVSource(dataDir string) *CSVSource {
	return &CSVSource{dataDir: dataDir}
}

// SetLogger injects a structured logger.
func (s *CSVSource) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CSVSource) Load(ctx context.Context, symbol string) (*models.Series, error) {
	start := time.Now()
	path := filepath.Join(s.dataDir, symbol, csvSeriesFile)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open series file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	series := &models.Series{Symbol: symbol}
	line := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		line++
		if len(rec) < 2 {
			return nil, fmt.Errorf("read %s: line %d has %d columns, want at least 2", path, line, len(rec))
		}
		if line == 1 && !isNumeric(rec[1]) {
			// header row
			continue
		}
		ts, ok := util.ParseTime(rec[0])
		if !ok {
			return nil, fmt.Errorf("read %s: line %d: bad timestamp %q", path, line, rec[0])
		}
		v, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("read %s: line %d: bad value %q", path, line, rec[1])
		}
		series.Timestamps = append(series.Timestamps, ts)
		series.Values = append(series.Values, v)
	}

	if s.l != nil {
		s.l.Info("csv series loaded",
			applogger.String("symbol", symbol),
			applogger.Int("samples", series.Len()),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return series, nil
}

func (s *CSVSource) Close() error { return nil }

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
