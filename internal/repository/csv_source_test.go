package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSeriesFile(t *testing.T, dir, symbol, content string) {
	t.Helper()
	sub := filepath.Join(dir, symbol)
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "moving_average.csv"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestCSVSourceLoad(t *testing.T) {
	dir := t.TempDir()
	writeSeriesFile(t, dir, "BTC-USDT",
		"Timestamp,MovingAvg,TotalVolume,AvgProcessingDelay\n"+
			"2024-10-10 10:00:00,101.5,12,0.1\n"+
			"2024-10-10 10:00:01,102.0,15,0.1\n"+
			"2024-10-10 10:00:02,101.0,9,0.2\n")

	src := NewCSVSource(dir)
	series, err := src.Load(context.Background(), "BTC-USDT")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if series.Symbol != "BTC-USDT" {
		t.Errorf("symbol = %q", series.Symbol)
	}
	if series.Len() != 3 {
		t.Fatalf("len = %d, want 3", series.Len())
	}
	want := time.Date(2024, 10, 10, 10, 0, 1, 0, time.UTC)
	if !series.Timestamps[1].Equal(want) {
		t.Errorf("timestamp[1] = %v, want %v", series.Timestamps[1], want)
	}
	if series.Values[1] != 102.0 {
		t.Errorf("value[1] = %v, want 102.0", series.Values[1])
	}
}

func TestCSVSourceLoadNoHeader(t *testing.T) {
	dir := t.TempDir()
	writeSeriesFile(t, dir, "ETH-USDT",
		"2024-10-10 10:00:00,200.5\n2024-10-10 10:00:01,201.0\n")

	src := NewCSVSource(dir)
	series, err := src.Load(context.Background(), "ETH-USDT")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if series.Len() != 2 {
		t.Fatalf("len = %d, want 2", series.Len())
	}
	if series.Values[0] != 200.5 {
		t.Errorf("value[0] = %v, want 200.5", series.Values[0])
	}
}

func TestCSVSourceLoadMissingFile(t *testing.T) {
	src := NewCSVSource(t.TempDir())
	if _, err := src.Load(context.Background(), "MISSING"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestCSVSourceLoadBadValue(t *testing.T) {
	dir := t.TempDir()
	writeSeriesFile(t, dir, "BAD", "2024-10-10 10:00:00,not-a-number\n")

	src := NewCSVSource(dir)
	if _, err := src.Load(context.Background(), "BAD"); err == nil {
		t.Fatalf("expected error for bad value")
	}
}
