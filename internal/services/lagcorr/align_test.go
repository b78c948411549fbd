package lagcorr

import (
	"testing"
	"time"

	"LagScan/internal/domain/models"
)

func ts(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func seriesAt(symbol string, secs []int64, values []float64) *models.Series {
	stamps := make([]time.Time, len(secs))
	for i, s := range secs {
		stamps[i] = ts(s)
	}
	return &models.Series{Symbol: symbol, Timestamps: stamps, Values: values}
}

func TestAlignBackwardJoin(t *testing.T) {
	left := seriesAt("A", []int64{1, 2, 3}, []float64{1, 2, 3})
	right := seriesAt("B", []int64{1, 3}, []float64{10, 20})

	pair := Align(left, right)

	if pair.Len() != 3 {
		t.Fatalf("expected 3 aligned rows, got %d", pair.Len())
	}
	want := []float64{10, 10, 20}
	for i, w := range want {
		if pair.Right[i] != w {
			t.Errorf("right[%d]: expected %v, got %v", i, w, pair.Right[i])
		}
	}
}

func TestAlignDropsRowsBeforeFirstRightObservation(t *testing.T) {
	left := seriesAt("A", []int64{1, 2, 3, 4}, []float64{1, 2, 3, 4})
	right := seriesAt("B", []int64{3, 4}, []float64{30, 40})

	pair := Align(left, right)

	if pair.Len() != 2 {
		t.Fatalf("expected 2 aligned rows, got %d", pair.Len())
	}
	if !pair.Timestamps[0].Equal(ts(3)) {
		t.Errorf("first surviving timestamp should be 3, got %v", pair.Timestamps[0])
	}
	if pair.Left[0] != 3 || pair.Right[0] != 30 {
		t.Errorf("unexpected first row: left=%v right=%v", pair.Left[0], pair.Right[0])
	}
}

func TestAlignEmptyInputs(t *testing.T) {
	tests := []struct {
		name  string
		left  *models.Series
		right *models.Series
	}{
		{"empty left", &models.Series{}, seriesAt("B", []int64{1}, []float64{1})},
		{"empty right", seriesAt("A", []int64{1}, []float64{1}), &models.Series{}},
		{"both empty", &models.Series{}, &models.Series{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair := Align(tt.left, tt.right)
			if pair.Len() != 0 {
				t.Errorf("expected empty pair, got %d rows", pair.Len())
			}
		})
	}
}

func TestAlignSortsDefensivelyWithoutMutating(t *testing.T) {
	left := seriesAt("A", []int64{3, 1, 2}, []float64{3, 1, 2})
	right := seriesAt("B", []int64{1, 2, 3}, []float64{10, 20, 30})

	pair := Align(left, right)

	if pair.Len() != 3 {
		t.Fatalf("expected 3 aligned rows, got %d", pair.Len())
	}
	for i := 0; i < 3; i++ {
		if pair.Left[i] != float64(i+1) {
			t.Errorf("left[%d]: expected %v, got %v", i, float64(i+1), pair.Left[i])
		}
		if pair.Right[i] != float64((i+1)*10) {
			t.Errorf("right[%d]: expected %v, got %v", i, float64((i+1)*10), pair.Right[i])
		}
	}
	// the caller's series must stay untouched
	if !left.Timestamps[0].Equal(ts(3)) {
		t.Errorf("input series was mutated: %v", left.Timestamps)
	}
}

func TestAlignTimestampsAscending(t *testing.T) {
	left := seriesAt("A", []int64{1, 5, 9, 12}, []float64{1, 2, 3, 4})
	right := seriesAt("B", []int64{0, 4, 8}, []float64{1, 2, 3})

	pair := Align(left, right)

	for i := 1; i < pair.Len(); i++ {
		if !pair.Timestamps[i-1].Before(pair.Timestamps[i]) {
			t.Fatalf("timestamps not strictly increasing at %d", i)
		}
	}
}
