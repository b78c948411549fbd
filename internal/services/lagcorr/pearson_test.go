package lagcorr

import (
	"math"
	"testing"
)

func TestPearson(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		y    []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3, 4}, []float64{1, 2, 3, 4}, 1},
		{"scaled", []float64{1, 2, 3, 4}, []float64{10, 20, 30, 40}, 1},
		{"shifted", []float64{1, 2, 3, 4}, []float64{101, 102, 103, 104}, 1},
		{"inverse", []float64{1, 2, 3, 4}, []float64{4, 3, 2, 1}, -1},
		{"uncorrelated", []float64{1, -1, 1, -1}, []float64{1, 1, -1, -1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pearson(tt.x, tt.y)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPearsonUndefined(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		y    []float64
	}{
		{"constant x", []float64{5, 5, 5, 5}, []float64{1, 2, 3, 4}},
		{"constant y", []float64{1, 2, 3, 4}, []float64{5, 5, 5, 5}},
		{"both constant", []float64{5, 5, 5}, []float64{7, 7, 7}},
		{"too short", []float64{1}, []float64{2}},
		{"length mismatch", []float64{1, 2, 3}, []float64{1, 2}},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Pearson(tt.x, tt.y); !math.IsNaN(got) {
				t.Errorf("expected NaN, got %v", got)
			}
		})
	}
}

func TestPearsonRange(t *testing.T) {
	// arbitrary but deterministic series
	x := make([]float64, 32)
	y := make([]float64, 32)
	for i := range x {
		x[i] = math.Sin(float64(i)*0.7) + float64(i%5)
		y[i] = math.Cos(float64(i)*1.3) - float64(i%3)
	}

	got := Pearson(x, y)
	if math.IsNaN(got) {
		t.Fatal("expected a defined correlation")
	}
	if got < -1-1e-9 || got > 1+1e-9 {
		t.Errorf("correlation out of [-1, 1]: %v", got)
	}
}
