// Package lagcorr implements the lead-lag correlation engine: as-of alignment
// of two instrument series, fixed-size sliding windows, and a bounded backward
// search for the lag that maximizes the Pearson correlation at each step.
package lagcorr

import (
	"time"

	"LagScan/internal/domain/models"
)

// Align joins two series onto the left series' timestamp axis using backward
// (most-recent-prior) semantics: each left timestamp is paired with the last
// right value observed at or before it. Left rows with no prior right
// observation are dropped. Inputs are sorted defensively without being
// mutated; empty inputs yield an empty pair, not an error.
func Align(left, right *models.Series) *models.AlignedPair {
	if left.Len() == 0 || right.Len() == 0 {
		return &models.AlignedPair{}
	}

	l := sortedView(left)
	r := sortedView(right)

	pair := &models.AlignedPair{}
	j := -1
	for i := 0; i < l.Len(); i++ {
		for j+1 < r.Len() && !r.Timestamps[j+1].After(l.Timestamps[i]) {
			j++
		}
		if j < 0 {
			continue // no right observation at or before this timestamp
		}
		pair.Timestamps = append(pair.Timestamps, l.Timestamps[i])
		pair.Left = append(pair.Left, l.Values[i])
		pair.Right = append(pair.Right, r.Values[j])
	}
	return pair
}

// sortedView returns s when already ordered, otherwise a sorted copy. The
// caller's series is never mutated.
func sortedView(s *models.Series) *models.Series {
	if s.IsSorted() {
		return s
	}
	clone := &models.Series{
		Symbol:     s.Symbol,
		Timestamps: append([]time.Time(nil), s.Timestamps...),
		Values:     append([]float64(nil), s.Values...),
	}
	clone.SortByTime()
	return clone
}
