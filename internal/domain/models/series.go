package models

import (
	"sort"
	"time"
)

// Series is an ordered sequence of (timestamp, value) samples for one
// instrument. Timestamps are expected to be strictly increasing; callers that
// cannot guarantee ordering should call SortByTime before handing the series
// to the engine. The engine only reads a Series, never mutates it.
type Series struct {
	Symbol     string
	Timestamps []time.Time
	Values     []float64
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.Values)
}

// IsSorted reports whether timestamps are in non-decreasing order.
func (s *Series) IsSorted() bool {
	return sort.SliceIsSorted(s.Timestamps, func(i, j int) bool {
		return s.Timestamps[i].Before(s.Timestamps[j])
	})
}

// SortByTime sorts samples ascending by timestamp, keeping values paired.
func (s *Series) SortByTime() {
	type sample struct {
		t time.Time
		v float64
	}
	samples := make([]sample, len(s.Values))
	for i := range s.Values {
		samples[i] = sample{t: s.Timestamps[i], v: s.Values[i]}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i].t.Before(samples[j].t) })
	for i, sm := range samples {
		s.Timestamps[i] = sm.t
		s.Values[i] = sm.v
	}
}

// AlignedPair holds two value arrays index-synchronized to a shared timestamp
// axis. Built once per instrument pair and immutable afterward.
type AlignedPair struct {
	Timestamps []time.Time
	Left       []float64
	Right      []float64
}

// Len returns the number of aligned rows.
func (p *AlignedPair) Len() int {
	return len(p.Timestamps)
}
