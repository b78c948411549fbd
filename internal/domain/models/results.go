package models

import (
	"fmt"
	"math"
	"time"
)

// LagResult is one output record of the lag search: at Timestamp, the best
// correlation found over the scanned shift range and the shift (in samples)
// that produced it. Correlation is NaN when every candidate window had zero
// variance.
type LagResult struct {
	Timestamp   time.Time
	Correlation float64
	Lag         int
}

// Defined reports whether the correlation value is usable (not NaN).
func (r LagResult) Defined() bool {
	return !math.IsNaN(r.Correlation)
}

// Pair identifies an ordered instrument pair. Base is the left series whose
// timestamps anchor the alignment; Quote is the series searched backward for
// the best-matching lag.
type Pair struct {
	Base  string
	Quote string
}

// Key returns the canonical "BASE/QUOTE" identity used for logging, caching
// and message keys.
func (p Pair) Key() string {
	return fmt.Sprintf("%s/%s", p.Base, p.Quote)
}

// Pair processing statuses.
const (
	PairStatusOK     = "ok"
	PairStatusEmpty  = "empty"
	PairStatusFailed = "failed"
)

// PairReport is the structured per-pair outcome: either a successful run with
// its result count, a valid-but-empty run (insufficient aligned data), or a
// failure with the captured error. A failed pair never aborts the batch.
type PairReport struct {
	Pair       Pair
	Status     string
	Results    int
	Error      string
	Duration   time.Duration
	ComputedAt time.Time
}
