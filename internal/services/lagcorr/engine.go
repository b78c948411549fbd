package lagcorr

import (
	"fmt"
	"math"

	"LagScan/internal/domain/models"
)

// Defaults matching the original 1-sample-per-minute deployment: 8-minute
// windows scanned over lags up to 60 minutes.
const (
	DefaultWindow = 8
	DefaultMaxLag = 60
)

// Engine runs the lag-correlation search with a fixed window size and maximum
// lag. Engines are stateless after construction and safe for concurrent use
// across pairs.
type Engine struct {
	window int
	maxLag int
}

// NewEngine validates the configuration and builds an engine. Window sizes
// below two make the correlation undefined by construction and negative lags
// are meaningless, so both are rejected up front rather than mid-batch.
func NewEngine(window, maxLag int) (*Engine, error) {
	if window < 2 {
		return nil, fmt.Errorf("window must be >= 2, got %d", window)
	}
	if maxLag < 0 {
		return nil, fmt.Errorf("max lag must be >= 0, got %d", maxLag)
	}
	return &Engine{window: window, maxLag: maxLag}, nil
}

// Window returns the configured window size.
func (e *Engine) Window() int { return e.window }

// MaxLag returns the configured maximum lag.
func (e *Engine) MaxLag() int { return e.maxLag }

// MinSamples returns the smallest aligned length that produces any output.
func (e *Engine) MinSamples() int { return e.window + e.maxLag + 1 }

// Run scans an aligned pair and returns one LagResult per searchable window
// position, in ascending timestamp order.
//
// For each window index i in [maxLag, numWindows), every shift s in
// [0, maxLag] correlates the current left window against the right window s
// steps back; a high correlation means the right series led the left by s
// samples. The first (smallest) shift achieving the maximum wins ties, so the
// reported lag is always the most recent candidate. Undefined candidates
// (zero-variance windows) are skipped during selection; a position where all
// candidates are undefined is still emitted, with NaN correlation and lag 0.
//
// Positions i < maxLag are skipped entirely since the full lag range is not
// yet available, which makes the output length exactly numWindows - maxLag.
// The timestamp attributed to position i is the aligned timestamp at the end
// of the current window, i+window-1.
//
// Fewer than window+maxLag+1 aligned samples yield no output. The search is
// a deliberate brute-force double loop, O(numWindows * maxLag * window);
// acceptable at the default sizes and bit-for-bit reproducible.
func (e *Engine) Run(pair *models.AlignedPair) []models.LagResult {
	n := pair.Len()
	if n < e.MinSamples() {
		return nil
	}

	left := Slide(pair.Left, e.window)
	right := Slide(pair.Right, e.window)
	numWindows := left.Count()

	out := make([]models.LagResult, 0, numWindows-e.maxLag)
	for i := e.maxLag; i < numWindows; i++ {
		best := math.NaN()
		bestLag := 0
		for s := 0; s <= e.maxLag; s++ {
			c := Pearson(left.At(i), right.At(i-s))
			if math.IsNaN(c) {
				continue
			}
			if math.IsNaN(best) || c > best {
				best = c
				bestLag = s
			}
		}
		out = append(out, models.LagResult{
			Timestamp:   pair.Timestamps[i+e.window-1],
			Correlation: best,
			Lag:         bestLag,
		})
	}
	return out
}
