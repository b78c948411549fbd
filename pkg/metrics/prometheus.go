package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	pairsProcessed *prometheus.CounterVec
	resultsTotal   *prometheus.CounterVec
	bestLag        *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		pairsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lagscan_pairs_processed_total",
				Help: "Total number of instrument pairs processed, by outcome",
			},
			[]string{"status"},
		),
		resultsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lagscan_results_total",
				Help: "Total number of lag-correlation results produced",
			},
			[]string{"pair"},
		),
		bestLag: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "lagscan_last_best_lag",
				Help: "Best lag of the most recent result for a pair, in samples",
			},
			[]string{"pair"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lagscan_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordPairProcessed counts one finished pair by outcome.
func (r *Recorder) RecordPairProcessed(status string) {
	r.pairsProcessed.WithLabelValues(status).Inc()
}

// RecordResults counts produced result rows for a pair.
func (r *Recorder) RecordResults(pair string, n int) {
	r.resultsTotal.WithLabelValues(pair).Add(float64(n))
}

// RecordBestLag records the most recent best lag for a pair.
func (r *Recorder) RecordBestLag(pair string, lag int) {
	r.bestLag.WithLabelValues(pair).Set(float64(lag))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
