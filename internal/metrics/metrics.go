// Package metrics exposes Prometheus instrumentation for the prediction
// pipeline. A nil *Metrics disables collection, so library code can call the
// helpers unconditionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline collectors.
type Metrics struct {
	PredictionsTotal   *prometheus.CounterVec
	DegradedTotal      prometheus.Counter
	CalibrationMatches prometheus.Counter
	UpliftApplied      prometheus.Counter
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	PredictionDuration prometheus.Histogram
}

// New registers the pipeline collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PredictionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chancify",
			Name:      "predictions_total",
			Help:      "Predictions served, by model used and result band.",
		}, []string{"model", "band"}),
		DegradedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chancify",
			Name:      "degraded_predictions_total",
			Help:      "Predictions that fell back to the deterministic path.",
		}),
		CalibrationMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chancify",
			Name:      "calibration_matches_total",
			Help:      "Predictions adjusted by the elite calibration table.",
		}),
		UpliftApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chancify",
			Name:      "uplift_applied_total",
			Help:      "Predictions receiving a nonzero misc-signal uplift.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chancify",
			Name:      "result_cache_hits_total",
			Help:      "Prediction results served from cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chancify",
			Name:      "result_cache_misses_total",
			Help:      "Prediction cache lookups that missed.",
		}),
		PredictionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chancify",
			Name:      "prediction_duration_seconds",
			Help:      "End-to-end prediction latency.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		m.PredictionsTotal,
		m.DegradedTotal,
		m.CalibrationMatches,
		m.UpliftApplied,
		m.CacheHits,
		m.CacheMisses,
		m.PredictionDuration,
	)
	return m
}

// ObservePrediction records a completed prediction.
func (m *Metrics) ObservePrediction(modelUsed, band string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.PredictionsTotal.WithLabelValues(modelUsed, band).Inc()
	m.PredictionDuration.Observe(elapsed.Seconds())
}

// RecordDegraded counts a deterministic-fallback prediction.
func (m *Metrics) RecordDegraded() {
	if m == nil {
		return
	}
	m.DegradedTotal.Inc()
}

// RecordCalibrationMatch counts an elite calibration hit.
func (m *Metrics) RecordCalibrationMatch() {
	if m == nil {
		return
	}
	m.CalibrationMatches.Inc()
}

// RecordUplift counts an applied misc-signal uplift.
func (m *Metrics) RecordUplift() {
	if m == nil {
		return
	}
	m.UpliftApplied.Inc()
}

// RecordCache counts a cache lookup outcome.
func (m *Metrics) RecordCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.Inc()
	} else {
		m.CacheMisses.Inc()
	}
}
