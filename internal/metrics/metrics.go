// Package metrics counts what the conversion pipeline does.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"xgenseed/internal/xgerr"
)

// Metrics holds the pipeline counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	Flushes           *prometheus.CounterVec
	Strands           prometheus.Counter
	Segments          prometheus.Counter
	IgnoredSamples    prometheus.Counter
	Expansions        *prometheus.CounterVec
	ExpansionDuration prometheus.Histogram
}

// New creates the counters and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Flushes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "xgenseed",
				Subsystem: "generator",
				Name:      "flushes_total",
				Help:      "Primitive cache flushes by primitive kind",
			},
			[]string{"kind"},
		),
		Strands: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "xgenseed",
			Subsystem: "curves",
			Name:      "strands_total",
			Help:      "Strands read from spline caches",
		}),
		Segments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "xgenseed",
			Subsystem: "curves",
			Name:      "segments_total",
			Help:      "Cubic segments emitted",
		}),
		IgnoredSamples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "xgenseed",
			Subsystem: "curves",
			Name:      "ignored_motion_samples_total",
			Help:      "Motion samples read but not converted",
		}),
		Expansions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "xgenseed",
				Subsystem: "procedural",
				Name:      "expansions_total",
				Help:      "Procedural expansions by result and error class",
			},
			[]string{"result", "class"},
		),
		ExpansionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "xgenseed",
			Subsystem: "procedural",
			Name:      "expansion_duration_seconds",
			Help:      "Wall time of one procedural expansion",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	for _, c := range []prometheus.Collector{
		m.Flushes, m.Strands, m.Segments, m.IgnoredSamples, m.Expansions, m.ExpansionDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("metrics: register: %w", err)
		}
	}
	return m, nil
}

// Flush counts one flush of the given kind.
func (m *Metrics) Flush(kind string) {
	if m == nil {
		return
	}
	m.Flushes.WithLabelValues(kind).Inc()
}

// Converted records the outcome of one spline conversion.
func (m *Metrics) Converted(strands, segments, ignoredSamples int) {
	if m == nil {
		return
	}
	m.Strands.Add(float64(strands))
	m.Segments.Add(float64(segments))
	m.IgnoredSamples.Add(float64(ignoredSamples))
}

// Expansion records one finished expansion. A nil err counts as "ok" with
// an empty class.
func (m *Metrics) Expansion(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result, class := "ok", ""
	if err != nil {
		result, class = "failed", xgerr.ClassOf(err).String()
	}
	m.Expansions.WithLabelValues(result, class).Inc()
	m.ExpansionDuration.Observe(elapsed.Seconds())
}

// WriteTextfile dumps everything gathered by g in the text exposition
// format, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
