// Package metrics counts run activity in a private Prometheus registry and
// writes it once at the end of a run in the node-exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"qfilt/internal/engine"
	"qfilt/internal/seqio"
)

const namespace = "qfilt"

// Recorder holds the run counters.
type Recorder struct {
	registry *prometheus.Registry

	reads          prometheus.Counter
	bases          prometheus.Counter
	fragments      prometheus.Counter
	punched        prometheus.Counter
	discarded      *prometheus.CounterVec
	fragmentLength prometheus.Histogram
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		reads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reads_total",
			Help:      "Reads parsed from the input.",
		}),
		bases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bases_total",
			Help:      "Bases parsed from the input.",
		}),
		fragments: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fragments_total",
			Help:      "Fragments written to the output.",
		}),
		punched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "punched_bases_total",
			Help:      "Low-quality bases substituted in punch mode.",
		}),
		discarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discarded_reads_total",
			Help:      "Reads that produced no fragment, by reason.",
		}, []string{"reason"}),
		fragmentLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fragment_length",
			Help:      "Length of written fragments in bases.",
			Buckets:   prometheus.ExponentialBuckets(16, 2, 10),
		}),
	}
	r.registry.MustRegister(r.reads, r.bases, r.fragments, r.punched, r.discarded, r.fragmentLength)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveRead counts a parsed read.
func (r *Recorder) ObserveRead(rec *seqio.Record) {
	r.reads.Inc()
	r.bases.Add(float64(rec.Len()))
}

// ObserveResult counts the engine outcome for one read.
func (r *Recorder) ObserveResult(res engine.Result) {
	if !res.Contributing() {
		r.discarded.WithLabelValues(res.Reason.String()).Inc()
		return
	}
	r.punched.Add(float64(res.Punched))
	for _, f := range res.Fragments {
		r.fragments.Inc()
		r.fragmentLength.Observe(float64(f.Len()))
	}
}

// WriteTextfile writes all metrics to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
