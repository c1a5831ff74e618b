// Package metrics holds the Prometheus collectors exported by the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	Namespace = "backoffice"

	OpAllocateNext  = "allocate_next"
	OpAllocateBatch = "allocate_batch"
	OpPreviewNext   = "preview_next"
)

var (
	Gather = prometheus.NewRegistry()

	SequenceAllocationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "sequence",
			Name:      "allocations_total",
			Help:      "Counter of successful sequence calls.",
		}, []string{"op"})

	SequenceValuesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "sequence",
			Name:      "values_allocated_total",
			Help:      "Number of sequence values handed out.",
		})

	SequenceFailureCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "sequence",
			Name:      "failures_total",
			Help:      "Counter of failed sequence calls.",
		}, []string{"op", "reason"})

	SequenceRetryCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "sequence",
			Name:      "retries_total",
			Help:      "Counter of internal retries after a transient storage error.",
		})

	SequenceCallHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "sequence",
			Name:      "call_duration_seconds",
			Help:      "Bucketed histogram of sequence call latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"op"})

	SequenceCacheRefillCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "sequence",
			Name:      "cache_refills_total",
			Help:      "Counter of block reservations made by the cached strategy.",
		})
)

func init() {
	Gather.MustRegister(SequenceAllocationCounter)
	Gather.MustRegister(SequenceValuesCounter)
	Gather.MustRegister(SequenceFailureCounter)
	Gather.MustRegister(SequenceRetryCounter)
	Gather.MustRegister(SequenceCallHistogram)
	Gather.MustRegister(SequenceCacheRefillCounter)

	Gather.MustRegister(collectors.NewGoCollector())
	Gather.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gather, promhttp.HandlerOpts{})
}
