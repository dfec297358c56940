package llm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricGenerations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "llm_generations_total",
		Help: "Total generation requests sent to the language model",
	})

	metricFragments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "llm_fragments_total",
		Help: "Total text fragments received from the language model",
	})

	metricGenerationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "llm_generation_seconds",
		Help:    "Wall time of full generation calls",
		Buckets: prometheus.ExponentialBuckets(0.1, 1.8, 12),
	})
)
