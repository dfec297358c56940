package tts

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tts_requests_total",
		Help: "Total synthesis requests",
	})

	metricSamples = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tts_samples_total",
		Help: "Total PCM samples produced by the synthesizer",
	})

	metricSynthesizeSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tts_synthesize_seconds",
		Help:    "Wall time of synthesis calls",
		Buckets: prometheus.ExponentialBuckets(0.05, 1.8, 10),
	})
)
