package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricTurns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_turns_total",
		Help: "Total chat turns admitted for generation",
	})

	metricBusyRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_busy_rejections_total",
		Help: "Turns rejected because another generation held the permit",
	})

	metricTurnErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_turn_errors_total",
		Help: "Turns that ended with a fatal generation error",
	})

	metricTokensPerSecond = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chat_tokens_per_second",
		Help:    "Generation throughput in fragments per second",
		Buckets: prometheus.LinearBuckets(5, 5, 12),
	})

	metricAudioChunks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_audio_chunks_total",
		Help: "Sentence chunks synthesized and delivered",
	})

	metricAudioChunkFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_audio_chunk_failures_total",
		Help: "Sentence chunks that failed synthesis",
	})

	metricSynthJoinTimeouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chat_synth_join_timeouts_total",
		Help: "Turns where the synthesis worker did not drain in time",
	})
)
