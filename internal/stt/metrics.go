package stt

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stt_requests_total",
		Help: "Total transcription requests",
	})

	metricAudioBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stt_audio_bytes_total",
		Help: "Total audio bytes sent to the recognizer",
	})

	metricTranscodes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stt_transcodes_total",
		Help: "Total ffmpeg transcode attempts for non-WAV uploads",
	})

	metricTranscodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stt_transcode_failures_total",
		Help: "Failed ffmpeg transcode attempts",
	})

	metricTranscribeSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stt_transcribe_seconds",
		Help:    "Wall time of transcription calls",
		Buckets: prometheus.ExponentialBuckets(0.05, 1.8, 10),
	})
)
