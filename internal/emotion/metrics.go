package emotion

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "emotion_updates_total",
		Help: "Total raw emotion frames processed",
	})

	metricUpdatesGated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "emotion_updates_gated_total",
		Help: "Frames below the change threshold that committed no update",
	})

	metricStateTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "emotion_state_transitions_total",
		Help: "Emotion state machine transitions",
	}, []string{"from", "to"})
)
