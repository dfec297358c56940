package emotion

import "log"

// State is the hysteresis-gated classification of the smoothed context.
type State int

const (
	StateNeutral State = iota
	StateEngaged
	StateFatigued
	StateStressed
	StateHappy
	StateDisengaged
)

func (s State) String() string {
	switch s {
	case StateEngaged:
		return "engaged"
	case StateFatigued:
		return "fatigued"
	case StateStressed:
		return "stressed"
	case StateHappy:
		return "happy"
	case StateDisengaged:
		return "disengaged"
	default:
		return "neutral"
	}
}

// strongSignal is the threshold above which a candidate state transitions
// immediately, bypassing the minimum dwell time.
const strongSignal = 0.85

// stateMachine applies hysteresis to state classification: a transition needs
// either the minimum dwell time since the last transition, or an unambiguously
// strong driving signal.
type stateMachine struct {
	current          State
	stateDuration    int64
	lastTransition   int64
	minStateDuration int64
}

func newStateMachine(minStateDurationSecs int64) *stateMachine {
	return &stateMachine{minStateDuration: minStateDurationSecs}
}

func (m *stateMachine) update(c Context) State {
	m.stateDuration = c.Timestamp - m.lastTransition
	if m.stateDuration < 0 {
		m.stateDuration = 0
	}

	next := determineState(c)
	if next == m.current {
		return m.current
	}

	if signalStrength(c, next) > strongSignal || m.stateDuration >= m.minStateDuration {
		log.Printf("[emotion] transition %s -> %s (after %ds)", m.current, next, m.stateDuration)
		metricStateTransitions.WithLabelValues(m.current.String(), next.String()).Inc()
		m.current = next
		m.lastTransition = c.Timestamp
		m.stateDuration = 0
	}
	return m.current
}

// determineState classifies a context with fixed priority-ordered thresholds.
func determineState(c Context) State {
	switch {
	case c.Fatigue > 0.7:
		return StateFatigued
	case c.Stress > 0.6:
		return StateStressed
	case c.PositiveAffect > 0.6:
		return StateHappy
	case c.Engagement > 0.7:
		return StateEngaged
	case c.Engagement < 0.3:
		return StateDisengaged
	default:
		return StateNeutral
	}
}

// signalStrength is the value of the metric driving a given state.
func signalStrength(c Context, s State) float64 {
	switch s {
	case StateFatigued:
		return c.Fatigue
	case StateStressed:
		return c.Stress
	case StateHappy:
		return c.PositiveAffect
	case StateEngaged:
		return c.Engagement
	case StateDisengaged:
		return 1.0 - c.Engagement
	default:
		return 0.5
	}
}
