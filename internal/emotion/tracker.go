package emotion

import "sync"

// Tracker turns noisy per-frame contexts into a stable smoothed context via
// exponential moving average with change gating. It is read-mostly: chat turns
// read the current context while camera frames update it.
type Tracker struct {
	mu              sync.Mutex
	current         Context
	previousRaw     *Context
	alpha           float64
	changeThreshold float64
	machine         *stateMachine
	updated         bool
}

func NewTracker(alpha, changeThreshold float64, minStateDurationSecs int) *Tracker {
	return &Tracker{
		current: Context{
			Fatigue:        0.5,
			Engagement:     0.5,
			Stress:         0.5,
			PositiveAffect: 0.5,
		},
		alpha:           alpha,
		changeThreshold: changeThreshold,
		machine:         newStateMachine(int64(minStateDurationSecs)),
	}
}

// Update smooths a raw context into the tracker. It returns the new smoothed
// context when any metric moved by more than the change threshold, and nil
// when the frame was gated out (the committed context is left untouched).
func (t *Tracker) Update(raw Context) *Context {
	raw = raw.clamped()

	t.mu.Lock()
	defer t.mu.Unlock()

	metricUpdates.Inc()

	smoothed := Context{
		Fatigue:        t.alpha*raw.Fatigue + (1-t.alpha)*t.current.Fatigue,
		Engagement:     t.alpha*raw.Engagement + (1-t.alpha)*t.current.Engagement,
		Stress:         t.alpha*raw.Stress + (1-t.alpha)*t.current.Stress,
		PositiveAffect: t.alpha*raw.PositiveAffect + (1-t.alpha)*t.current.PositiveAffect,
		Timestamp:      raw.Timestamp,
	}

	// The state machine observes every smoothed frame; it does not gate the
	// returned value.
	t.machine.update(smoothed)

	if !t.significantChange(smoothed) {
		metricUpdatesGated.Inc()
		return nil
	}

	t.current = smoothed
	t.previousRaw = &raw
	t.updated = true
	out := smoothed
	return &out
}

func (t *Tracker) significantChange(s Context) bool {
	diff := func(a, b float64) float64 {
		if a > b {
			return a - b
		}
		return b - a
	}
	return diff(s.Fatigue, t.current.Fatigue) > t.changeThreshold ||
		diff(s.Engagement, t.current.Engagement) > t.changeThreshold ||
		diff(s.Stress, t.current.Stress) > t.changeThreshold ||
		diff(s.PositiveAffect, t.current.PositiveAffect) > t.changeThreshold
}

// Current returns the latest committed smoothed context.
func (t *Tracker) Current() Context {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// HasUpdates reports whether any camera frame has ever committed an update.
// Used by the status endpoint to distinguish "camera off" from "neutral".
func (t *Tracker) HasUpdates() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.updated
}

// CurrentState returns the state machine's current classification.
func (t *Tracker) CurrentState() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.machine.current
}
