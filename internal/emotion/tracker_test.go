package emotion

import (
	"math"
	"testing"
)

func TestEMAConvergence(t *testing.T) {
	// Tiny change threshold so gating never interferes with convergence.
	tr := NewTracker(0.3, 0.0001, 3)
	raw := Context{Fatigue: 1.0, Engagement: 1.0, Stress: 0.0, PositiveAffect: 1.0}

	for i := 0; i < 15; i++ {
		raw.Timestamp = int64(i)
		tr.Update(raw)
	}

	cur := tr.Current()
	if math.Abs(cur.Fatigue-1.0) > 0.01 {
		t.Fatalf("fatigue did not converge: %f", cur.Fatigue)
	}
	if math.Abs(cur.Stress-0.0) > 0.01 {
		t.Fatalf("stress did not converge: %f", cur.Stress)
	}
}

func TestChangeGating(t *testing.T) {
	tr := NewTracker(0.3, 0.05, 3)
	before := tr.Current()

	// Every metric equals the committed value, so the smoothed delta is zero.
	out := tr.Update(Context{Fatigue: 0.5, Engagement: 0.5, Stress: 0.5, PositiveAffect: 0.5, Timestamp: 1})
	if out != nil {
		t.Fatalf("expected gated update, got %+v", out)
	}
	if tr.Current() != before {
		t.Fatal("gated update must not change the committed context")
	}
}

func TestSignificantChangeCommits(t *testing.T) {
	tr := NewTracker(0.3, 0.05, 3)

	out := tr.Update(Context{Fatigue: 1.0, Engagement: 0.5, Stress: 0.5, PositiveAffect: 0.5, Timestamp: 1})
	if out == nil {
		t.Fatal("expected committed update for a large fatigue jump")
	}
	want := 0.3*1.0 + 0.7*0.5
	if math.Abs(out.Fatigue-want) > 1e-9 {
		t.Fatalf("expected smoothed fatigue %f, got %f", want, out.Fatigue)
	}
	if tr.Current().Fatigue != out.Fatigue {
		t.Fatal("committed context should match returned context")
	}
}

func TestUpdateClampsRawInput(t *testing.T) {
	tr := NewTracker(0.5, 0.01, 3)
	out := tr.Update(Context{Fatigue: 7.0, Engagement: -2.0, Stress: 0.5, PositiveAffect: 0.5, Timestamp: 1})
	if out == nil {
		t.Fatal("expected committed update")
	}
	if out.Fatigue > 1.0 || out.Engagement < 0.0 {
		t.Fatalf("metrics escaped [0,1]: %+v", out)
	}
}

func TestHysteresisDwellTime(t *testing.T) {
	m := newStateMachine(3)

	// Moderate fatigue 1s after the last transition: dwell not met, signal not
	// strong enough to override.
	got := m.update(Context{Fatigue: 0.75, Engagement: 0.5, Stress: 0.5, PositiveAffect: 0.5, Timestamp: 1})
	if got != StateNeutral {
		t.Fatalf("expected neutral before dwell time, got %s", got)
	}

	// Same sample after the dwell time has elapsed.
	got = m.update(Context{Fatigue: 0.75, Engagement: 0.5, Stress: 0.5, PositiveAffect: 0.5, Timestamp: 4})
	if got != StateFatigued {
		t.Fatalf("expected fatigued after dwell time, got %s", got)
	}
}

func TestHysteresisStrongSignalOverride(t *testing.T) {
	m := newStateMachine(3)

	got := m.update(Context{Fatigue: 0.95, Engagement: 0.5, Stress: 0.5, PositiveAffect: 0.5, Timestamp: 1})
	if got != StateFatigued {
		t.Fatalf("expected immediate transition on strong signal, got %s", got)
	}
}

func TestDetermineStatePriority(t *testing.T) {
	cases := []struct {
		name string
		c    Context
		want State
	}{
		{"fatigue wins over stress", Context{Fatigue: 0.8, Stress: 0.9}, StateFatigued},
		{"stress", Context{Fatigue: 0.2, Stress: 0.7, Engagement: 0.5}, StateStressed},
		{"happy", Context{PositiveAffect: 0.7, Engagement: 0.5}, StateHappy},
		{"engaged", Context{Engagement: 0.8}, StateEngaged},
		{"disengaged", Context{Engagement: 0.1}, StateDisengaged},
		{"neutral", Context{Engagement: 0.5}, StateNeutral},
	}
	for _, tc := range cases {
		if got := determineState(tc.c); got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestDisengagedSignalStrength(t *testing.T) {
	c := Context{Engagement: 0.1}
	if got := signalStrength(c, StateDisengaged); math.Abs(got-0.9) > 1e-9 {
		t.Fatalf("expected 0.9, got %f", got)
	}
}
