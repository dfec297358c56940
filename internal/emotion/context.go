package emotion

// Context is one smoothed snapshot of the user's affect. All four metrics are
// clamped to [0,1]. Snapshots are replaced wholesale, never mutated in place.
type Context struct {
	Fatigue        float64 `json:"fatigue"`
	Engagement     float64 `json:"engagement"`
	Stress         float64 `json:"stress"`
	PositiveAffect float64 `json:"positive_affect"`
	Timestamp      int64   `json:"timestamp"`
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (c Context) clamped() Context {
	c.Fatigue = clamp01(c.Fatigue)
	c.Engagement = clamp01(c.Engagement)
	c.Stress = clamp01(c.Stress)
	c.PositiveAffect = clamp01(c.PositiveAffect)
	return c
}

// DominantLabel classifies a context into a human-readable label using the
// same priority order as the state machine.
func DominantLabel(c Context) string {
	switch {
	case c.Fatigue > 0.7:
		return "fatigued"
	case c.Stress > 0.6:
		return "stressed"
	case c.PositiveAffect > 0.6:
		return "happy"
	case c.Engagement > 0.7:
		return "focused"
	case c.Engagement < 0.3:
		return "disengaged"
	default:
		return "neutral"
	}
}

// Advisory renders the short natural-language hint injected into the system
// prompt: the dominant emotion plus a recommended interaction style.
func Advisory(c Context) string {
	switch DominantLabel(c) {
	case "fatigued":
		return "The user appears fatigued. Keep responses brief and gentle, and consider suggesting a break."
	case "stressed":
		return "The user appears stressed. Respond calmly, acknowledge their feelings, and avoid overwhelming detail."
	case "happy":
		return "The user appears to be in a positive mood. Match their energy and keep the tone light."
	case "focused":
		return "The user is highly engaged. Feel free to go deeper into the topic."
	case "disengaged":
		return "The user seems disengaged. Keep responses short and ask an inviting question to draw them back in."
	default:
		return "The user appears neutral. Respond naturally."
	}
}
