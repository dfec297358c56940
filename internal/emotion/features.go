package emotion

// Features is one per-frame camera feature vector. No images ever reach the
// server; only these derived numeric signals.
type Features struct {
	FacePresent    bool    `json:"face_present"`
	FaceConfidence float64 `json:"face_confidence"`
	AvgEyeOpenness float64 `json:"avg_eye_openness"`
	BlinkRate      float64 `json:"blink_rate"`
	SmileScore     float64 `json:"smile_score"`
	HeadPitch      float64 `json:"head_pitch"`
	HeadYaw        float64 `json:"head_yaw"`
}

// FromFeatures maps a raw feature frame to an emotional context. A frame with
// no face forces engagement to zero and leaves the other metrics neutral; it
// flows through the same smoothing pipeline as any other frame.
func FromFeatures(f Features, now int64) Context {
	if !f.FacePresent {
		return Context{
			Fatigue:        0.5,
			Engagement:     0.0,
			Stress:         0.5,
			PositiveAffect: 0.5,
			Timestamp:      now,
		}
	}

	// Fatigue: droopy eyes dominate, elevated blink rate (30-60 bpm) adds on.
	eyeFatigue := 1.0 - f.AvgEyeOpenness
	blinkFatigue := 0.0
	if f.BlinkRate > 30.0 {
		blinkFatigue = (f.BlinkRate - 30.0) / 30.0
		if blinkFatigue > 1.0 {
			blinkFatigue = 1.0
		}
	}
	fatigue := eyeFatigue*0.7 + blinkFatigue*0.3

	// Engagement: face confidence, head orientation toward the screen, alertness.
	attention := 0.4
	if abs(f.HeadYaw) < 20.0 && abs(f.HeadPitch) < 15.0 {
		attention = 0.8
	}
	engagement := f.FaceConfidence*0.4 + attention*0.3 + f.AvgEyeOpenness*0.3

	// Stress: facial tension, plus eye strain when tired but not blink-fatigued.
	facialTension := 1.0 - f.SmileScore
	eyeStrain := 0.0
	if eyeFatigue > 0.5 && blinkFatigue < 0.3 {
		eyeStrain = eyeFatigue * 0.5
	}
	stress := facialTension*0.6 + eyeStrain*0.4

	// Positive affect: smile score, amplified slightly by high engagement.
	positive := f.SmileScore
	if engagement > 0.6 {
		positive += 0.1
	}

	return Context{
		Fatigue:        fatigue,
		Engagement:     engagement,
		Stress:         stress,
		PositiveAffect: positive,
		Timestamp:      now,
	}.clamped()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
