package health

import (
	"context"
	"fmt"
	"time"
)

// Prober is anything that can answer a cheap reachability check. The engine
// clients all implement it against their server's health endpoint.
type Prober interface {
	Probe(ctx context.Context) error
}

// Target is one engine to check, with a hint shown when the check fails.
type Target struct {
	Name   string
	Prober Prober
	Hint   string
}

type CheckResult struct {
	Name    string        `json:"name"`
	OK      bool          `json:"ok"`
	Latency time.Duration `json:"latency_ms"`
	Error   string        `json:"error,omitempty"`
	Hint    string        `json:"hint,omitempty"`
}

type HealthStatus struct {
	OK        bool          `json:"ok"`
	Checks    []CheckResult `json:"checks"`
	CheckedAt time.Time     `json:"checked_at"`
}

func (h HealthStatus) String() string {
	status := "OK"
	if !h.OK {
		status = "FAIL"
	}
	s := fmt.Sprintf("Health: %s\n", status)
	for _, c := range h.Checks {
		mark := "✓"
		if !c.OK {
			mark = "✗"
		}
		s += fmt.Sprintf("  %s %s (%dms)", mark, c.Name, c.Latency.Milliseconds())
		if c.Error != "" {
			s += fmt.Sprintf(" - %s", c.Error)
		}
		if c.Hint != "" && !c.OK {
			s += fmt.Sprintf("\n      hint: %s", c.Hint)
		}
		s += "\n"
	}
	return s
}

// CheckAll probes every target and returns combined status. Targets are
// checked in order with a per-check timeout so one hung engine cannot stall
// the whole report.
func CheckAll(ctx context.Context, targets []Target) HealthStatus {
	checks := make([]CheckResult, 0, len(targets))
	allOK := true
	for _, t := range targets {
		c := check(ctx, t)
		if !c.OK {
			allOK = false
		}
		checks = append(checks, c)
	}
	return HealthStatus{
		OK:        allOK,
		Checks:    checks,
		CheckedAt: time.Now().UTC(),
	}
}

func check(ctx context.Context, t Target) CheckResult {
	start := time.Now()
	result := CheckResult{Name: t.Name}

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := t.Prober.Probe(cctx); err != nil {
		result.Error = err.Error()
		result.Hint = t.Hint
		result.Latency = time.Since(start)
		return result
	}

	result.OK = true
	result.Latency = time.Since(start)
	return result
}
