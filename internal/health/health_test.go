package health

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeProber struct{ err error }

func (f fakeProber) Probe(ctx context.Context) error { return f.err }

func TestCheckAllReportsFailure(t *testing.T) {
	targets := []Target{
		{Name: "llm", Prober: fakeProber{}},
		{Name: "tts", Prober: fakeProber{err: errors.New("connection refused")}, Hint: "start the synthesis server"},
	}

	status := CheckAll(context.Background(), targets)
	if status.OK {
		t.Fatal("expected overall failure when one probe fails")
	}
	if len(status.Checks) != 2 {
		t.Fatalf("expected 2 checks, got %d", len(status.Checks))
	}
	if !status.Checks[0].OK || status.Checks[1].OK {
		t.Fatalf("wrong per-check results: %+v", status.Checks)
	}
	if status.Checks[1].Hint != "start the synthesis server" {
		t.Fatalf("expected hint carried through, got %q", status.Checks[1].Hint)
	}
}

func TestCheckAllAllHealthy(t *testing.T) {
	targets := []Target{
		{Name: "llm", Prober: fakeProber{}},
		{Name: "stt", Prober: fakeProber{}},
	}
	status := CheckAll(context.Background(), targets)
	if !status.OK {
		t.Fatalf("expected healthy status, got %+v", status)
	}
}

func TestStringRendersHint(t *testing.T) {
	status := CheckAll(context.Background(), []Target{
		{Name: "stt", Prober: fakeProber{err: errors.New("no route")}, Hint: "is whisper-server running?"},
	})
	out := status.String()
	if !strings.Contains(out, "FAIL") || !strings.Contains(out, "is whisper-server running?") {
		t.Fatalf("unexpected render:\n%s", out)
	}
}
