package tts

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ninegak/Project-Aira/internal/audio"
)

func TestSynthesize(t *testing.T) {
	want := []int16{100, -100, 2000, -2000}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/synthesize" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "audio/wav")
		w.Write(audio.EncodeWAV(want, 22050))
	}))
	defer srv.Close()

	e := NewEngine(srv.URL, 22050)
	got, err := e.Synthesize(context.Background(), "hello")
	if err != nil {
		t.Fatalf("synthesize failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestSynthesizeBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not audio"))
	}))
	defer srv.Close()

	e := NewEngine(srv.URL, 22050)
	if _, err := e.Synthesize(context.Background(), "hello"); err == nil {
		t.Fatal("expected decode error for non-WAV payload")
	}
}

func TestProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	e := NewEngine(srv.URL, 22050)
	if err := e.Probe(context.Background()); err != nil {
		t.Fatalf("probe failed against healthy server: %v", err)
	}

	// The probe must go through the engine's own client, timeouts included.
	e.httpc = &http.Client{Timeout: time.Nanosecond}
	if err := e.Probe(context.Background()); err == nil {
		t.Fatal("expected the configured client's timeout to apply to probes")
	}
}

func TestSynthesizeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "voice missing", http.StatusInternalServerError)
	}))
	defer srv.Close()

	e := NewEngine(srv.URL, 22050)
	if _, err := e.Synthesize(context.Background(), "hello"); err == nil {
		t.Fatal("expected error on HTTP 500")
	}
}
