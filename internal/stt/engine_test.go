package stt

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/inference" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("bad multipart body: %v", err)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("missing file field: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "  hello world \n"})
	}))
	defer srv.Close()

	e := NewEngine(srv.URL)
	res, err := e.Transcribe(context.Background(), []byte("RIFFfake"))
	if err != nil {
		t.Fatalf("transcribe failed: %v", err)
	}
	if res.Text != "hello world" {
		t.Fatalf("expected trimmed text, got %q", res.Text)
	}
	if res.Confidence != 0.95 {
		t.Fatalf("expected fixed confidence, got %f", res.Confidence)
	}
}

func TestTranscribeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no model", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := NewEngine(srv.URL)
	if _, err := e.Transcribe(context.Background(), []byte("RIFFfake")); err == nil {
		t.Fatal("expected error on HTTP 503")
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

	e := NewEngine(srv.URL)
	if err := e.Probe(context.Background()); err != nil {
		t.Fatalf("probe failed against healthy server: %v", err)
	}

	// The probe must go through the engine's own client, timeouts included.
	e.httpc = &http.Client{Timeout: time.Nanosecond}
	if err := e.Probe(context.Background()); err == nil {
		t.Fatal("expected the configured client's timeout to apply to probes")
	}
}

func TestNormalizePassesWAVThrough(t *testing.T) {
	tr := &Transcoder{}
	in := append([]byte("RIFF"), []byte("rest of container")...)
	out, err := tr.Normalize(in)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if string(out) != string(in) {
		t.Fatal("WAV input must pass through unchanged")
	}
}

func TestNormalizeCleansUpOnFailure(t *testing.T) {
	// Point at a command that always fails so the transcode errors out.
	tr := &Transcoder{FFmpegPath: "/bin/false"}
	if _, err := tr.Normalize([]byte("not a riff container")); err == nil {
		t.Fatal("expected transcode failure")
	}

	// No stt temp files may survive the failure path.
	entries, err := os.ReadDir(os.TempDir())
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "stt_input_") || strings.HasPrefix(e.Name(), "stt_output_") {
			t.Fatalf("leaked temp file %s", filepath.Join(os.TempDir(), e.Name()))
		}
	}
}
