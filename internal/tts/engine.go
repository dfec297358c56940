package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ninegak/Project-Aira/internal/audio"
)

// Engine is a client for a piper-style synthesis server that answers a text
// request with a WAV payload. Synthesis calls are cheap to issue concurrently
// but the orchestrator deliberately serializes them through its worker so
// audio ordering stays predictable.
type Engine struct {
	baseURL    string
	sampleRate int
	httpc      *http.Client
}

func NewEngine(baseURL string, sampleRate int) *Engine {
	return &Engine{
		baseURL:    strings.TrimRight(baseURL, "/"),
		sampleRate: sampleRate,
		httpc:      &http.Client{Timeout: 60 * time.Second},
	}
}

// SampleRate is the synthesizer's native output rate.
func (e *Engine) SampleRate() int { return e.sampleRate }

// Synthesize converts text to mono PCM16 samples at the engine's native rate.
func (e *Engine) Synthesize(ctx context.Context, text string) ([]int16, error) {
	start := time.Now()
	metricRequests.Inc()

	reqBytes, _ := json.Marshal(map[string]string{"text": text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/synthesize", bytes.NewReader(reqBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/wav")

	resp, err := e.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("tts status=%d body=%s", resp.StatusCode, string(b))
	}

	wav, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tts read: %w", err)
	}
	samples, _, err := audio.DecodeWAV(wav)
	if err != nil {
		return nil, fmt.Errorf("tts decode: %w", err)
	}

	metricSynthesizeSeconds.Observe(time.Since(start).Seconds())
	metricSamples.Add(float64(len(samples)))
	return samples, nil
}

// Probe checks that the synthesizer is reachable.
func (e *Engine) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := e.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("tts health status=%d", resp.StatusCode)
	}
	return nil
}
