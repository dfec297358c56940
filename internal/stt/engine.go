package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Result is one transcription outcome. The whisper server does not report a
// usable confidence, so it is fixed near-certain for downstream display.
type Result struct {
	Text       string  `json:"text"`
	Confidence float32 `json:"confidence"`
}

// Engine is a client for a whisper.cpp-style inference server. Uploads are
// normalized to 16 kHz mono PCM WAV before they reach Transcribe.
type Engine struct {
	baseURL string
	httpc   *http.Client
}

func NewEngine(baseURL string) *Engine {
	return &Engine{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 120 * time.Second},
	}
}

// Transcribe sends a WAV payload to the recognizer and returns its text.
func (e *Engine) Transcribe(ctx context.Context, wav []byte) (Result, error) {
	start := time.Now()
	metricRequests.Inc()
	metricAudioBytes.Add(float64(len(wav)))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "audio.wav")
	if err != nil {
		return Result{}, err
	}
	if _, err := fw.Write(wav); err != nil {
		return Result{}, err
	}
	if err := mw.WriteField("response_format", "json"); err != nil {
		return Result{}, err
	}
	if err := mw.Close(); err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/inference", &body)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := e.httpc.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("stt request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Result{}, fmt.Errorf("stt status=%d body=%s", resp.StatusCode, string(b))
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("stt decode: %w", err)
	}

	metricTranscribeSeconds.Observe(time.Since(start).Seconds())
	return Result{Text: strings.TrimSpace(out.Text), Confidence: 0.95}, nil
}

// Probe checks that the recognizer is reachable.
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
		return fmt.Errorf("stt health status=%d", resp.StatusCode)
	}
	return nil
}
