package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// stop markers: generation ends when the model starts a new ChatML frame.
var stopTokens = []string{"<|im_end|>", "<|im_start|>"}

// Engine is a client for a llama.cpp-style completion server. The underlying
// model session is a single mutable resource; callers serialize access via the
// orchestrator's admission permit, not here.
type Engine struct {
	baseURL        string
	maxReplyTokens int
	httpc          *http.Client
}

func NewEngine(baseURL string, maxReplyTokens int) *Engine {
	return &Engine{
		baseURL:        strings.TrimRight(baseURL, "/"),
		maxReplyTokens: maxReplyTokens,
		httpc:          &http.Client{Timeout: 0}, // generation is long-running
	}
}

// Generate streams a completion for prompt, invoking onFragment for each text
// fragment in generation order. A non-nil error from onFragment requests an
// early stop, which is not an error. Returns the number of fragments emitted.
func (e *Engine) Generate(ctx context.Context, prompt string, onFragment func(string) error) (int, error) {
	start := time.Now()
	metricGenerations.Inc()

	body := map[string]any{
		"prompt":    prompt,
		"n_predict": e.maxReplyTokens,
		"stream":    true,
		"stop":      stopTokens,
	}
	reqBytes, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/completion", bytes.NewReader(reqBytes))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := e.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("llm request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return 0, fmt.Errorf("llm status=%d body=%s", resp.StatusCode, string(b))
	}

	fragments := 0
	decoder := newSSEDecoder(bufio.NewReader(resp.Body))
	for {
		data, err := decoder.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fragments, fmt.Errorf("llm stream: %w", err)
		}
		if len(data) == 0 {
			continue
		}
		if string(data) == "[DONE]" {
			break
		}

		var chunk struct {
			Content string `json:"content"`
			Stop    bool   `json:"stop"`
		}
		if err := json.Unmarshal(data, &chunk); err != nil {
			continue
		}
		if containsStopToken(chunk.Content) {
			break
		}
		if chunk.Content != "" {
			fragments++
			metricFragments.Inc()
			if err := onFragment(chunk.Content); err != nil {
				// Consumer requested early stop. Best effort only: the server
				// finishes its in-flight work regardless.
				break
			}
		}
		if chunk.Stop {
			break
		}
	}

	metricGenerationSeconds.Observe(time.Since(start).Seconds())
	return fragments, nil
}

func containsStopToken(s string) bool {
	for _, t := range stopTokens {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// Probe checks that the completion server is reachable. Used by the startup
// gate and the health endpoint.
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
		return fmt.Errorf("llm health status=%d", resp.StatusCode)
	}
	return nil
}

type sseDecoder struct {
	r *bufio.Reader
}

func newSSEDecoder(r *bufio.Reader) *sseDecoder { return &sseDecoder{r: r} }

// Next returns the payload of the next "data:" frame.
func (d *sseDecoder) Next() ([]byte, error) {
	var data []byte
	for {
		line, err := d.r.ReadBytes('\n')
		if err != nil {
			if err == io.EOF && len(data) > 0 {
				return data, nil
			}
			return nil, err
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			if len(data) == 0 {
				continue
			}
			return data, nil
		}
		if bytes.HasPrefix(line, []byte("data:")) {
			data = append(data, bytes.TrimSpace(line[len("data:"):])...)
		}
	}
}
