package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/ninegak/Project-Aira/internal/config"
	"github.com/ninegak/Project-Aira/internal/health"
	"github.com/ninegak/Project-Aira/internal/llm"
	"github.com/ninegak/Project-Aira/internal/stt"
	"github.com/ninegak/Project-Aira/internal/tts"
)

// One-shot probe of the three inference engines. Exits non-zero if any is
// unreachable, so it slots into scripts and container health checks.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	targets := []health.Target{
		{Name: "llm", Prober: llm.NewEngine(cfg.LLM.URL, cfg.LLM.MaxReplyTokens), Hint: "start the llama.cpp completion server at " + cfg.LLM.URL},
		{Name: "stt", Prober: stt.NewEngine(cfg.STT.URL), Hint: "start whisper-server at " + cfg.STT.URL},
		{Name: "tts", Prober: tts.NewEngine(cfg.TTS.URL, cfg.TTS.SampleRate), Hint: "start the synthesis server at " + cfg.TTS.URL},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	status := health.CheckAll(ctx, targets)
	fmt.Print(status.String())
	if !status.OK {
		os.Exit(1)
	}
}
