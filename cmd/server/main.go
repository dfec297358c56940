package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ninegak/Project-Aira/internal/api"
	"github.com/ninegak/Project-Aira/internal/config"
	"github.com/ninegak/Project-Aira/internal/conversation"
	"github.com/ninegak/Project-Aira/internal/emotion"
	"github.com/ninegak/Project-Aira/internal/health"
	"github.com/ninegak/Project-Aira/internal/llm"
	"github.com/ninegak/Project-Aira/internal/session"
	"github.com/ninegak/Project-Aira/internal/stream"
	"github.com/ninegak/Project-Aira/internal/stt"
	"github.com/ninegak/Project-Aira/internal/tts"
)

func main() {
	// Load .env file if present (ignored if missing)
	_ = godotenv.Load()

	cfg := config.Load()

	llmEngine := llm.NewEngine(cfg.LLM.URL, cfg.LLM.MaxReplyTokens)
	sttEngine := stt.NewEngine(cfg.STT.URL)
	ttsEngine := tts.NewEngine(cfg.TTS.URL, cfg.TTS.SampleRate)

	targets := []health.Target{
		{Name: "llm", Prober: llmEngine, Hint: "start the llama.cpp completion server at " + cfg.LLM.URL},
		{Name: "stt", Prober: sttEngine, Hint: "start whisper-server at " + cfg.STT.URL},
		{Name: "tts", Prober: ttsEngine, Hint: "start the synthesis server at " + cfg.TTS.URL},
	}

	// Refuse to start with unreachable engines; the report says which one
	// is down and how to bring it back.
	probeCtx, cancelProbe := context.WithTimeout(context.Background(), 20*time.Second)
	status := health.CheckAll(probeCtx, targets)
	cancelProbe()
	if !status.OK {
		log.Printf("engine probes failed:\n%s", status)
		os.Exit(1)
	}

	conv := conversation.NewManager(cfg.LLM.SystemPrompt, cfg.LLM.MaxContextTokens)
	tracker := emotion.NewTracker(cfg.Emotion.Alpha, cfg.Emotion.ChangeThreshold, cfg.Emotion.MinStateDurationSecs)
	store := session.New()

	orch := stream.New(llmEngine, ttsEngine, conv, tracker, store, stream.Options{
		SentenceMaxChars: cfg.Chat.SentenceMaxChars,
		AdmissionTimeout: time.Duration(cfg.Chat.AdmissionTimeoutSecs) * time.Second,
		SynthJoinTimeout: time.Duration(cfg.Chat.SynthJoinTimeoutSecs) * time.Second,
		EventBuffer:      cfg.Chat.EventBuffer,
	})

	transcoder := &stt.Transcoder{FFmpegPath: cfg.STT.FFmpegPath}
	h := api.NewHandlers(orch, conv, tracker, store, sttEngine, transcoder, ttsEngine, targets)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           logMiddleware(api.NewRouter(h)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigc
		log.Printf("shutdown signal received; stopping server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}()

	log.Printf("session %s ready; server starting on %s", store.Session().ID, addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Println("server error:", err)
		os.Exit(1)
	}
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
