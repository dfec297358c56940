package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ninegak/Project-Aira/internal/audio"
	"github.com/ninegak/Project-Aira/internal/conversation"
	"github.com/ninegak/Project-Aira/internal/emotion"
	"github.com/ninegak/Project-Aira/internal/health"
	"github.com/ninegak/Project-Aira/internal/session"
	"github.com/ninegak/Project-Aira/internal/stream"
	"github.com/ninegak/Project-Aira/internal/stt"
	"github.com/ninegak/Project-Aira/internal/tts"
)

// maxUploadBytes caps audio uploads to the transcription endpoint.
const maxUploadBytes = 25 << 20

type Handlers struct {
	orch       *stream.Orchestrator
	conv       *conversation.Manager
	tracker    *emotion.Tracker
	store      *session.Store
	stt        *stt.Engine
	transcoder *stt.Transcoder
	tts        *tts.Engine
	targets    []health.Target
}

func NewHandlers(orch *stream.Orchestrator, conv *conversation.Manager, tracker *emotion.Tracker, st *session.Store, sttEngine *stt.Engine, tr *stt.Transcoder, ttsEngine *tts.Engine, targets []health.Target) *Handlers {
	return &Handlers{
		orch:       orch,
		conv:       conv,
		tracker:    tracker,
		store:      st,
		stt:        sttEngine,
		transcoder: tr,
		tts:        ttsEngine,
		targets:    targets,
	}
}

func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := health.CheckAll(r.Context(), h.targets)
	w.Header().Set("Content-Type", "application/json")
	if !status.OK {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(status)
}

// HandleTTS synthesizes a single utterance and returns it as a WAV payload.
// Used by the frontend for canned phrases outside a chat turn.
func (h *Handlers) HandleTTS(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, "expected JSON body with non-empty text", http.StatusBadRequest)
		return
	}

	samples, err := h.tts.Synthesize(r.Context(), req.Text)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "audio/wav")
	_, _ = w.Write(audio.EncodeWAV(samples, h.tts.SampleRate()))
}

// HandleTranscribe accepts raw audio bytes, normalizes them to the
// recognizer's format, and returns the transcription.
func (h *Handlers) HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil || len(data) == 0 {
		http.Error(w, "expected audio bytes in request body", http.StatusBadRequest)
		return
	}

	wav, err := h.transcoder.Normalize(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	result, err := h.stt.Transcribe(r.Context(), wav)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	h.store.AppendEvent("stt_transcribed", map[string]any{"chars": len(result.Text)})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(result)
}

// HandleCameraFeatures ingests one camera feature frame. Only derived numeric
// signals arrive here; no image data ever reaches the server.
func (h *Handlers) HandleCameraFeatures(w http.ResponseWriter, r *http.Request) {
	var f emotion.Features
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		http.Error(w, "invalid feature frame", http.StatusBadRequest)
		return
	}

	raw := emotion.FromFeatures(f, time.Now().Unix())
	h.tracker.Update(raw)

	// The response is the committed smoothed context, whether or not this
	// frame moved it past the change threshold.
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.tracker.Current())
}

func (h *Handlers) HandleCameraStatus(w http.ResponseWriter, r *http.Request) {
	c := h.tracker.Current()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"enabled":       h.tracker.HasUpdates(),
		"face_detected": c.Engagement > 0.1,
		"last_update":   c.Timestamp,
		"state":         h.tracker.CurrentState().String(),
	})
}

func (h *Handlers) HandleEmotionCurrent(w http.ResponseWriter, r *http.Request) {
	c := h.tracker.Current()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"context":  c,
		"label":    emotion.DominantLabel(c),
		"advisory": emotion.Advisory(c),
		"smoothed": h.tracker.HasUpdates(),
	})
}

func (h *Handlers) HandleSessionEvents(w http.ResponseWriter, r *http.Request) {
	sess := h.store.Session()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"session_id": sess.ID,
		"turns":      sess.Turns,
		"events":     h.store.ListEvents(),
	})
}

// HandleClearHistory wipes conversation history but keeps the session, its
// event log, and the emotional context.
func (h *Handlers) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	h.conv.ClearHistory()
	h.store.AppendEvent("history_cleared", nil)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
}
