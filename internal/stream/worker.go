package stream

import (
	"context"
	"encoding/base64"
	"log"

	"github.com/ninegak/Project-Aira/internal/audio"
)

// synthQueueDepth bounds pending sentences between generation and synthesis.
// Generation outruns synthesis by a wide margin, so the queue absorbs whole
// replies without ever stalling the fragment loop in practice.
const synthQueueDepth = 64

// synthWorker consumes sentence chunks one at a time so audio events arrive
// in spoken order regardless of per-chunk synthesis latency. A failed chunk
// is reported and skipped; the rest of the reply still gets audio.
func (o *Orchestrator) synthWorker(ctx context.Context, chunks <-chan string, events chan<- Event, done chan<- struct{}) {
	defer close(done)
	for text := range chunks {
		if ctx.Err() != nil {
			// Client gone: drain the queue without paying for
			// synthesis nobody will hear.
			continue
		}
		samples, err := o.tts.Synthesize(context.Background(), text)
		if err != nil {
			metricAudioChunkFailures.Inc()
			log.Printf("[stream] tts chunk failed (%d chars): %v", len(text), err)
			o.store.AppendEvent("tts_chunk_failed", map[string]any{"chars": len(text), "error": err.Error()})
			o.send(ctx, events, Event{Type: EventTTSError, Data: "audio unavailable for one sentence"})
			continue
		}
		wav := audio.EncodeWAV(samples, o.tts.SampleRate())
		o.send(ctx, events, Event{Type: EventAudioComplete, Data: base64.StdEncoding.EncodeToString(wav)})
		metricAudioChunks.Inc()
	}
}
