package stream

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/ninegak/Project-Aira/internal/conversation"
	"github.com/ninegak/Project-Aira/internal/emotion"
	"github.com/ninegak/Project-Aira/internal/session"
)

// ErrBusy is reported when a turn cannot take the generation permit within
// the admission timeout.
var ErrBusy = errors.New("busy: another response is being generated")

// LanguageModel streams completion fragments for a rendered prompt. A non-nil
// error from onFragment stops generation early without failing the call.
type LanguageModel interface {
	Generate(ctx context.Context, prompt string, onFragment func(fragment string) error) (int, error)
}

// Synthesizer converts a sentence of text into mono PCM16 samples.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]int16, error)
	SampleRate() int
}

// Options tune the orchestrator's pacing. Zero values take defaults.
type Options struct {
	// SentenceMaxChars forces a synthesis dispatch when a sentence grows
	// past this length without terminal punctuation.
	SentenceMaxChars int
	// AdmissionTimeout bounds how long a turn waits for the generation
	// permit before being rejected as busy.
	AdmissionTimeout time.Duration
	// SynthJoinTimeout bounds how long a finished turn waits for the
	// synthesis worker to drain its queue.
	SynthJoinTimeout time.Duration
	// EventBuffer sizes the per-turn event channel.
	EventBuffer int
}

func (o Options) withDefaults() Options {
	if o.SentenceMaxChars <= 0 {
		o.SentenceMaxChars = 150
	}
	if o.AdmissionTimeout <= 0 {
		o.AdmissionTimeout = 5 * time.Second
	}
	if o.SynthJoinTimeout <= 0 {
		o.SynthJoinTimeout = 15 * time.Second
	}
	if o.EventBuffer <= 0 {
		o.EventBuffer = 128
	}
	return o
}

// Orchestrator runs conversational turns: it admits one generation at a time,
// streams sanitized text fragments, cuts them into sentences, and hands the
// sentences to a single synthesis worker so audio arrives in spoken order.
type Orchestrator struct {
	llm     LanguageModel
	tts     Synthesizer
	conv    *conversation.Manager
	tracker *emotion.Tracker
	store   *session.Store
	opts    Options

	// permit holds one token; whoever takes it owns generation.
	permit chan struct{}
}

// New builds an orchestrator. tracker may be nil when no camera feed exists.
func New(llm LanguageModel, tts Synthesizer, conv *conversation.Manager, tracker *emotion.Tracker, store *session.Store, opts Options) *Orchestrator {
	o := &Orchestrator{
		llm:     llm,
		tts:     tts,
		conv:    conv,
		tracker: tracker,
		store:   store,
		opts:    opts.withDefaults(),
		permit:  make(chan struct{}, 1),
	}
	o.permit <- struct{}{}
	return o
}

// ChatTurn runs one conversational turn and streams its events. The returned
// channel is closed once the turn is over and the synthesis worker has fully
// stopped; a worker that outlives the join timeout delivers its audio late
// rather than never. Events are delivered best-effort: if ctx ends, remaining
// output is dropped but the turn's engine calls still run to completion.
func (o *Orchestrator) ChatTurn(ctx context.Context, message string) <-chan Event {
	events := make(chan Event, o.opts.EventBuffer)
	go o.runTurn(ctx, message, events)
	return events
}

func (o *Orchestrator) runTurn(ctx context.Context, message string, events chan<- Event) {
	select {
	case <-o.permit:
	case <-time.After(o.opts.AdmissionTimeout):
		metricBusyRejections.Inc()
		o.store.AppendEvent("chat_busy", map[string]any{"message_len": len(message)})
		o.send(ctx, events, Event{Type: EventError, Data: ErrBusy.Error()})
		close(events)
		return
	case <-ctx.Done():
		close(events)
		return
	}
	defer func() { o.permit <- struct{}{} }()

	metricTurns.Inc()
	o.store.AppendEvent("chat_started", map[string]any{"message_len": len(message)})

	// Pin the affect snapshot for this turn. A tracker with no committed
	// updates means the camera never produced a usable frame; the prompt
	// then carries no advisory at all.
	if o.tracker != nil && o.tracker.HasUpdates() {
		c := o.tracker.Current()
		o.conv.SetEmotionalContext(&c)
	}

	prompt := o.conv.BuildPrompt(message)

	synthCh := make(chan string, synthQueueDepth)
	workerDone := make(chan struct{})
	go o.synthWorker(ctx, synthCh, events, workerDone)

	var reply, sentence strings.Builder
	start := time.Now()

	fragments, err := o.llm.Generate(context.Background(), prompt, func(fragment string) error {
		// Disconnects are observed here, at fragment boundaries. The
		// engine treats this as an early stop, not a failure.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		clean := SanitizeMarkup(fragment)
		reply.WriteString(clean)
		sentence.WriteString(clean)
		o.send(ctx, events, Event{Data: clean})
		if endsSentence(sentence.String()) || sentence.Len() > o.opts.SentenceMaxChars {
			if dispatch(synthCh, sentence.String()) {
				sentence.Reset()
			}
		}
		return nil
	})

	if err != nil {
		metricTurnErrors.Inc()
		log.Printf("[stream] generation failed: %v", err)
		o.store.AppendEvent("chat_error", map[string]any{"error": err.Error()})
		close(synthCh)
		o.joinWorker(workerDone)
		// The error event is terminal; it goes out only once queued
		// audio has been dealt with so nothing follows it.
		o.send(ctx, events, Event{Type: EventError, Data: err.Error()})
		closeAfter(workerDone, events)
		return
	}

	if ctx.Err() != nil {
		log.Printf("[stream] client went away mid-turn, abandoning response")
		o.store.AppendEvent("chat_abandoned", nil)
		close(synthCh)
		o.joinWorker(workerDone)
		closeAfter(workerDone, events)
		return
	}

	// Whatever is left after the final fragment is its own sentence. The
	// generation loop is over, so a blocking send is fine here.
	if tail := sentence.String(); strings.TrimSpace(tail) != "" {
		synthCh <- tail
	}
	close(synthCh)

	elapsed := time.Since(start).Seconds()
	if elapsed < 1e-6 {
		elapsed = 1e-6
	}
	tps := float64(fragments) / elapsed
	metricTokensPerSecond.Observe(tps)
	o.send(ctx, events, Event{Type: EventTPS, Data: strconv.FormatFloat(tps, 'f', 2, 64)})

	o.conv.RecordTurn(conversation.RoleUser, message)
	o.conv.RecordTurn(conversation.RoleAssistant, reply.String())
	o.store.IncrementTurns()
	o.store.AppendEvent("chat_completed", map[string]any{"fragments": fragments, "tps": tps})

	o.joinWorker(workerDone)
	closeAfter(workerDone, events)
}

// closeAfter closes the event stream once the synthesis worker has fully
// stopped. The worker is normally done already; after a join timeout the
// channel stays open for the straggler's remaining sends, so late audio is
// delivered late instead of panicking on a closed channel.
func closeAfter(done <-chan struct{}, events chan<- Event) {
	go func() {
		<-done
		close(events)
	}()
}

// endsSentence reports whether the accumulated buffer, ignoring trailing
// whitespace, ends on sentence-final punctuation. Punctuation mid-buffer does
// not count; a sentence is only cut where it actually ends.
func endsSentence(s string) bool {
	t := strings.TrimRight(s, " \t\r\n")
	if t == "" {
		return false
	}
	switch t[len(t)-1] {
	case '.', '?', '!':
		return true
	}
	return false
}

// dispatch queues a sentence for synthesis without blocking generation. When
// the queue is full the caller keeps accumulating and retries at the next
// boundary; nothing is dropped.
func dispatch(synthCh chan<- string, text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	select {
	case synthCh <- text:
		return true
	default:
		return false
	}
}

// send delivers an event unless the consumer is gone. A full channel applies
// backpressure; a dead context drops the event.
func (o *Orchestrator) send(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (o *Orchestrator) joinWorker(done <-chan struct{}) {
	select {
	case <-done:
	case <-time.After(o.opts.SynthJoinTimeout):
		metricSynthJoinTimeouts.Inc()
		log.Printf("[stream] synthesis worker still busy after %s, leaving it behind", o.opts.SynthJoinTimeout)
	}
}
