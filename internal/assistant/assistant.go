// Package assistant implements the voice assistant pipeline.
//
// The assistant owns a capture source, a speech engine, and an audio player.
// While listening, captured frames flow through an unbounded queue into a
// single worker: each frame is recognized, the transcript translated, the
// reply appended to the conversation log, then synthesized and played. New
// entries and listening-state changes are published on an event channel that
// the UI consumes on its own thread.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/nvoss/parrot/internal/capture"
	"github.com/nvoss/parrot/internal/config"
	"github.com/nvoss/parrot/internal/playback"
	"github.com/nvoss/parrot/internal/speech"
	"github.com/nvoss/parrot/internal/transcript"
)

// EventKind discriminates assistant events.
type EventKind int

const (
	// EventEntry signals a new transcript entry.
	EventEntry EventKind = iota

	// EventState signals a change of the listening state.
	EventState
)

// Event is published when the transcript grows or the listening state flips.
type Event struct {
	Kind      EventKind
	Entry     transcript.Entry
	Listening bool
}

// Assistant coordinates capture, recognition, translation, synthesis, and
// playback.
type Assistant struct {
	engine speech.Engine
	source capture.Source
	player playback.Player

	pollTimeout time.Duration
	recordFor   time.Duration

	log    *transcript.Log
	events chan Event

	listening atomic.Bool

	mu         sync.Mutex
	inputLang  string
	outputLang string
	done       chan struct{}
}

// New creates an assistant from config and its collaborators.
func New(cfg *config.Config, engine speech.Engine, source capture.Source, player playback.Player) *Assistant {
	return &Assistant{
		engine:      engine,
		source:      source,
		player:      player,
		pollTimeout: cfg.Audio.GetPollTimeout(),
		recordFor:   cfg.Audio.GetRecordDuration(),
		log:         transcript.NewLog(),
		events:      make(chan Event, 64),
		inputLang:   cfg.Speech.Language,
		outputLang:  cfg.Translate.Target,
	}
}

// Events returns the channel carrying transcript and state events.
func (a *Assistant) Events() <-chan Event {
	return a.events
}

// Transcript returns the conversation log.
func (a *Assistant) Transcript() *transcript.Log {
	return a.log
}

// Listening reports whether continuous capture is active.
func (a *Assistant) Listening() bool {
	return a.listening.Load()
}

// InputLanguage returns the current recognition language.
func (a *Assistant) InputLanguage() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inputLang
}

// OutputLanguage returns the current translation target language.
func (a *Assistant) OutputLanguage() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.outputLang
}

// SetInputLanguage changes the recognition language. It takes effect with
// the next frame.
func (a *Assistant) SetInputLanguage(lang string) {
	a.mu.Lock()
	a.inputLang = lang
	a.mu.Unlock()
	slog.Debug("input language changed", "language", lang)
}

// SetOutputLanguage changes the translation target language. It takes effect
// with the next frame.
func (a *Assistant) SetOutputLanguage(lang string) {
	a.mu.Lock()
	a.outputLang = lang
	a.mu.Unlock()
	slog.Debug("output language changed", "language", lang)
}

// Start begins continuous listening: capture frames are queued and a worker
// drains the queue until Stop is called.
func (a *Assistant) Start() error {
	if !a.listening.CompareAndSwap(false, true) {
		return fmt.Errorf("assistant is already listening")
	}

	// Each session gets a fresh queue; frames left over from a previous
	// session are not replayed.
	queue := capture.NewQueue()
	done := make(chan struct{})
	a.mu.Lock()
	a.done = done
	a.mu.Unlock()

	if err := a.source.Start(queue.Push); err != nil {
		a.listening.Store(false)
		close(done)
		a.addEntry(transcript.RoleSystem, fmt.Sprintf("Microphone unavailable: %v", err))
		return fmt.Errorf("starting capture: %w", err)
	}

	go a.listen(queue, done)

	a.publishState(true)
	slog.Info("listening started",
		"input_language", a.InputLanguage(),
		"output_language", a.OutputLanguage())
	return nil
}

// Stop ends continuous listening. It flips the listening flag, stops the
// capture source, and blocks until the worker has finished its current
// iteration. In-flight service calls are not cancelled.
func (a *Assistant) Stop() error {
	if !a.listening.CompareAndSwap(true, false) {
		return nil
	}

	if err := a.source.Stop(); err != nil {
		slog.Warn("stopping capture", "error", err)
	}

	a.mu.Lock()
	done := a.done
	a.mu.Unlock()
	if done != nil {
		<-done
	}

	a.publishState(false)
	slog.Info("listening stopped")
	return nil
}

// ListenOnce records a single fixed-duration utterance and runs it through
// the pipeline. It must not be called while continuous listening is active.
func (a *Assistant) ListenOnce(ctx context.Context) error {
	if a.listening.Load() {
		return fmt.Errorf("assistant is already listening")
	}

	slog.Info("recording single utterance", "duration", a.recordFor)
	frame, err := a.source.Record(ctx, a.recordFor)
	if err != nil {
		return fmt.Errorf("recording: %w", err)
	}

	a.process(ctx, frame)
	return nil
}

// listen drains the frame queue until the listening flag is cleared. The
// poll timeout bounds how long a stop request can go unnoticed while the
// queue is idle.
func (a *Assistant) listen(queue *capture.Queue, done chan struct{}) {
	defer close(done)

	for a.listening.Load() {
		frame, ok := queue.Pop(a.pollTimeout)
		if !ok {
			continue
		}
		a.process(context.Background(), frame)
	}
}

// process runs one captured frame through the full pipeline. Service
// failures degrade to a system transcript entry; the session continues.
func (a *Assistant) process(ctx context.Context, frame capture.Frame) {
	start := time.Now()
	logger := slog.With("utterance_id", uuid.NewString())

	a.mu.Lock()
	inputLang, outputLang := a.inputLang, a.outputLang
	a.mu.Unlock()

	// Step 1: Recognize the captured frame.
	text, err := a.engine.Recognize(ctx, frame, inputLang)
	if err != nil {
		logger.Error("recognition failed", "error", err)
		a.addEntry(transcript.RoleSystem, fmt.Sprintf("Speech recognition failed: %v", err))
		return
	}
	a.addEntry(transcript.RoleUser, text)
	logger.Info("recognition complete", "text_length", len(text), "language", inputLang)

	// A frame without usable speech ends here; the canned reply is already
	// in the transcript and nothing is translated or synthesized.
	if text == speech.NoSpeechText {
		return
	}

	// Step 2: Translate into the reply language.
	tr, err := a.engine.Translate(ctx, text, outputLang)
	if err != nil {
		logger.Error("translation failed", "error", err)
		a.addEntry(transcript.RoleSystem, fmt.Sprintf("Translation failed: %v", err))
		return
	}
	logger.Info("translation complete", "language", tr.Language, "source", tr.Source)

	// Step 3: Synthesize and play the reply.
	reply := fmt.Sprintf("Processed in %s: %s", tr.Language, tr.Text)
	syn, err := a.engine.Synthesize(ctx, reply)
	if err != nil {
		logger.Error("synthesis failed", "error", err)
		a.addEntry(transcript.RoleSystem, fmt.Sprintf("Speech synthesis failed: %v", err))
		return
	}
	if err := a.player.Play(ctx, syn); err != nil {
		logger.Error("playback failed", "error", err)
		a.addEntry(transcript.RoleSystem, fmt.Sprintf("Audio playback failed: %v", err))
		return
	}

	// Step 4: Append the spoken reply.
	a.addEntry(transcript.RoleAssistant, reply)
	logger.Info("utterance complete", "duration", time.Since(start))
}

// addEntry appends to the log and publishes the entry to the UI.
func (a *Assistant) addEntry(role transcript.Role, text string) {
	entry := a.log.Add(role, text)
	a.publish(Event{Kind: EventEntry, Entry: entry})
}

func (a *Assistant) publishState(listening bool) {
	a.publish(Event{Kind: EventState, Listening: listening})
}

// publish never blocks the pipeline; if the UI consumer has fallen far
// behind, the event is dropped.
func (a *Assistant) publish(ev Event) {
	select {
	case a.events <- ev:
	default:
		slog.Warn("dropping event, consumer is behind", "kind", ev.Kind)
	}
}
