// Package playback plays synthesized speech through the default output
// device.
package playback

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"

	"github.com/nvoss/parrot/internal/speech"
)

// Player renders synthesized speech audibly. Play blocks until playback has
// finished.
type Player interface {
	Play(ctx context.Context, syn *speech.Synthesis) error
}

// Speaker plays MP3 audio through the default output device. The device is
// opened lazily on first play and reopened if the stream sample rate changes.
type Speaker struct {
	mu          sync.Mutex
	initialized bool
	sampleRate  beep.SampleRate
}

// NewSpeaker creates a speaker.
func NewSpeaker() *Speaker {
	return &Speaker{}
}

// Play decodes the synthesized audio and blocks until the last sample has
// been rendered. Cancelling ctx aborts playback.
func (s *Speaker) Play(ctx context.Context, syn *speech.Synthesis) error {
	if syn == nil || len(syn.Audio) == 0 {
		return fmt.Errorf("no audio to play")
	}
	if syn.ContentType != "" && syn.ContentType != "audio/mpeg" {
		return fmt.Errorf("unsupported audio content type %q", syn.ContentType)
	}

	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(syn.Audio)))
	if err != nil {
		return fmt.Errorf("decoding audio: %w", err)
	}
	defer streamer.Close()

	if err := s.ensureSpeaker(format.SampleRate); err != nil {
		return err
	}

	slog.Debug("playing audio", "bytes", len(syn.Audio), "sample_rate", format.SampleRate)

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}

func (s *Speaker) ensureSpeaker(rate beep.SampleRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized && s.sampleRate == rate {
		return nil
	}
	// Init closes any previously opened device before reopening it.
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}
	s.initialized = true
	s.sampleRate = rate
	return nil
}
