// Package speech defines the cloud capability interface the assistant
// pipeline is built against: speech recognition, translation, and speech
// synthesis behind a single engine.
package speech

import "context"

// NoSpeechText is the canned transcript returned by Recognize when the
// service finds no usable speech in a frame. It is a normal result, not an
// error; callers short-circuit the rest of the pipeline when they see it.
const NoSpeechText = "Sorry, I didn't catch that."

// Translation is the result of translating a piece of text.
type Translation struct {
	// Text is the translated text.
	Text string

	// Language is the resolved target language code (e.g., "es").
	Language string

	// Source is the detected source language, when the service reports one.
	Source string
}

// Synthesis is synthesized speech audio ready for playback.
type Synthesis struct {
	// Audio is the encoded audio payload.
	Audio []byte

	// ContentType identifies the audio encoding (e.g., "audio/mpeg").
	ContentType string
}

// Engine bundles the cloud operations the assistant needs. Implementations
// must be safe for concurrent use.
type Engine interface {
	// Recognize transcribes one frame of mono 16-bit PCM samples using the
	// given recognition language. When the service detects no speech it
	// returns NoSpeechText; an error means the call itself failed.
	Recognize(ctx context.Context, samples []int16, language string) (string, error)

	// Translate translates text into the target language and reports the
	// language code the service resolved. Callers must not synthesize a
	// reply when Translate fails.
	Translate(ctx context.Context, text, target string) (*Translation, error)

	// Synthesize renders text as speech audio using the configured voice.
	Synthesize(ctx context.Context, text string) (*Synthesis, error)

	// Close releases the underlying service clients.
	Close() error
}
