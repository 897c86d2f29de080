// Package google implements the speech engine on Google Cloud APIs.
//
// It uses Cloud Speech-to-Text for recognition, Cloud Translation (v2) for
// translation, and Cloud Text-to-Speech for synthesis. All three clients
// authenticate with the same service-account credentials file.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	speechapi "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	ttsapi "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"

	"github.com/nvoss/parrot/internal/config"
	"github.com/nvoss/parrot/internal/speech"
	"github.com/nvoss/parrot/internal/wave"
)

// Engine talks to the Google Cloud speech, translation, and text-to-speech
// services.
type Engine struct {
	recognizer  *speechapi.Client
	translator  *translate.Client
	synthesizer *ttsapi.Client

	voice      string
	sampleRate int

	logger *slog.Logger
}

// New creates an engine from config. The sample rate must match the rate the
// capture source records at.
func New(ctx context.Context, cfg config.GoogleConfig, sampleRate int) (*Engine, error) {
	creds := option.WithCredentialsFile(cfg.CredentialsFile)

	recognizer, err := speechapi.NewClient(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("creating speech client: %w", err)
	}

	translateOpts := []option.ClientOption{creds}
	if cfg.TranslateEndpoint != "" {
		translateOpts = append(translateOpts, option.WithEndpoint(cfg.TranslateEndpoint))
	}
	translator, err := translate.NewClient(ctx, translateOpts...)
	if err != nil {
		recognizer.Close()
		return nil, fmt.Errorf("creating translate client: %w", err)
	}

	synthesizer, err := ttsapi.NewClient(ctx, creds)
	if err != nil {
		recognizer.Close()
		translator.Close()
		return nil, fmt.Errorf("creating text-to-speech client: %w", err)
	}

	return &Engine{
		recognizer:  recognizer,
		translator:  translator,
		synthesizer: synthesizer,
		voice:       cfg.Voice,
		sampleRate:  sampleRate,
		logger:      slog.With("component", "speech"),
	}, nil
}

// Recognize writes the samples to a temporary WAV file, sends its contents to
// the recognition service, and returns the transcript. The temporary file is
// removed before Recognize returns.
func (e *Engine) Recognize(ctx context.Context, samples []int16, lang string) (string, error) {
	path, err := wave.WriteTemp(samples, e.sampleRate)
	if err != nil {
		return "", fmt.Errorf("writing capture file: %w", err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading capture file: %w", err)
	}

	resp, err := e.recognizer.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz: int32(e.sampleRate),
			LanguageCode:    lang,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: data},
		},
	})
	if err != nil {
		return "", fmt.Errorf("recognizing speech: %w", err)
	}

	text := transcriptFromResponse(resp)
	if text == "" {
		e.logger.Debug("no speech detected in frame", "samples", len(samples))
		return speech.NoSpeechText, nil
	}

	e.logger.Debug("recognition complete", "text_length", len(text), "language", lang)
	return text, nil
}

// Translate translates text into the target language.
func (e *Engine) Translate(ctx context.Context, text, target string) (*speech.Translation, error) {
	tag, err := language.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parsing target language %q: %w", target, err)
	}

	results, err := e.translator.Translate(ctx, []string{text}, tag, nil)
	if err != nil {
		return nil, fmt.Errorf("translating text: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("translation returned no results")
	}

	e.logger.Debug("translation complete", "target", tag.String(), "source", results[0].Source.String())
	return &speech.Translation{
		Text:     results[0].Text,
		Language: tag.String(),
		Source:   results[0].Source.String(),
	}, nil
}

// Synthesize renders text as MP3 audio using the configured voice.
func (e *Engine) Synthesize(ctx context.Context, text string) (*speech.Synthesis, error) {
	resp, err := e.synthesizer.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: langFromVoice(e.voice),
			Name:         e.voice,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("synthesizing speech: %w", err)
	}
	if len(resp.GetAudioContent()) == 0 {
		return nil, fmt.Errorf("synthesis returned no audio")
	}

	e.logger.Debug("synthesis complete", "voice", e.voice, "audio_bytes", len(resp.GetAudioContent()))
	return &speech.Synthesis{
		Audio:       resp.GetAudioContent(),
		ContentType: "audio/mpeg",
	}, nil
}

// Close releases all three service clients.
func (e *Engine) Close() error {
	var errs []error
	if err := e.recognizer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing speech client: %w", err))
	}
	if err := e.translator.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing translate client: %w", err))
	}
	if err := e.synthesizer.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing text-to-speech client: %w", err))
	}
	return errors.Join(errs...)
}

// --- Internal helpers ---

// transcriptFromResponse joins the top alternative of each result into a
// single transcript.
func transcriptFromResponse(resp *speechpb.RecognizeResponse) string {
	var sb strings.Builder
	for _, result := range resp.GetResults() {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(strings.TrimSpace(alts[0].GetTranscript()))
	}
	return strings.TrimSpace(sb.String())
}

// langFromVoice derives the BCP-47 language code from a voice name, e.g.
// "en-US-Neural2-F" becomes "en-US".
func langFromVoice(voice string) string {
	parts := strings.SplitN(voice, "-", 3)
	if len(parts) < 2 {
		return voice
	}
	return parts[0] + "-" + parts[1]
}
