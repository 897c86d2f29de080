package playback

import (
	"context"
	"strings"
	"testing"

	"github.com/nvoss/parrot/internal/speech"
)

func TestPlayRejectsEmptyAudio(t *testing.T) {
	s := NewSpeaker()

	if err := s.Play(context.Background(), nil); err == nil {
		t.Errorf("Expected an error for nil synthesis")
	}
	if err := s.Play(context.Background(), &speech.Synthesis{}); err == nil {
		t.Errorf("Expected an error for empty audio")
	}
}

func TestPlayRejectsUnsupportedContentType(t *testing.T) {
	s := NewSpeaker()

	syn := &speech.Synthesis{Audio: []byte{1, 2, 3}, ContentType: "audio/wav"}
	err := s.Play(context.Background(), syn)
	if err == nil {
		t.Fatalf("Expected an error for unsupported content type")
	}
	if !strings.Contains(err.Error(), "unsupported audio content type") {
		t.Errorf("Expected content type error, got: %v", err)
	}
}

func TestPlayRejectsUndecodableAudio(t *testing.T) {
	s := NewSpeaker()

	syn := &speech.Synthesis{Audio: []byte("not an mp3 stream"), ContentType: "audio/mpeg"}
	err := s.Play(context.Background(), syn)
	if err == nil {
		t.Fatalf("Expected an error for undecodable audio")
	}
	if !strings.Contains(err.Error(), "decoding audio") {
		t.Errorf("Expected decode error, got: %v", err)
	}
}
