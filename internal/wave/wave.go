// Package wave writes captured PCM audio as WAV files.
package wave

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
)

const bitDepth = 16

// Write encodes mono 16-bit PCM samples as a WAV file at path.
func Write(path string, samples []int16, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating wav file: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: bitDepth,
	}
	for i, s := range samples {
		buf.Data[i] = int(s)
	}

	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("encoding wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalizing wav file: %w", err)
	}
	return f.Close()
}

// WriteTemp writes samples to a uniquely named WAV file in the OS temp
// directory and returns its path. The caller is responsible for removing
// the file.
func WriteTemp(samples []int16, sampleRate int) (string, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("parrot-%s.wav", uuid.NewString()))
	if err := Write(path, samples, sampleRate); err != nil {
		return "", err
	}
	return path, nil
}
