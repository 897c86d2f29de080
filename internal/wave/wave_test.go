package wave

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-audio/wav"
)

func TestWriteRoundTrip(t *testing.T) {
	samples := make([]int16, 480)
	for i := range samples {
		samples[i] = int16(i*13 - 240)
	}

	path := filepath.Join(t.TempDir(), "capture.wav")
	if err := Write(path, samples, 16000); err != nil {
		t.Fatalf("Failed to write wav file: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open wav file: %v", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	buf, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatalf("Failed to decode wav file: %v", err)
	}

	if d.NumChans != 1 {
		t.Errorf("Expected mono audio, got %d channels", d.NumChans)
	}
	if d.SampleRate != 16000 {
		t.Errorf("Expected sample rate 16000, got %d", d.SampleRate)
	}
	if d.BitDepth != 16 {
		t.Errorf("Expected 16-bit samples, got %d", d.BitDepth)
	}
	if len(buf.Data) != len(samples) {
		t.Fatalf("Expected %d samples, got %d", len(samples), len(buf.Data))
	}
	for i, s := range samples {
		if buf.Data[i] != int(s) {
			t.Fatalf("Sample %d: expected %d, got %d", i, s, buf.Data[i])
		}
	}
}

func TestWriteEmptyFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")
	if err := Write(path, nil, 48000); err != nil {
		t.Fatalf("Failed to write empty wav file: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat wav file: %v", err)
	}
	// Header only, no sample data.
	if info.Size() == 0 {
		t.Errorf("Expected wav header to be written")
	}
}

func TestWriteTempUniqueNames(t *testing.T) {
	samples := []int16{1, 2, 3, 4}

	first, err := WriteTemp(samples, 48000)
	if err != nil {
		t.Fatalf("Failed to write first temp file: %v", err)
	}
	defer os.Remove(first)

	second, err := WriteTemp(samples, 48000)
	if err != nil {
		t.Fatalf("Failed to write second temp file: %v", err)
	}
	defer os.Remove(second)

	if first == second {
		t.Errorf("Expected unique temp file names, both were %q", first)
	}
	if !strings.HasPrefix(filepath.Base(first), "parrot-") {
		t.Errorf("Expected temp file name to carry the parrot- prefix, got %q", first)
	}
}
