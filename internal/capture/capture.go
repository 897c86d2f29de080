// Package capture provides microphone audio capture through PortAudio.
package capture

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/nvoss/parrot/internal/config"
)

// Frame is a chunk of mono 16-bit PCM samples.
type Frame []int16

// Source produces audio frames from an input device.
type Source interface {
	// Start begins continuous capture. Each time a full frame has
	// accumulated it is handed to onFrame; the callback must not block.
	Start(onFrame func(Frame)) error

	// Stop halts continuous capture and waits for the capture loop to
	// drain. A trailing partial frame is flushed to the callback before
	// Stop returns.
	Stop() error

	// Record captures a single frame of the given duration. It must not be
	// called while continuous capture is running.
	Record(ctx context.Context, d time.Duration) (Frame, error)

	// Close stops capture and releases the audio device.
	Close() error
}

// Microphone captures audio from the default input device.
type Microphone struct {
	sampleRate      int
	framesPerBuffer int
	frameSamples    int

	mu      sync.Mutex
	stream  *portaudio.Stream
	buffer  []int16
	pending Frame
	onFrame func(Frame)
	running bool
	done    chan struct{}
}

// NewMicrophone initializes PortAudio and prepares a capture source using the
// default input device. Callers must Close the microphone to release the
// audio subsystem.
func NewMicrophone(cfg config.AudioConfig) (*Microphone, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing portaudio: %w", err)
	}
	return &Microphone{
		sampleRate:      cfg.SampleRate,
		framesPerBuffer: cfg.FramesPerBuffer,
		frameSamples:    cfg.FrameSamples(),
	}, nil
}

// Start opens the default input stream and begins accumulating frames.
func (m *Microphone) Start(onFrame func(Frame)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("capture is already running")
	}

	buffer := make([]int16, m.framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(m.sampleRate), m.framesPerBuffer, buffer)
	if err != nil {
		return fmt.Errorf("opening input stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("starting input stream: %w", err)
	}

	m.stream = stream
	m.buffer = buffer
	m.pending = make(Frame, 0, m.frameSamples)
	m.onFrame = onFrame
	m.running = true
	m.done = make(chan struct{})

	go m.captureLoop()

	slog.Debug("microphone capture started",
		"sample_rate", m.sampleRate,
		"frame_samples", m.frameSamples)
	return nil
}

func (m *Microphone) captureLoop() {
	defer close(m.done)

	for {
		m.mu.Lock()
		if !m.running {
			tail := m.pending
			m.pending = nil
			onFrame := m.onFrame
			m.mu.Unlock()
			if len(tail) > 0 && onFrame != nil {
				onFrame(tail)
			}
			return
		}
		stream := m.stream
		buffer := m.buffer
		m.mu.Unlock()

		// Only read when a full buffer is available so the loop stays
		// responsive to Stop.
		available, err := stream.AvailableToRead()
		if err != nil || available < len(buffer) {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if err := stream.Read(); err != nil {
			slog.Warn("reading input stream failed", "error", err)
			time.Sleep(10 * time.Millisecond)
			continue
		}

		m.mu.Lock()
		m.pending = append(m.pending, buffer...)
		// One device buffer can complete several frames when frames are
		// configured shorter than the buffer.
		var fulls []Frame
		for len(m.pending) >= m.frameSamples {
			full := make(Frame, m.frameSamples)
			copy(full, m.pending)
			n := copy(m.pending, m.pending[m.frameSamples:])
			m.pending = m.pending[:n]
			fulls = append(fulls, full)
		}
		onFrame := m.onFrame
		m.mu.Unlock()

		if onFrame != nil {
			for _, full := range fulls {
				onFrame(full)
			}
		}
	}
}

// Stop halts the capture loop and closes the input stream. Safe to call when
// capture is not running.
func (m *Microphone) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	stream := m.stream
	done := m.done
	m.mu.Unlock()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		slog.Warn("capture loop did not stop in time")
	}

	m.mu.Lock()
	m.stream = nil
	m.buffer = nil
	m.onFrame = nil
	m.mu.Unlock()

	if err := stream.Stop(); err != nil {
		stream.Close()
		return fmt.Errorf("stopping input stream: %w", err)
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("closing input stream: %w", err)
	}

	slog.Debug("microphone capture stopped")
	return nil
}

// Record captures a single frame of the given duration from the default
// input device.
func (m *Microphone) Record(ctx context.Context, d time.Duration) (Frame, error) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil, fmt.Errorf("capture is already running")
	}
	m.mu.Unlock()

	total := int(d.Seconds() * float64(m.sampleRate))
	buffer := make([]int16, m.framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(m.sampleRate), m.framesPerBuffer, buffer)
	if err != nil {
		return nil, fmt.Errorf("opening input stream: %w", err)
	}
	defer stream.Close()
	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("starting input stream: %w", err)
	}
	defer stream.Stop()

	frame := make(Frame, 0, total+m.framesPerBuffer)
	for len(frame) < total {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		available, err := stream.AvailableToRead()
		if err != nil || available < len(buffer) {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if err := stream.Read(); err != nil {
			return nil, fmt.Errorf("reading input stream: %w", err)
		}
		frame = append(frame, buffer...)
	}
	return frame[:total], nil
}

// Close stops any running capture and shuts down PortAudio.
func (m *Microphone) Close() error {
	if err := m.Stop(); err != nil {
		slog.Warn("stopping capture on close", "error", err)
	}
	if err := portaudio.Terminate(); err != nil {
		return fmt.Errorf("terminating portaudio: %w", err)
	}
	return nil
}
