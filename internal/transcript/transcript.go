// Package transcript defines the conversation entries exchanged between the
// assistant pipeline and the UI, and an append-only log that collects them.
package transcript

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies who produced a transcript entry.
type Role string

const (
	// RoleUser is recognized speech attributed to the person at the microphone.
	RoleUser Role = "user"

	// RoleAssistant is the assistant's reply to a recognized utterance.
	RoleAssistant Role = "assistant"

	// RoleSystem is a status or error line produced by the pipeline itself.
	RoleSystem Role = "system"
)

// Entry is a single line of the conversation transcript.
type Entry struct {
	// ID uniquely identifies the entry.
	ID string

	// Role identifies the speaker.
	Role Role

	// Text is the rendered line.
	Text string

	// Time is when the entry was created.
	Time time.Time
}

// NewEntry creates an entry with a fresh ID and the current time.
func NewEntry(role Role, text string) Entry {
	return Entry{
		ID:   uuid.NewString(),
		Role: role,
		Text: text,
		Time: time.Now(),
	}
}

// Log is an append-only, concurrency-safe transcript.
// Entries keep the order they were appended in.
type Log struct {
	mu      sync.Mutex
	entries []Entry
}

// NewLog creates an empty transcript log.
func NewLog() *Log {
	return &Log{}
}

// Append adds an entry to the end of the log.
func (l *Log) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, e)
}

// Add creates an entry from role and text, appends it, and returns it.
func (l *Log) Add(role Role, text string) Entry {
	e := NewEntry(role, text)
	l.Append(e)
	return e
}

// Entries returns a copy of the log in append order.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries in the log.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
