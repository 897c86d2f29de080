package transcript

import (
	"fmt"
	"sync"
	"testing"
)

func TestNewEntry(t *testing.T) {
	e := NewEntry(RoleUser, "hello")

	if e.ID == "" {
		t.Errorf("Expected entry to have an ID")
	}
	if e.Role != RoleUser {
		t.Errorf("Expected role user, got %q", e.Role)
	}
	if e.Text != "hello" {
		t.Errorf("Expected text hello, got %q", e.Text)
	}
	if e.Time.IsZero() {
		t.Errorf("Expected entry time to be set")
	}

	other := NewEntry(RoleUser, "hello")
	if other.ID == e.ID {
		t.Errorf("Expected distinct IDs for distinct entries")
	}
}

func TestLogAppendOrder(t *testing.T) {
	log := NewLog()
	log.Add(RoleUser, "what time is it")
	log.Add(RoleAssistant, "Processed in en: what time is it")
	log.Add(RoleSystem, "Speech synthesis failed: quota exceeded")

	entries := log.Entries()
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	expected := []struct {
		role Role
		text string
	}{
		{RoleUser, "what time is it"},
		{RoleAssistant, "Processed in en: what time is it"},
		{RoleSystem, "Speech synthesis failed: quota exceeded"},
	}
	for i, want := range expected {
		if entries[i].Role != want.role {
			t.Errorf("Entry %d: expected role %q, got %q", i, want.role, entries[i].Role)
		}
		if entries[i].Text != want.text {
			t.Errorf("Entry %d: expected text %q, got %q", i, want.text, entries[i].Text)
		}
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	log := NewLog()
	log.Add(RoleUser, "original")

	entries := log.Entries()
	entries[0].Text = "mutated"

	if got := log.Entries()[0].Text; got != "original" {
		t.Errorf("Expected log to be unaffected by mutation of returned slice, got %q", got)
	}
}

func TestLogConcurrentAppend(t *testing.T) {
	log := NewLog()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				log.Add(RoleUser, fmt.Sprintf("writer %d line %d", n, j))
			}
		}(i)
	}
	wg.Wait()

	if log.Len() != 200 {
		t.Errorf("Expected 200 entries, got %d", log.Len())
	}
}
