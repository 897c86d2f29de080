// Package ui provides the Gio-based assistant window.
package ui

import (
	"log/slog"
	"sync"
	"time"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget"

	"github.com/nvoss/parrot/internal/assistant"
	"github.com/nvoss/parrot/internal/config"
	"github.com/nvoss/parrot/internal/notify"
	"github.com/nvoss/parrot/internal/transcript"
)

// Window is the main assistant window.
type Window struct {
	mu   sync.Mutex
	asst *assistant.Assistant

	notifier *notify.Notifier

	// Window state
	window  *app.Window
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	// UI state, touched only from the event loop goroutine. Assistant
	// events are drained into it at the start of every frame.
	entries   []transcript.Entry
	listening bool

	inputLangs  []string
	outputLangs []string
	inputLang   string
	outputLang  string

	// Widgets
	toggleBtn      widget.Clickable
	exitBtn        widget.Clickable
	inputButtons   map[string]*widget.Clickable
	outputButtons  map[string]*widget.Clickable
	transcriptList widget.List

	// Callbacks
	onExit func()
}

// New creates the assistant window.
func New(cfg *config.Config, asst *assistant.Assistant, notifier *notify.Notifier) *Window {
	w := &Window{
		asst:          asst,
		notifier:      notifier,
		inputLangs:    append([]string(nil), cfg.Speech.Languages...),
		outputLangs:   append([]string(nil), cfg.Translate.Targets...),
		inputLang:     asst.InputLanguage(),
		outputLang:    asst.OutputLanguage(),
		inputButtons:  make(map[string]*widget.Clickable),
		outputButtons: make(map[string]*widget.Clickable),
	}

	for _, lang := range w.inputLangs {
		w.inputButtons[lang] = new(widget.Clickable)
	}
	for _, lang := range w.outputLangs {
		w.outputButtons[lang] = new(widget.Clickable)
	}

	w.transcriptList.Axis = layout.Vertical
	w.transcriptList.ScrollToEnd = true

	return w
}

// OnExit sets the callback invoked after the window has closed.
func (w *Window) OnExit(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onExit = fn
}

// Show displays the window (non-blocking). The caller must run app.Main on
// the main goroutine afterwards.
func (w *Window) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})

	go w.runEventLoop()
}

// Hide closes the window.
func (w *Window) Hide() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	stopCh := w.stopCh
	doneCh := w.doneCh
	w.stopCh = nil
	w.mu.Unlock()

	if stopCh != nil {
		close(stopCh)
	}
	if doneCh != nil {
		select {
		case <-doneCh:
		case <-time.After(time.Second):
		}
	}
}

// IsVisible reports whether the window is currently shown.
func (w *Window) IsVisible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Window) runEventLoop() {
	defer close(w.doneCh)

	window := new(app.Window)
	window.Option(
		app.Title("Parrot Voice Assistant"),
		app.Size(unit.Dp(520), unit.Dp(640)),
		app.MinSize(unit.Dp(420), unit.Dp(480)),
	)

	w.mu.Lock()
	w.window = window
	stopCh := w.stopCh
	w.mu.Unlock()

	var ops op.Ops

	// Invalidation goroutine; also closes the window when Hide is called.
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				window.Perform(system.ActionClose)
				return
			case <-ticker.C:
				window.Invalidate()
			}
		}
	}()

	for {
		switch e := window.Event().(type) {
		case app.DestroyEvent:
			w.mu.Lock()
			w.running = false
			// Closed via the window decoration rather than Hide; stop the
			// ticker goroutine ourselves.
			if w.stopCh != nil {
				close(w.stopCh)
				w.stopCh = nil
			}
			onExit := w.onExit
			w.mu.Unlock()
			if onExit != nil {
				onExit()
			}
			return
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			w.drainEvents()
			w.handleEvents(gtx)
			w.draw(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

// drainEvents applies pending assistant events to the UI state. It never
// blocks; the invalidation ticker guarantees a frame shows them promptly.
func (w *Window) drainEvents() {
	for {
		select {
		case ev := <-w.asst.Events():
			switch ev.Kind {
			case assistant.EventEntry:
				w.entries = append(w.entries, ev.Entry)
				if ev.Entry.Role == transcript.RoleSystem && w.notifier != nil {
					w.notifier.Notify("Error", ev.Entry.Text)
				}
			case assistant.EventState:
				if ev.Listening != w.listening && w.notifier != nil {
					if ev.Listening {
						w.notifier.Notify("Listening", "Microphone is live.")
					} else {
						w.notifier.Notify("Ready", "Stopped listening.")
					}
				}
				w.listening = ev.Listening
			}
		default:
			return
		}
	}
}

func (w *Window) handleEvents(gtx layout.Context) {
	if w.toggleBtn.Clicked(gtx) {
		w.toggleListening()
	}

	for _, lang := range w.inputLangs {
		if w.inputButtons[lang].Clicked(gtx) && w.inputLang != lang {
			w.inputLang = lang
			w.asst.SetInputLanguage(lang)
		}
	}
	for _, lang := range w.outputLangs {
		if w.outputButtons[lang].Clicked(gtx) && w.outputLang != lang {
			w.outputLang = lang
			w.asst.SetOutputLanguage(lang)
		}
	}

	if w.exitBtn.Clicked(gtx) {
		// Hide waits for this loop to drain, so it must not run on it.
		go w.Hide()
	}
}

// toggleListening starts or stops the assistant off the frame loop; Stop
// blocks until the worker joins and must not stall rendering.
func (w *Window) toggleListening() {
	asst := w.asst
	if asst.Listening() {
		go func() {
			if err := asst.Stop(); err != nil {
				slog.Error("stopping assistant", "error", err)
			}
		}()
		return
	}
	go func() {
		if err := asst.Start(); err != nil {
			slog.Error("starting assistant", "error", err)
		}
	}()
}
