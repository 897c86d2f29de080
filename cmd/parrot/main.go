// Parrot is a desktop voice assistant that captures microphone audio,
// transcribes it with Google Cloud Speech, optionally translates the text and
// speaks the reply back through the default output device.
//
// Usage:
//
//	parrot [flags]
//	parrot --config /path/to/parrot.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gioui.org/app"
	"github.com/joho/godotenv"
	"github.com/ncruces/zenity"

	"github.com/nvoss/parrot/internal/assistant"
	"github.com/nvoss/parrot/internal/capture"
	"github.com/nvoss/parrot/internal/config"
	"github.com/nvoss/parrot/internal/notify"
	"github.com/nvoss/parrot/internal/playback"
	"github.com/nvoss/parrot/internal/speech/google"
	"github.com/nvoss/parrot/internal/ui"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configFile := flag.String("config", "", "path to config file (e.g. configs/parrot.yaml)")
	once := flag.Bool("once", false, "record a single utterance without the window and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("parrot %s\n", version)
		os.Exit(0)
	}

	// Credentials commonly live in a .env next to the binary.
	_ = godotenv.Load()

	// Load and validate configuration. Problems here are fatal and shown in
	// a dialog because the app usually runs without a terminal attached.
	cfg, err := config.Load(*configFile)
	if err != nil {
		fatal("failed to load configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		fatal("invalid configuration", err)
	}

	// Setup structured logging. The closer is nil when logging to stdout.
	logFile, err := config.SetupLogging(cfg.Logging)
	if err != nil {
		fatal("failed to set up logging", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	slog.Info("parrot starting", "version", version)

	// Root context with signal handling for graceful shutdown.
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Cloud speech engine: recognition, translation and synthesis.
	engine, err := google.New(ctx, cfg.Google, cfg.Audio.SampleRate)
	if err != nil {
		fatal("failed to connect to speech services", err)
	}
	defer engine.Close()

	mic, err := capture.NewMicrophone(cfg.Audio)
	if err != nil {
		fatal("failed to initialize audio", err)
	}
	defer mic.Close()

	asst := assistant.New(cfg, engine, mic, playback.NewSpeaker())

	if *once {
		runOnce(ctx, asst)
		return
	}

	window := ui.New(cfg, asst, notify.New(cfg.UI.Notifications))
	window.OnExit(func() {
		slog.Info("window closed, shutting down")
		if asst.Listening() {
			if err := asst.Stop(); err != nil {
				slog.Error("stopping assistant", "error", err)
			}
		}
		mic.Close()
		engine.Close()
		if logFile != nil {
			logFile.Close()
		}
		os.Exit(0)
	})
	window.Show()

	// A signal closes the window, which in turn runs the exit callback.
	go func() {
		<-ctx.Done()
		window.Hide()
	}()

	slog.Info("parrot ready",
		"language", asst.InputLanguage(),
		"target", asst.OutputLanguage())
	app.Main()
}

// runOnce records a single utterance headlessly and prints the resulting
// transcript to stdout.
func runOnce(ctx context.Context, asst *assistant.Assistant) {
	slog.Info("recording a single utterance")
	if err := asst.ListenOnce(ctx); err != nil {
		slog.Error("single utterance failed", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	for _, entry := range asst.Transcript().Entries() {
		fmt.Printf("[%s] %s: %s\n", entry.Time.Format("15:04:05"), entry.Role, entry.Text)
	}
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	_ = zenity.Error(fmt.Sprintf("%s:\n%v", msg, err), zenity.Title("Parrot"))
	os.Exit(1)
}
