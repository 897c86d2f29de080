// Package config handles loading and validating the parrot configuration.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the parrot assistant.
type Config struct {
	Google    GoogleConfig    `mapstructure:"google"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Translate TranslateConfig `mapstructure:"translate"`
	Audio     AudioConfig     `mapstructure:"audio"`
	UI        UIConfig        `mapstructure:"ui"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// GoogleConfig holds the Google Cloud settings shared by the speech,
// translation, and synthesis clients.
type GoogleConfig struct {
	// CredentialsFile is the path to a service-account JSON key. It may be an
	// env reference such as "${GOOGLE_APPLICATION_CREDENTIALS}".
	CredentialsFile string `mapstructure:"credentials_file"`

	// TranslateEndpoint overrides the translation API endpoint. Empty means
	// the SDK default.
	TranslateEndpoint string `mapstructure:"translate_endpoint"`

	// Voice is the text-to-speech voice name (e.g., "en-US-Neural2-F").
	Voice string `mapstructure:"voice"`
}

// SpeechConfig configures speech recognition.
type SpeechConfig struct {
	Language  string   `mapstructure:"language"`  // BCP-47 recognition language (e.g., "en-US")
	Languages []string `mapstructure:"languages"` // recognition languages offered in the UI
}

// TranslateConfig configures translation.
type TranslateConfig struct {
	Target  string   `mapstructure:"target"`  // ISO-639-1 target language (e.g., "en")
	Targets []string `mapstructure:"targets"` // target languages offered in the UI
}

// AudioConfig holds microphone capture settings.
type AudioConfig struct {
	SampleRate      int     `mapstructure:"sample_rate"`       // Hz
	FramesPerBuffer int     `mapstructure:"frames_per_buffer"` // samples per device read
	FrameSeconds    float64 `mapstructure:"frame_seconds"`     // duration of one queued frame
	RecordSeconds   float64 `mapstructure:"record_seconds"`    // duration of a single-shot recording
	PollTimeout     string  `mapstructure:"poll_timeout"`      // worker queue poll timeout (e.g., "1s")
}

// UIConfig holds window settings.
type UIConfig struct {
	Notifications bool `mapstructure:"notifications"` // desktop notifications for pipeline errors
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // text, json
	File   string `mapstructure:"file"`   // log file path, truncated each run; empty logs to stdout
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise parrot.yaml is
// searched for in ., ./configs, and the user config directory.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("google.credentials_file", "${GOOGLE_APPLICATION_CREDENTIALS}")
	v.SetDefault("google.translate_endpoint", "")
	v.SetDefault("google.voice", "en-US-Neural2-F")
	v.SetDefault("speech.language", "en-US")
	v.SetDefault("speech.languages", []string{"en-US", "es-ES", "fr-FR", "de-DE"})
	v.SetDefault("translate.target", "en")
	v.SetDefault("translate.targets", []string{"en", "es", "fr", "de"})
	v.SetDefault("audio.sample_rate", 48000)
	v.SetDefault("audio.frames_per_buffer", 1024)
	v.SetDefault("audio.frame_seconds", 4.0)
	v.SetDefault("audio.record_seconds", 5.0)
	v.SetDefault("audio.poll_timeout", "1s")
	v.SetDefault("ui.notifications", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "assistant.log")

	// Config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("parrot")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "parrot"))
		}
	}

	// Environment variables: PARROT_GOOGLE_CREDENTIALS_FILE, PARROT_SPEECH_LANGUAGE, etc.
	v.SetEnvPrefix("PARROT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (optional, env vars and defaults are sufficient)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Resolve env var references in sensitive fields.
	cfg.Google.CredentialsFile = resolveEnvRef(cfg.Google.CredentialsFile)

	return &cfg, nil
}

// resolveEnvRef replaces a "${VAR_NAME}" pattern with the corresponding env
// var value. An unset variable resolves to the empty string so that
// validation reports the field as missing rather than treating the literal
// reference as a path.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		return os.Getenv(val[2 : len(val)-1])
	}
	return val
}

// Validate checks the configuration before any client is constructed.
// Credentials problems are split into two cases: an unset path and a path
// that cannot be read. Malformed key material is left to the first cloud
// call, which reports through the normal service error path.
func (c *Config) Validate() error {
	if c.Google.CredentialsFile == "" {
		return fmt.Errorf("google.credentials_file is not configured")
	}
	if _, err := os.Stat(c.Google.CredentialsFile); err != nil {
		return fmt.Errorf("credentials file %q is not readable: %w", c.Google.CredentialsFile, err)
	}
	if c.Google.Voice == "" {
		return fmt.Errorf("google.voice must not be empty")
	}
	if c.Speech.Language == "" {
		return fmt.Errorf("speech.language must not be empty")
	}
	if len(c.Speech.Languages) == 0 {
		return fmt.Errorf("speech.languages must not be empty")
	}
	if !slices.Contains(c.Speech.Languages, c.Speech.Language) {
		return fmt.Errorf("speech.language %q is not among speech.languages", c.Speech.Language)
	}
	if c.Translate.Target == "" {
		return fmt.Errorf("translate.target must not be empty")
	}
	if len(c.Translate.Targets) == 0 {
		return fmt.Errorf("translate.targets must not be empty")
	}
	if !slices.Contains(c.Translate.Targets, c.Translate.Target) {
		return fmt.Errorf("translate.target %q is not among translate.targets", c.Translate.Target)
	}
	if err := c.Audio.Validate(); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is invalid (debug, info, warn, error)", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q is invalid (text, json)", c.Logging.Format)
	}
	return nil
}

// Validate checks the audio capture settings.
func (a *AudioConfig) Validate() error {
	if a.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be positive, got %d", a.SampleRate)
	}
	if a.FramesPerBuffer <= 0 {
		return fmt.Errorf("audio.frames_per_buffer must be positive, got %d", a.FramesPerBuffer)
	}
	if a.FrameSeconds <= 0 {
		return fmt.Errorf("audio.frame_seconds must be positive, got %g", a.FrameSeconds)
	}
	if a.RecordSeconds <= 0 {
		return fmt.Errorf("audio.record_seconds must be positive, got %g", a.RecordSeconds)
	}
	d, err := time.ParseDuration(a.PollTimeout)
	if err != nil {
		return fmt.Errorf("audio.poll_timeout %q is invalid: %w", a.PollTimeout, err)
	}
	if d <= 0 {
		return fmt.Errorf("audio.poll_timeout must be positive, got %q", a.PollTimeout)
	}
	return nil
}

// GetPollTimeout returns the queue poll timeout as a duration.
// Call Validate first; an unparseable value falls back to one second.
func (a *AudioConfig) GetPollTimeout() time.Duration {
	d, err := time.ParseDuration(a.PollTimeout)
	if err != nil || d <= 0 {
		return time.Second
	}
	return d
}

// GetFrameDuration returns the duration of one queued capture frame.
func (a *AudioConfig) GetFrameDuration() time.Duration {
	return time.Duration(a.FrameSeconds * float64(time.Second))
}

// GetRecordDuration returns the duration of a single-shot recording.
func (a *AudioConfig) GetRecordDuration() time.Duration {
	return time.Duration(a.RecordSeconds * float64(time.Second))
}

// FrameSamples returns the number of samples in one queued capture frame.
func (a *AudioConfig) FrameSamples() int {
	return int(a.FrameSeconds * float64(a.SampleRate))
}

// SetupLogging configures the global slog logger based on config.
// When a log file is configured it is truncated so each run starts a fresh
// log. The returned closer is non-nil when a file was opened.
func SetupLogging(cfg LoggingConfig) (io.Closer, error) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var out io.Writer = os.Stdout
	var closer io.Closer
	if cfg.File != "" {
		f, err := os.Create(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		out = f
		closer = f
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	slog.SetDefault(slog.New(handler))
	return closer, nil
}
