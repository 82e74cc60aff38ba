package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls where log output goes.
type Options struct {
	// Verbosity maps -v counts to levels: 0 warn, 1 info, 2 debug, 3+ trace.
	Verbosity int
	// File overrides the default log file under the XDG state dir.
	File string
	// Console also writes human-readable output to stderr. Interactive
	// commands leave this off since the terminal belongs to the UI.
	Console bool
}

// Setup configures the global logger and returns a cleanup func that closes
// the log file. When the file cannot be opened, logging falls back to the
// console if enabled and is discarded otherwise; that is not an error.
func Setup(opts Options) (cleanup func(), err error) {
	zerolog.SetGlobalLevel(levelFor(opts.Verbosity))

	var writers []io.Writer
	if opts.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		})
	}

	path := opts.File
	if path == "" {
		path = DefaultFilePath()
	}
	f, ferr := openLogFile(path)
	if ferr == nil {
		writers = append(writers, f)
	}

	var out io.Writer = io.Discard
	if len(writers) > 0 {
		out = io.MultiWriter(writers...)
	}
	logger := zerolog.New(out).With().Timestamp().Logger()
	if opts.Verbosity >= 2 {
		logger = logger.With().Caller().Logger()
	}
	log.Logger = logger

	if ferr != nil {
		log.Warn().Err(ferr).Str("path", path).Msg("failed to open log file")
		return func() {}, nil
	}
	log.Debug().Int("verbosity", opts.Verbosity).Str("logFile", path).Msg("logger initialized")
	return func() { f.Close() }, nil
}

// GetLogger returns the global logger tagged with a component name.
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// DefaultFilePath is $XDG_STATE_HOME/toast/toast.log.
func DefaultFilePath() string {
	return filepath.Join(xdg.StateHome, "toast", "toast.log")
}

func levelFor(verbosity int) zerolog.Level {
	switch verbosity {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
