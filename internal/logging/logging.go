// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/phsym/console-slog"
	slogmulti "github.com/samber/slog-multi"
)

// Options selects where log records go
type Options struct {
	Verbose bool
	// Console receives human-readable output. Nil disables console logging.
	Console io.Writer
	// File receives JSON records. Empty disables file logging.
	File string
}

// Level returns the minimum level for the given verbosity
func Level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// New builds a logger from opts. The returned closer releases the log file, if any.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level := Level(opts.Verbose)
	var handlers []slog.Handler
	var closer io.Closer = nopCloser{}

	if opts.Console != nil {
		handlers = append(handlers, console.NewHandler(opts.Console, &console.HandlerOptions{
			AddSource: opts.Verbose,
			Level:     level,
		}))
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, err
		}
		closer = f
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	if len(handlers) == 0 {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), closer, nil
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// Setup builds a logger from opts and installs it as the slog default
func Setup(opts Options) (io.Closer, error) {
	logger, closer, err := New(opts)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
