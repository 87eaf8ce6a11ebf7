package log

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	mu      sync.Mutex
	logFile *os.File
	buffer  *bufio.Writer
)

// NewLogger logs to the console at Info, Debug when verbose, and every record
// at Debug to a new file in dir.
func NewLogger(verbose bool, dir string) (*slog.Logger, error) {
	consoleLevel := slog.LevelInfo
	if verbose {
		consoleLevel = slog.LevelDebug
	}
	console := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: consoleLevel})

	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return slog.New(console), fmt.Errorf("error creating log directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("tftbot-%s.log", time.Now().Format("2006-01-02-15-04-05")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return slog.New(console), fmt.Errorf("error opening log file: %w", err)
	}

	mu.Lock()
	logFile = f
	buffer = bufio.NewWriterSize(f, 4096)
	mu.Unlock()

	file := slog.NewTextHandler(lockedWriter{}, &slog.HandlerOptions{Level: slog.LevelDebug})

	return slog.New(fanout{console, file}), nil
}

// lockedWriter writes to the shared file buffer. Warnings and above are
// flushed straight away by fanout.
type lockedWriter struct{}

func (lockedWriter) Write(p []byte) (int, error) {
	mu.Lock()
	defer mu.Unlock()
	if buffer == nil {
		return len(p), nil
	}
	return buffer.Write(p)
}

func FlushLog() {
	mu.Lock()
	defer mu.Unlock()
	if buffer != nil {
		buffer.Flush()
	}
}

func FlushAndClose() error {
	mu.Lock()
	defer mu.Unlock()
	if buffer == nil {
		return nil
	}
	err := errors.Join(buffer.Flush(), logFile.Close())
	buffer, logFile = nil, nil

	return err
}

type fanout []slog.Handler

func (h fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h {
		if handler.Enabled(ctx, r.Level) {
			errs = append(errs, handler.Handle(ctx, r.Clone()))
		}
	}
	if r.Level >= slog.LevelWarn {
		FlushLog()
	}
	return errors.Join(errs...)
}

func (h fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(h))
	for i, handler := range h {
		out[i] = handler.WithAttrs(attrs)
	}
	return out
}

func (h fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(h))
	for i, handler := range h {
		out[i] = handler.WithGroup(name)
	}
	return out
}
