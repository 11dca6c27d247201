// Package sink routes human-facing progress output to a destination.
//
// Chains report step-by-step progress when asked to. That reporting is
// aimed at a person watching a terminal, not at structured log pipelines,
// so it flows through a Sink rather than a logger: a sink receives plain
// messages with optional styling and decides how to present them. The
// console sink renders ANSI colors, the file sink strips styling and
// appends plain lines, and the silent sink discards everything.
//
// A process-wide default sink feeds output when callers do not supply
// their own. Swap it with SetDefault to redirect all reporting at once,
// for example when a CLI flag sends output to a file instead of the
// terminal.
package sink

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Color selects a foreground color for console output. Values are SGR
// color codes. The zero value leaves the terminal's default color.
type Color uint8

// Foreground colors understood by the console sink.
const (
	Plain   Color = 0
	Red     Color = 31
	Green   Color = 32
	Yellow  Color = 33
	Blue    Color = 34
	Magenta Color = 35
	Cyan    Color = 36
)

// Style describes how a message should be presented. Sinks that cannot
// render styling ignore it.
type Style struct {
	Color Color
	Bold  bool
}

// Sink receives progress messages. Implementations append their own line
// termination; callers pass messages without trailing newlines.
type Sink interface {
	Write(message string, style Style)
}

// ConsoleOption configures a console sink.
type ConsoleOption func(*consoleSink)

// WithWriter directs console output to w instead of stdout.
func WithWriter(w io.Writer) ConsoleOption {
	return func(s *consoleSink) {
		s.w = w
	}
}

// WithoutColor disables ANSI styling, leaving plain text.
func WithoutColor() ConsoleOption {
	return func(s *consoleSink) {
		s.color = false
	}
}

// Console returns a sink that writes styled lines to stdout, or to the
// writer given via WithWriter. Safe for concurrent use.
func Console(opts ...ConsoleOption) Sink {
	s := &consoleSink{w: os.Stdout, color: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type consoleSink struct {
	mu    sync.Mutex
	w     io.Writer
	color bool
}

func (s *consoleSink) Write(message string, style Style) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.color {
		fmt.Fprintln(s.w, message)
		return
	}
	var prefix string
	if style.Bold {
		prefix += "\x1b[1m"
	}
	if style.Color != Plain {
		prefix += fmt.Sprintf("\x1b[%dm", style.Color)
	}
	if prefix == "" {
		fmt.Fprintln(s.w, message)
		return
	}
	fmt.Fprintf(s.w, "%s%s\x1b[0m\n", prefix, message)
}

// FileSink appends plain messages to a file, one per line, dropping all
// styling. Close it when finished to flush the underlying file.
type FileSink struct {
	mu sync.Mutex
	f  *os.File
}

// File opens path for appending and returns a sink writing to it. The
// file is created if it does not exist.
func File(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("sink: open %s: %w", path, err)
	}
	return &FileSink{f: f}, nil
}

// Write appends message as a plain line.
func (s *FileSink) Write(message string, _ Style) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.f, message)
}

// Close closes the underlying file.
func (s *FileSink) Close() error {
	return s.f.Close()
}

// Silent returns a sink that discards every message. Useful in tests and
// anywhere reporting should be suppressed entirely.
func Silent() Sink {
	return silentSink{}
}

type silentSink struct{}

func (silentSink) Write(string, Style) {}

var (
	defaultMu   sync.RWMutex
	defaultSink Sink = Console()
)

// Default returns the process-wide sink used when a caller does not
// provide one.
func Default() Sink {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultSink
}

// SetDefault replaces the process-wide sink. Passing nil restores the
// console sink.
func SetDefault(s Sink) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if s == nil {
		s = Console()
	}
	defaultSink = s
}
