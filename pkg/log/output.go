package log

import (
	"fmt"
	"os"
	"sync"
)

// ConsoleOutput writes formatted entries to stdout, or stderr for
// Warn/Error/Fatal.
type ConsoleOutput struct{}

// NewConsoleOutput returns a ConsoleOutput.
func NewConsoleOutput() *ConsoleOutput { return &ConsoleOutput{} }

func (c *ConsoleOutput) Write(entry *Entry, formatted []byte) error {
	dest := os.Stdout
	if entry.Level >= WarnLevel {
		dest = os.Stderr
	}
	_, err := fmt.Fprintln(dest, string(formatted))
	return err
}

func (c *ConsoleOutput) Close() error { return nil }

// FileOutput appends formatted entries to a file, one per line.
type FileOutput struct {
	mu sync.Mutex
	f  *os.File
}

// NewFileOutput opens (creating if necessary) path for append.
func NewFileOutput(path string) (*FileOutput, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("log: open output file: %w", err)
	}
	return &FileOutput{f: f}, nil
}

func (o *FileOutput) Write(entry *Entry, formatted []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, err := o.f.Write(append(formatted, '\n'))
	return err
}

func (o *FileOutput) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.f.Close()
}

// NullOutput discards every entry. Useful for tests that only assert on
// returned errors, not on emitted log lines.
type NullOutput struct{}

func (NullOutput) Write(*Entry, []byte) error { return nil }
func (NullOutput) Close() error               { return nil }
