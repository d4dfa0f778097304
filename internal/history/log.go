package history

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"prtlog/internal/domain"
)

// Log owns the history file: the only mutable persisted state. It is
// append-only during live collection and rewritten wholesale by the
// finalization passes. A single running process owns the file exclusively.
type Log struct {
	path   string
	logger *slog.Logger
}

func NewLog(path string, logger *slog.Logger) *Log {
	return &Log{
		path:   path,
		logger: logger.With("component", "history_log"),
	}
}

func (l *Log) Path() string {
	return l.path
}

// EnsureHeader writes the column-name header when the file is missing or
// empty, so it is always the first line.
func (l *Log) EnsureHeader() error {
	info, err := os.Stat(l.path)
	if err == nil && info.Size() > 0 {
		return nil
	}
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("stat history log: %w", err)
	}
	if err := os.WriteFile(l.path, []byte(domain.HistoryHeader+"\n"), 0o644); err != nil {
		return fmt.Errorf("write history header: %w", err)
	}
	l.logger.Info("initialized history log", "path", l.path)
	return nil
}

// Append durably appends one record per observation. An empty set is a
// no-op, not an error.
func (l *Log) Append(observations []domain.Observation) error {
	if len(observations) == 0 {
		return nil
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history log: %w", err)
	}

	var b strings.Builder
	for _, o := range observations {
		b.WriteString(domain.FormatRecord(o.Record()))
		b.WriteByte('\n')
	}
	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		return fmt.Errorf("append history records: %w", err)
	}
	return f.Close()
}

// Lines reads the whole log in forward order.
func (l *Log) Lines() ([]string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read history log: %w", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}
	return lines, nil
}

// Rewrite replaces the log contents with the given lines.
func (l *Log) Rewrite(lines []string) error {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(l.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("rewrite history log: %w", err)
	}
	return nil
}
