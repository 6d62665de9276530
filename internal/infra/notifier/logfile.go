package notifier

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"price-tracker/internal/usecase/alert"
)

// LogFileSink appends triggered alerts to a plain text file. It keeps a
// local audit trail of every alert even when outbound channels fail.
type LogFileSink struct {
	mu   sync.Mutex
	path string
}

// NewLogFileSink creates a sink that appends alerts to the given file.
// The file is created on first write if it does not exist.
func NewLogFileSink(path string) *LogFileSink {
	return &LogFileSink{path: path}
}

// Name implements the alert.Sink interface.
func (s *LogFileSink) Name() string { return "logfile" }

// Notify appends one line per alert. Writes are serialized so concurrent
// alerts never interleave within a line.
func (s *LogFileSink) Notify(_ context.Context, a alert.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open alert log: %w", err)
	}
	defer func() { _ = f.Close() }()

	line := fmt.Sprintf("%s\t%s\tcurrent=%s\ttarget=%s\tsavings=%s\n",
		a.TriggeredAt.Format(time.RFC3339),
		a.ProductName,
		a.CurrentPrice.StringFixed(2),
		a.TargetPrice.StringFixed(2),
		a.Savings().StringFixed(2))

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write alert log: %w", err)
	}
	return nil
}
