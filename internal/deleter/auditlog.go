package deleter

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const auditTimeLayout = "2006-01-02 15:04:05"

// AuditLog is an append-only, human-readable record of deletion batches.
// Writes are serialized, so concurrent workers may share one log.
type AuditLog struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// OpenAuditLog opens path for appending, creating it if needed.
func OpenAuditLog(path string) (*AuditLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	return &AuditLog{w: f, closer: f}, nil
}

// NewAuditLog writes audit entries to w.
func NewAuditLog(w io.Writer) *AuditLog {
	return &AuditLog{w: w}
}

func (l *AuditLog) write(format string, args ...any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := fmt.Fprintf(l.w, format, args...)
	return err
}

// BeginBatch writes the timestamped batch header.
func (l *AuditLog) BeginBatch(started time.Time, dryRun bool) error {
	mode := "apply"
	if dryRun {
		mode = "dry-run"
	}
	return l.write("\n--- %s (%s) ---\n", started.Format(auditTimeLayout), mode)
}

// Record writes one outcome line.
func (l *AuditLog) Record(o Outcome) error {
	return l.write("[%s] %s\n", o.Status.Tag(), o.Message)
}

// EndBatch writes the batch footer with its error count.
func (l *AuditLog) EndBatch(errors int) error {
	return l.write("--- errors=%d ---\n", errors)
}

func (l *AuditLog) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
