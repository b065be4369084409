package marketplace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// AuditLog appends one JSON line per marketplace action to a per-day
// file. It is an audit trail for monitoring, not a recovery mechanism;
// write failures are swallowed after best effort.
type AuditLog struct {
	dir   string
	runID string
	now   func() time.Time
}

// NewAuditLog creates the log directory if needed. Every entry written
// by this instance carries the same run id, so one process run can be
// traced through the day's file.
func NewAuditLog(dir string) (*AuditLog, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("audit: create log dir %q: %w", dir, err)
	}
	return &AuditLog{dir: dir, runID: uuid.NewString(), now: time.Now}, nil
}

// RunID returns the identifier stamped on this instance's entries.
func (a *AuditLog) RunID() string { return a.runID }

type auditEntry struct {
	Timestamp string         `json:"timestamp"`
	RunID     string         `json:"run_id"`
	Action    string         `json:"action"`
	Status    string         `json:"status"`
	Data      map[string]any `json:"data"`
}

// Append writes one action record to today's log file.
func (a *AuditLog) Append(action, status string, data map[string]any) {
	now := a.now()
	entry := auditEntry{
		Timestamp: now.Format(time.RFC3339),
		RunID:     a.runID,
		Action:    action,
		Status:    status,
		Data:      data,
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return
	}

	path := filepath.Join(a.dir, fmt.Sprintf("whop_api_%s.log", now.Format("20060102")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	f.Write(append(line, '\n'))
}
