// Package journal records one JSON session file per run: every export,
// torrent and upload operation with its outcome, plus run metadata.
// Old sessions are pruned by age.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type OperationType string

const (
	OpExport  OperationType = "export"
	OpTorrent OperationType = "torrent"
	OpUpload  OperationType = "upload"
)

// Operation is one recorded pipeline step for one release unit.
type Operation struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Type      OperationType `json:"type"`
	SceneName string        `json:"scene_name"`
	Detail    string        `json:"detail,omitempty"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// Metadata describes one run.
type Metadata struct {
	RunID         string    `json:"run_id"`
	CommandArgs   []string  `json:"command_args"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
	TotalOps      int       `json:"total_operations"`
	SuccessfulOps int       `json:"successful_operations"`
	FailedOps     int       `json:"failed_operations"`
}

// Session is the on-disk record of one run.
type Session struct {
	Metadata   Metadata    `json:"metadata"`
	Operations []Operation `json:"operations"`
}

// Recorder accumulates operations for one run and writes the session on
// Close. A nil Recorder is a no-op, so callers can record unconditionally.
type Recorder struct {
	mu      sync.Mutex
	dir     string
	session *Session
}

// Start opens a new session recording into dir.
func Start(dir string, args []string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	return &Recorder{
		dir: dir,
		session: &Session{
			Metadata: Metadata{
				RunID:       uuid.NewString(),
				CommandArgs: args,
				StartedAt:   time.Now(),
			},
		},
	}, nil
}

// Record appends one operation to the session.
func (r *Recorder) Record(opType OperationType, sceneName, detail string, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	op := Operation{
		ID:        fmt.Sprintf("%s_%d", r.session.Metadata.RunID, len(r.session.Operations)),
		Timestamp: time.Now(),
		Type:      opType,
		SceneName: sceneName,
		Detail:    detail,
		Success:   err == nil,
	}
	if err != nil {
		op.Error = err.Error()
	}
	r.session.Operations = append(r.session.Operations, op)
}

// Close finalizes statistics and writes the session file.
func (r *Recorder) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	meta := &r.session.Metadata
	meta.FinishedAt = time.Now()
	meta.TotalOps = len(r.session.Operations)
	meta.SuccessfulOps = 0
	for _, op := range r.session.Operations {
		if op.Success {
			meta.SuccessfulOps++
		}
	}
	meta.FailedOps = meta.TotalOps - meta.SuccessfulOps

	data, err := json.MarshalIndent(r.session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	name := fmt.Sprintf("%s_%s.json", meta.StartedAt.Format("20060102_150405"), meta.RunID)
	if err := os.WriteFile(filepath.Join(r.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// ReadSessions loads the most recent sessions from dir, newest first.
// A limit of 0 loads all of them.
func ReadSessions(dir string, limit int) ([]*Session, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read journal dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	sessions := make([]*Session, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read session %s: %w", name, err)
		}
		var session Session
		if err := json.Unmarshal(data, &session); err != nil {
			return nil, fmt.Errorf("parse session %s: %w", name, err)
		}
		sessions = append(sessions, &session)
	}
	return sessions, nil
}

// Prune removes session files older than retentionDays.
func Prune(dir string, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read journal dir: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				return fmt.Errorf("remove old session %s: %w", entry.Name(), err)
			}
		}
	}
	return nil
}
