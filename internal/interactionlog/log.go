// Package interactionlog records bot sessions and message exchanges as
// newline-delimited JSON. Each process run owns one timestamp-named file in a
// log directory; older files are rotated away when the log is opened.
package interactionlog

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Log is the active interaction log of one session. It is safe for concurrent use.
type Log struct {
	dir       string
	path      string
	sessionID string
	now       func() time.Time
	logger    *slog.Logger

	mu      sync.Mutex
	botInfo *BotInfo
}

// Option configures a Log.
type Option func(*Log)

// WithClock replaces time.Now for file naming and record timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Log) { l.now = now }
}

// WithLogger sets the logger used to report rotation results.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Log) { l.logger = logger }
}

// WithSessionID tags every record of this log with id.
func WithSessionID(id string) Option {
	return func(l *Log) { l.sessionID = id }
}

// New prepares the log directory, rotates it down to maxFiles files and picks
// the name of this session's file. The file itself is created by the first
// append, in append mode, so a name collision never truncates another run's log.
func New(dir string, maxFiles int, opts ...Option) (*Log, error) {
	l := &Log{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	l.logger = l.logger.With("component", "interaction_log")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	res, err := Rotate(dir, maxFiles)
	if err != nil {
		return nil, fmt.Errorf("failed to rotate log files: %w", err)
	}
	for path, rmErr := range res.Failed {
		l.logger.Warn("Failed to remove old log file", "path", path, "error", rmErr)
	}
	if len(res.Removed) > 0 {
		l.logger.Info("Rotated old log files", "removed", len(res.Removed), "kept", len(res.Kept))
	}

	l.path = filepath.Join(dir, FileName(l.now()))
	l.logger.Debug("Interaction log ready", "path", l.path, "max_files", maxFiles)
	return l, nil
}

// Path returns the file this session appends to.
func (l *Log) Path() string {
	return l.path
}

// Dir returns the log directory.
func (l *Log) Dir() string {
	return l.dir
}

// SessionID returns the id written into records, if any.
func (l *Log) SessionID() string {
	return l.sessionID
}

// BotInfo returns the stored snapshot, or nil if RecordSessionStart was never called.
func (l *Log) BotInfo() *BotInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.botInfo
}

// RecordSessionStart stores info as the snapshot for all later records and
// appends a session_start record.
func (l *Log) RecordSessionStart(info BotInfo) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.botInfo = &info
	return l.appendLocked(SessionStart{
		EventType: EventSessionStart,
		Timestamp: l.now(),
		SessionID: l.sessionID,
		BotInfo:   l.botInfo,
	})
}

// RecordInteraction appends one interaction record. Without a prior
// RecordSessionStart the bot_info field is written as null.
func (l *Log) RecordInteraction(userID int64, username, message, botResponse, persona string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.appendLocked(Interaction{
		EventType:   EventInteraction,
		Timestamp:   l.now(),
		SessionID:   l.sessionID,
		BotInfo:     l.botInfo,
		UserID:      userID,
		Username:    username,
		Message:     message,
		BotResponse: botResponse,
		Persona:     persona,
	})
}

// appendLocked writes record as one line with a single write call on a freshly
// opened file. Callers hold l.mu.
func (l *Log) appendLocked(record any) error {
	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode log record: %w", err)
	}
	line = append(line, '\n')

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", l.path, err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to append to log file %s: %w", l.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close log file %s: %w", l.path, err)
	}
	return nil
}

// Analyze summarises the file at path, or this session's file when path is empty.
func (l *Log) Analyze(path string) (Analysis, error) {
	if path == "" {
		path = l.path
	}
	return AnalyzeFile(path)
}
