// Package activitylog writes structured JSONL entries describing what a
// client session did: socket connections, dispatched requests, received
// frames, opened files. One line per event, append-only.
package activitylog

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// Logger appends JSONL entries to an activity log file. All methods are
// safe for concurrent use. When disabled (w is nil), all methods are
// no-ops.
type Logger struct {
	mu        sync.Mutex
	w         *os.File
	sessionID string
}

// New creates a Logger that appends to logPath. If logPath is empty or
// the file cannot be opened, returns a no-op logger.
func New(logPath, sessionID string) *Logger {
	if logPath == "" {
		return &Logger{}
	}
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return &Logger{}
	}
	return &Logger{w: f, sessionID: sessionID}
}

// Nop returns a disabled logger. All methods are no-ops.
func Nop() *Logger {
	return &Logger{}
}

// entry is the common envelope for all log lines.
type entry struct {
	Timestamp string `json:"ts"`
	SessionID string `json:"session_id"`
	Event     string `json:"event"`
}

// Connected logs an established outbound connection.
func (l *Logger) Connected(socketPath string) {
	l.log(struct {
		entry
		Socket string `json:"socket"`
	}{
		entry:  l.entry("connected"),
		Socket: socketPath,
	})
}

// Disconnected logs that the session tore down its channels.
func (l *Logger) Disconnected() {
	l.log(l.entry("disconnected"))
}

// Dispatch logs an outbound request.
func (l *Logger) Dispatch(kind, query string) {
	l.log(struct {
		entry
		Kind  string `json:"kind"`
		Query string `json:"query,omitempty"`
	}{
		entry: l.entry("dispatch"),
		Kind:  kind,
		Query: query,
	})
}

// Frame logs a received response frame.
func (l *Logger) Frame(kind string, resultCount int) {
	l.log(struct {
		entry
		Kind    string `json:"kind"`
		Results int    `json:"results"`
	}{
		entry:   l.entry("frame"),
		Kind:    kind,
		Results: resultCount,
	})
}

// Open logs the external open action on a selected file.
func (l *Logger) Open(path string) {
	l.log(struct {
		entry
		Path string `json:"path"`
	}{
		entry: l.entry("open"),
		Path:  path,
	})
}

// BridgeCall logs a one-shot CLI invocation and its outcome.
func (l *Logger) BridgeCall(kind, outcome string) {
	l.log(struct {
		entry
		Kind    string `json:"kind"`
		Outcome string `json:"outcome"` // "response", "fire-and-forget", "unavailable"
	}{
		entry:   l.entry("bridge_call"),
		Kind:    kind,
		Outcome: outcome,
	})
}

// Close closes the underlying file.
func (l *Logger) Close() error {
	if l.w == nil {
		return nil
	}
	return l.w.Close()
}

func (l *Logger) entry(event string) entry {
	return entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		SessionID: l.sessionID,
		Event:     event,
	}
}

func (l *Logger) log(v any) {
	if l.w == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	data = append(data, '\n')
	l.mu.Lock()
	l.w.Write(data)
	l.mu.Unlock()
}
