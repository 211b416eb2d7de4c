// Package audit keeps an append-only log of authentication events and a
// bounded most-recent-first query over it. Records are written as one JSON
// line each; the log is never mutated or truncated by the running process.
package audit

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultQueryLimit bounds how many entries a query returns.
const DefaultQueryLimit = 100

// Entry is one security event. Field names match the on-disk JSON.
type Entry struct {
	Timestamp  time.Time `json:"timestamp"`
	IP         string    `json:"ip"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"statusCode"`
	UserAgent  string    `json:"userAgent"`
	Email      string    `json:"email"`
	Success    bool      `json:"success"`
}

// Log appends security events to a durable file. Appends are serialized by
// a mutex so concurrent writers never interleave mid-line.
type Log struct {
	mu   sync.Mutex
	file *os.File
	path string

	logger *slog.Logger

	// Throttles sink-failure warnings so a broken disk can't flood the
	// operational log.
	warnEvery rate.Sometimes
}

// Open creates the log directory if needed and opens the file for
// appending.
func Open(path string, logger *slog.Logger) (*Log, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	return &Log{
		file:      f,
		path:      path,
		logger:    logger,
		warnEvery: rate.Sometimes{Interval: time.Minute},
	}, nil
}

// Append writes one entry as a single atomic line. A failing audit sink
// must never fail the request that triggered the event, so errors are
// reported on the operational log and swallowed.
func (l *Log) Append(e Entry) {
	line, err := json.Marshal(e)
	if err != nil {
		l.warn("failed to encode security log entry", err)
		return
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.file.Write(line); err != nil {
		l.warn("failed to append security log entry", err)
	}
}

// Recent returns up to limit entries in reverse-chronological order.
// Limits outside (0, DefaultQueryLimit] are clamped to DefaultQueryLimit.
// Corrupt lines are skipped, not a reason to abort the traversal.
func (l *Log) Recent(limit int) ([]Entry, error) {
	if limit <= 0 || limit > DefaultQueryLimit {
		limit = DefaultQueryLimit
	}

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			continue // forward-compatible read
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Newest first, then cap.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Close releases the underlying file.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

func (l *Log) warn(msg string, err error) {
	l.warnEvery.Do(func() {
		l.logger.Warn(msg, "path", l.path, "err", err)
	})
}
