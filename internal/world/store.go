package world

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultLogRetention caps the number of persisted log entries per room.
const DefaultLogRetention = 20000

// LogEntry is one persisted chat line for a room.
type LogEntry struct {
	Room   string    `json:"room"`
	TS     time.Time `json:"ts"`
	Sender string    `json:"sender"`
	Msg    string    `json:"msg"`
}

// Store is the durable backend for world documents and room logs. Calls for
// different rooms may run concurrently; calls for the same room must be
// serialized by the caller.
type Store interface {
	Load(room Key) (*Document, bool, error)
	Save(room Key, doc *Document) error
	AppendLog(room Key, entry LogEntry) error
	History(room Key, limit int) ([]LogEntry, error)
}

// FileStore persists one JSON document and one JSON-lines log per room under
// a data directory. Documents are replaced atomically; logs are appended and
// pruned once they exceed the retention cap.
type FileStore struct {
	dir       string
	retention int

	mu        sync.Mutex
	logCounts map[Key]int
}

// NewFileStore prepares the data directory and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, fmt.Errorf("store directory must not be empty")
	}
	if err := os.MkdirAll(trimmed, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &FileStore{
		dir:       trimmed,
		retention: DefaultLogRetention,
		logCounts: make(map[Key]int),
	}, nil
}

// SetLogRetention overrides the per-room log cap. Values below 1 are ignored.
func (s *FileStore) SetLogRetention(n int) {
	if n < 1 {
		return
	}
	s.mu.Lock()
	s.retention = n
	s.mu.Unlock()
}

// Load reads the persisted document for a room. The second return value
// reports whether a record existed.
func (s *FileStore) Load(room Key) (*Document, bool, error) {
	data, err := os.ReadFile(s.documentPath(room))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read world %s: %w", room, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, false, fmt.Errorf("decode world %s: %w", room, err)
	}
	return &doc, true, nil
}

// Save writes the full document for a room, replacing any previous record.
func (s *FileStore) Save(room Key, doc *Document) error {
	path := s.documentPath(room)
	tmp, err := os.CreateTemp(s.dir, "world-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp world file: %w", err)
	}
	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write world %s: %w", room, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close world %s: %w", room, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace world %s: %w", room, err)
	}
	return nil
}

// AppendLog adds one entry to the room's log, pruning the oldest entries once
// the retention cap is exceeded.
func (s *FileStore) AppendLog(room Key, entry LogEntry) error {
	if entry.Room == "" {
		entry.Room = string(room)
	}
	if entry.TS.IsZero() {
		entry.TS = time.Now().UTC()
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode log entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	count, err := s.logCountLocked(room)
	if err != nil {
		return err
	}
	path := s.logPath(room)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log %s: %w", room, err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("append log %s: %w", room, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close log %s: %w", room, err)
	}
	count++
	s.logCounts[room] = count
	if count > s.retention {
		return s.pruneLogLocked(room)
	}
	return nil
}

// History returns up to limit of the most recent log entries for a room, in
// chronological order.
func (s *FileStore) History(room Key, limit int) ([]LogEntry, error) {
	if limit < 1 {
		return nil, nil
	}
	entries, err := s.readLog(room)
	if err != nil {
		return nil, err
	}
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return entries, nil
}

func (s *FileStore) logCountLocked(room Key) (int, error) {
	if count, ok := s.logCounts[room]; ok {
		return count, nil
	}
	entries, err := s.readLog(room)
	if err != nil {
		return 0, err
	}
	s.logCounts[room] = len(entries)
	return len(entries), nil
}

func (s *FileStore) pruneLogLocked(room Key) error {
	entries, err := s.readLog(room)
	if err != nil {
		return err
	}
	if len(entries) <= s.retention {
		s.logCounts[room] = len(entries)
		return nil
	}
	entries = entries[len(entries)-s.retention:]
	tmp, err := os.CreateTemp(s.dir, "log-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp log file: %w", err)
	}
	w := bufio.NewWriter(tmp)
	for _, entry := range entries {
		line, err := json.Marshal(entry)
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return fmt.Errorf("encode log entry: %w", err)
		}
		w.Write(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("flush log %s: %w", room, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close log %s: %w", room, err)
	}
	if err := os.Rename(tmp.Name(), s.logPath(room)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace log %s: %w", room, err)
	}
	s.logCounts[room] = len(entries)
	return nil
}

func (s *FileStore) readLog(room Key) ([]LogEntry, error) {
	f, err := os.Open(s.logPath(room))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", room, err)
	}
	defer f.Close()
	var entries []LogEntry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			// A torn trailing line from a crash is skipped, not fatal.
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan log %s: %w", room, err)
	}
	return entries, nil
}

func (s *FileStore) documentPath(room Key) string {
	return filepath.Join(s.dir, roomFileName(room)+".json")
}

func (s *FileStore) logPath(room Key) string {
	return filepath.Join(s.dir, roomFileName(room)+".log.jsonl")
}

func roomFileName(room Key) string {
	name := strings.TrimPrefix(string(room), "#")
	var builder strings.Builder
	builder.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			builder.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			builder.WriteRune(r + ('a' - 'A'))
		default:
			builder.WriteRune('_')
		}
	}
	if builder.Len() == 0 {
		return "room"
	}
	return builder.String()
}
