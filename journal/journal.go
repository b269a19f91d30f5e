// Package journal persists capped append-only JSON logs. Every write goes
// through a temp file followed by rename so a crashed tick never leaves a
// torn file behind.
package journal

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Journal is one capped append-only log file of JSON entries.
type Journal struct {
	mu         sync.Mutex
	path       string
	maxEntries int
}

// New creates a journal at path keeping at most maxEntries entries.
func New(path string, maxEntries int) *Journal {
	return &Journal{path: path, maxEntries: maxEntries}
}

// Append adds an entry, trimming the log to the newest maxEntries. A missing
// or unreadable file degrades to an empty log; the parse failure is logged,
// never raised.
func (j *Journal) Append(entry interface{}) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries := j.readAll()
	entries = append(entries, toRaw(entry))
	if j.maxEntries > 0 && len(entries) > j.maxEntries {
		entries = entries[len(entries)-j.maxEntries:]
	}
	return j.write(entries)
}

// Entries returns all current entries as raw JSON.
func (j *Journal) Entries() []json.RawMessage {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.readAll()
}

// Len returns the number of stored entries.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.readAll())
}

func (j *Journal) readAll() []json.RawMessage {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[JOURNAL] read %s failed, starting empty: %v", j.path, err)
		}
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("[JOURNAL] parse %s failed, starting empty: %v", j.path, err)
		return nil
	}
	return entries
}

// write marshals entries and atomically replaces the log file.
func (j *Journal) write(entries []json.RawMessage) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal journal: %w", err)
	}

	dir := filepath.Dir(j.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create journal dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(j.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp journal: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp journal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp journal: %w", err)
	}
	if err := os.Rename(tmpName, j.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace journal: %w", err)
	}
	return nil
}

func toRaw(entry interface{}) json.RawMessage {
	data, err := json.Marshal(entry)
	if err != nil {
		// Entries are plain structs; a marshal failure is a programming error.
		log.Printf("[JOURNAL] marshal entry failed: %v", err)
		return json.RawMessage(`{}`)
	}
	return data
}
