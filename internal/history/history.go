// package history keeps the capped, newest-first list of prompts that produced a journey.
//
// Entries are stored as one JSON array under [Key], the same shape the browser client kept in local storage.
package history

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/Lesmash/spotify-playlist-creator/internal/models"
	"github.com/Lesmash/spotify-playlist-creator/internal/shared"
)

const (
	// Key is the storage key of the serialized history.
	Key = "journeyHistory"
	// Capacity is the maximum number of entries kept.
	Capacity = 10
	// PreviewLength is the number of characters kept by [Preview].
	PreviewLength = 50
	// TimestampLayout formats entry timestamps in local time.
	TimestampLayout = "2006-01-02 15:04"
)

// Store is the history of one client.
//
// Every operation is a no-op while active reports false.
type Store struct {
	mu        sync.Mutex
	storage   models.Storage
	active    func() bool
	now       func() time.Time
	logger    *log.Logger
	entries   []models.HistoryEntry
	listeners []func([]models.HistoryEntry)
}

// Option configures a [Store].
type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for storage diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates an empty [Store]. Call [Store.Load] to read persisted entries.
func NewStore(storage models.Storage, active func() bool, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		active:  active,
		now:     time.Now,
		entries: []models.HistoryEntry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = shared.NewLogger(nil)
	}
	if s.active == nil {
		s.active = func() bool { return true }
	}
	return s
}

// Subscribe registers fn to receive a copy of the entries after every change.
func (s *Store) Subscribe(fn func([]models.HistoryEntry)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Load replaces the in-memory entries with the persisted ones.
//
// Missing, unreadable or corrupt data yields an empty history and is never returned as an error.
func (s *Store) Load() []models.HistoryEntry {
	if !s.active() {
		return nil
	}

	s.mu.Lock()
	s.entries = s.read()
	out := s.snapshot()
	s.mu.Unlock()

	s.notify(out)
	return out
}

func (s *Store) read() []models.HistoryEntry {
	raw, ok, err := s.storage.Get(Key)
	if err != nil {
		s.logger.Debug("history unreadable, starting empty", "error", err)
		return []models.HistoryEntry{}
	}
	if !ok || raw == "" {
		return []models.HistoryEntry{}
	}

	var entries []models.HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.logger.Debug("history corrupt, starting empty", "error", err)
		return []models.HistoryEntry{}
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	if len(entries) > Capacity {
		entries = entries[:Capacity]
	}
	return entries
}

// Record prepends a new entry for prompt, evicting the oldest beyond [Capacity].
//
// It returns the zero entry and no error when the session is inactive.
func (s *Store) Record(prompt string, trackCount int) (models.HistoryEntry, error) {
	if !s.active() {
		return models.HistoryEntry{}, nil
	}

	s.mu.Lock()
	now := s.now()
	entry := models.HistoryEntry{
		ID:         now.UnixMilli(),
		Prompt:     prompt,
		Timestamp:  now,
		TrackCount: trackCount,
	}
	if len(s.entries) > 0 && entry.ID <= s.entries[0].ID {
		entry.ID = s.entries[0].ID + 1
	}

	entries := make([]models.HistoryEntry, 0, Capacity)
	entries = append(entries, entry)
	entries = append(entries, s.entries...)
	if len(entries) > Capacity {
		entries = entries[:Capacity]
	}
	s.entries = entries

	err := s.persist()
	out := s.snapshot()
	s.mu.Unlock()

	s.notify(out)
	return entry, err
}

// Delete removes the entry with id. A missing id changes nothing and writes nothing.
func (s *Store) Delete(id int64) (bool, error) {
	if !s.active() {
		return false, nil
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}

	entries := make([]models.HistoryEntry, 0, len(s.entries)-1)
	entries = append(entries, s.entries[:idx]...)
	entries = append(entries, s.entries[idx+1:]...)
	s.entries = entries

	err := s.persist()
	out := s.snapshot()
	s.mu.Unlock()

	s.notify(out)
	return true, err
}

// Entries returns a copy of the current entries, newest first.
func (s *Store) Entries() []models.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Find returns the entry with id.
func (s *Store) Find(id int64) (models.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.HistoryEntry{}, fmt.Errorf("%w: %d", shared.ErrHistoryNotFound, id)
	}
	return s.entries[idx], nil
}

func (s *Store) indexOf(id int64) int {
	for i, e := range s.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persist() error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := s.storage.Set(Key, string(data)); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

func (s *Store) snapshot() []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) notify(entries []models.HistoryEntry) {
	s.mu.Lock()
	listeners := make([]func([]models.HistoryEntry), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(entries)
	}
}

// Preview returns the first [PreviewLength] characters of prompt, followed by "..." when it was longer.
func Preview(prompt string) string {
	if utf8.RuneCountInString(prompt) <= PreviewLength {
		return prompt
	}
	runes := []rune(prompt)
	return string(runes[:PreviewLength]) + "..."
}

// FormatTimestamp renders t in local time.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}
