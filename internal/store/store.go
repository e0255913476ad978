// Package store checkpoints a match to a JSON file so a session can be
// resumed. A missing or damaged save is never an error for the caller: it
// simply means there is nothing to resume.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/yahtzee/internal/fileutil"
	"github.com/lox/yahtzee/internal/game"
)

// Version is written into every save file.
const Version = 1

// DefaultPath is used when no path is configured.
const DefaultPath = "yahtzee-save.json"

// SaveFile is the on-disk format: the match snapshot plus metadata.
type SaveFile struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"savedAt"`
	game.Snapshot
}

// Store reads and writes one save file.
type Store struct {
	path   string
	clock  quartz.Clock
	logger *log.Logger
}

// New returns a store for path. A nil clock uses the wall clock.
func New(path string, clock quartz.Clock, logger *log.Logger) *Store {
	if path == "" {
		path = DefaultPath
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Store{
		path:   path,
		clock:  clock,
		logger: logger.WithPrefix("store").With("path", path),
	}
}

// Path returns the save file location.
func (s *Store) Path() string { return s.path }

// Save checkpoints m. A finished match has nothing to resume, so its save
// is removed instead.
func (s *Store) Save(m *game.Match) error {
	if m.IsFinished() {
		return s.Clear()
	}

	data, err := json.MarshalIndent(SaveFile{
		Version:  Version,
		SavedAt:  s.clock.Now().UTC(),
		Snapshot: m.Snapshot(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode save: %w", err)
	}
	if err := fileutil.WriteFileAtomic(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}
	s.logger.Debug("Saved match", "match", m.ID(), "round", m.Round())
	return nil
}

// Load reads the save file. ok is false when there is no usable save.
func (s *Store) Load() (save SaveFile, ok bool) {
	data, exists, err := fileutil.ReadFileIfExists(s.path)
	if err != nil {
		s.logger.Warn("Failed to read save, starting fresh", "error", err)
		return SaveFile{}, false
	}
	if !exists {
		return SaveFile{}, false
	}
	if err := json.Unmarshal(data, &save); err != nil {
		s.logger.Warn("Corrupt save, starting fresh", "error", err)
		return SaveFile{}, false
	}
	if save.Version != Version {
		s.logger.Warn("Unsupported save version, starting fresh", "version", save.Version)
		return SaveFile{}, false
	}
	return save, true
}

// Resume loads and restores the saved match. Any failure is logged and
// reported as ok=false.
func (s *Store) Resume(roller game.Roller, opts ...game.MatchOption) (*game.Match, bool) {
	save, ok := s.Load()
	if !ok {
		return nil, false
	}
	m, err := game.Restore(save.Snapshot, roller, opts...)
	if err != nil {
		s.logger.Warn("Invalid save, starting fresh", "error", err)
		return nil, false
	}
	s.logger.Info("Resumed match", "match", m.ID(), "round", m.Round(), "savedAt", save.SavedAt)
	return m, true
}

// Clear removes the save file.
func (s *Store) Clear() error {
	if err := fileutil.RemoveIfExists(s.path); err != nil {
		return fmt.Errorf("failed to remove save: %w", err)
	}
	return nil
}

// Autosave returns a subscriber that checkpoints m whenever it reaches a
// consistent point: a new turn, a roll or a hold. It clears the save when
// the match finishes. Save errors are logged.
func (s *Store) Autosave(m *game.Match) game.EventSubscriber {
	return &autosaver{store: s, match: m}
}

type autosaver struct {
	store *Store
	match *game.Match
}

func (a *autosaver) OnEvent(event game.GameEvent) {
	switch event.EventType() {
	case game.EventTypeTurnStarted, game.EventTypeDiceRolled, game.EventTypeHoldToggled:
		if err := a.store.Save(a.match); err != nil {
			a.store.logger.Error("Autosave failed", "error", err)
		}
	case game.EventTypeMatchFinished:
		if err := a.store.Clear(); err != nil {
			a.store.logger.Error("Failed to clear save", "error", err)
		}
	}
}
