// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/tierboard/auth"
	"github.com/danielhkuo/tierboard/models"
)

// Draft is an unsubmitted board kept between runs.
type Draft struct {
	Board   models.Board `yaml:"board"`
	SavedAt time.Time    `yaml:"saved_at"`
}

type file struct {
	ParticipantID   string           `yaml:"participant_id"`
	ParticipantName string           `yaml:"participant_name"`
	Drafts          map[string]Draft `yaml:"drafts,omitempty"`
}

// Store is the local participant identity, persisted as YAML.
// Safe for concurrent use within one process.
type Store struct {
	path string

	mu     sync.Mutex
	loaded bool
	data   file
}

// DefaultPath returns $XDG_CONFIG_HOME/tierboard/identity.yaml or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config dir: %w", err)
	}
	return filepath.Join(dir, "tierboard", "identity.yaml"), nil
}

// Open returns a store backed by path. Nothing is read until first use.
func Open(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// ParticipantID returns the stored participant id, creating and saving
// a new one on first use. A stored id the server would reject is replaced.
func (s *Store) ParticipantID() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return "", err
	}
	if auth.ValidateParticipantID(s.data.ParticipantID) == nil {
		return s.data.ParticipantID, nil
	}

	prev := s.data.ParticipantID
	s.data.ParticipantID = auth.NewParticipantID()
	if err := s.save(); err != nil {
		s.data.ParticipantID = prev
		return "", err
	}
	return s.data.ParticipantID, nil
}

// Name returns the saved display name, empty if never set.
func (s *Store) Name() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return "", err
	}
	return s.data.ParticipantName, nil
}

func (s *Store) SetName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	s.data.ParticipantName = name
	return s.save()
}

// Draft returns the unsubmitted board for projectID.
func (s *Store) Draft(projectID string) (Draft, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return Draft{}, false, err
	}
	d, ok := s.data.Drafts[projectID]
	return d, ok, nil
}

func (s *Store) SaveDraft(projectID string, b models.Board) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	if s.data.Drafts == nil {
		s.data.Drafts = make(map[string]Draft)
	}
	s.data.Drafts[projectID] = Draft{Board: b, SavedAt: time.Now().UTC()}
	return s.save()
}

// ClearDraft forgets the draft for projectID. Clearing a missing draft
// is not an error.
func (s *Store) ClearDraft(projectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.load(); err != nil {
		return err
	}
	if _, ok := s.data.Drafts[projectID]; !ok {
		return nil
	}
	delete(s.data.Drafts, projectID)
	return s.save()
}

// load reads the file once. A missing file is an empty identity.
// Callers hold mu.
func (s *Store) load() error {
	if s.loaded {
		return nil
	}
	raw, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read identity: %w", err)
	}
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &s.data); err != nil {
			return fmt.Errorf("failed to parse identity %s: %w", s.path, err)
		}
	}
	s.loaded = true
	return nil
}

// save replaces the file via a temp file and rename.
// Callers hold mu.
func (s *Store) save() error {
	raw, err := yaml.Marshal(&s.data)
	if err != nil {
		return fmt.Errorf("failed to encode identity: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create identity dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".identity-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to write identity: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write identity: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write identity: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write identity: %w", err)
	}
	return nil
}
