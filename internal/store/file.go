package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"dynamic-island/internal/logger"
	"dynamic-island/internal/reminder"
)

// fileStore keeps the settings in a YAML document.
type fileStore struct {
	path string
	mu   sync.Mutex
	log  zerolog.Logger
}

// NewFileStore creates a settings store backed by the YAML file at path.
func NewFileStore(path string) reminder.SettingsStore {
	return &fileStore{path: path, log: logger.WithComponent("store")}
}

// Load reads the file. A missing or unreadable file yields the defaults.
func (s *fileStore) Load(_ context.Context) reminder.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug().Str("path", s.path).Msg("no settings file, using defaults")
		return reminder.Defaults()
	}
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("failed to read settings, using defaults")
		return reminder.Defaults()
	}

	settings := reminder.Defaults()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("corrupt settings file, using defaults")
		return reminder.Defaults()
	}

	missingIDs := false
	for _, t := range settings.Todos {
		if t.ID == "" {
			missingIDs = true
			break
		}
	}
	settings = settings.Normalize()

	// Persist generated ids so the next Load returns the same ones.
	if missingIDs {
		if err := s.write(settings); err != nil {
			s.log.Warn().Err(err).Str("path", s.path).Msg("failed to persist generated todo ids")
		}
	}
	return settings
}

// Save writes to a temporary file and renames it over the old one.
func (s *fileStore) Save(_ context.Context, settings reminder.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(settings.Normalize())
}

// write replaces the file with settings. The caller holds s.mu.
func (s *fileStore) write(settings reminder.Settings) error {
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}
