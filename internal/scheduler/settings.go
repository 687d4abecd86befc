// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonBureau

package scheduler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/monbureau/coffre/internal/logger"
	"github.com/monbureau/coffre/models"
)

// fileSettingsStore keeps the backup settings in a small JSON file,
// rewritten whole on every change.
type fileSettingsStore struct {
	path       string
	defaultDir string
	log        *logger.Logger
}

// NewFileSettingsStore returns a [SettingsStore] backed by the JSON file at
// path. defaultDir is the backup directory used when defaults apply.
func NewFileSettingsStore(path, defaultDir string, log *logger.Logger) SettingsStore {
	return &fileSettingsStore{path: path, defaultDir: defaultDir, log: log}
}

// Load implements [SettingsStore]. Any read or parse failure falls back to
// the defaults: a broken settings file must not silently disable backups.
func (s *fileSettingsStore) Load() models.BackupSettings {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("settings unreadable, using defaults")
		}
		return models.DefaultBackupSettings(s.defaultDir)
	}

	var settings models.BackupSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("settings corrupt, using defaults")
		return models.DefaultBackupSettings(s.defaultDir)
	}
	if settings.BackupDir == "" {
		settings.BackupDir = s.defaultDir
	}
	return settings
}

// Save implements [SettingsStore].
func (s *fileSettingsStore) Save(settings models.BackupSettings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	raw, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
