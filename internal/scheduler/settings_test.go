package scheduler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monbureau/coffre/internal/logger"
	"github.com/monbureau/coffre/models"
)

func TestFileSettingsStore_LoadDefaultsWhenMissing(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	store := NewFileSettingsStore(filepath.Join(dir, "backup_settings.json"), "/backups", logger.Nop())

	// Act
	got := store.Load()

	// Assert
	assert.Equal(t, models.DefaultBackupSettings("/backups"), got)
	assert.True(t, got.Enabled)
	assert.True(t, got.LastBackup.IsZero(), "fresh install must be immediately overdue")
}

func TestFileSettingsStore_LoadDefaultsWhenCorrupt(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "backup_settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	store := NewFileSettingsStore(path, "/backups", logger.Nop())

	// Act
	got := store.Load()

	// Assert
	assert.Equal(t, models.DefaultBackupSettings("/backups"), got)
}

func TestFileSettingsStore_SaveLoadRoundTrip(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "nested", "dir", "backup_settings.json")
	store := NewFileSettingsStore(path, "/backups", logger.Nop())

	settings := models.BackupSettings{
		Enabled:     true,
		Interval:    models.IntervalWeekly,
		LastBackup:  time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC),
		MaxRetained: 7,
		BackupDir:   "/custom/backups",
	}

	// Act
	require.NoError(t, store.Save(settings))
	got := store.Load()

	// Assert
	assert.Equal(t, settings.Interval, got.Interval)
	assert.True(t, got.LastBackup.Equal(settings.LastBackup))
	assert.Equal(t, settings.MaxRetained, got.MaxRetained)
	assert.Equal(t, settings.BackupDir, got.BackupDir)
}

func TestFileSettingsStore_LoadFillsEmptyBackupDir(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "backup_settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"enabled":true,"interval":"hourly"}`), 0o600))
	store := NewFileSettingsStore(path, "/default/backups", logger.Nop())

	// Act
	got := store.Load()

	// Assert
	assert.Equal(t, "/default/backups", got.BackupDir)
	assert.Equal(t, models.IntervalHourly, got.Interval)
}
