package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	content := `{
		"app": {
			"version": "2.1.0",
			"database_path": "/data/monbureau.db"
		},
		"backup": {
			"dir": "/data/backups",
			"settings_path": "/data/backup_settings.json",
			"password_secret": "Backup_Password"
		},
		"secrets": {
			"dir": "/data/secrets"
		},
		"log": {
			"file": "/var/log/agent.log"
		}
	}`
	path := writeTempFile(t, content)

	// Act
	cfg, err := parseJSON(path)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "2.1.0", cfg.App.Version)
	assert.Equal(t, "/data/monbureau.db", cfg.App.DatabasePath)
	assert.Equal(t, "/data/backups", cfg.Backup.Dir)
	assert.Equal(t, "/data/backup_settings.json", cfg.Backup.SettingsPath)
	assert.Equal(t, "Backup_Password", cfg.Backup.PasswordSecret)
	assert.Equal(t, "/data/secrets", cfg.Secrets.Dir)
	assert.Equal(t, "/var/log/agent.log", cfg.Log.File)
	assert.Empty(t, cfg.JSONFilePath, "json source must not point at another json source")
}

func TestParseJSON_FileNotFound(t *testing.T) {
	cfg, err := parseJSON(filepath.Join(t.TempDir(), "missing.json"))

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading a json file")
}

func TestParseJSON_InvalidJSON(t *testing.T) {
	path := writeTempFile(t, `{"app": {`)

	cfg, err := parseJSON(path)

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestParseJSON_EmptyObject(t *testing.T) {
	path := writeTempFile(t, `{}`)

	cfg, err := parseJSON(path)

	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestParseJSON_PartialObject(t *testing.T) {
	path := writeTempFile(t, `{"backup": {"dir": "/mnt/backups"}}`)

	cfg, err := parseJSON(path)

	require.NoError(t, err)
	assert.Equal(t, "/mnt/backups", cfg.Backup.Dir)
	assert.Empty(t, cfg.App.DatabasePath)
	assert.Empty(t, cfg.Secrets.Dir)
}

// Helpers

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
