package config

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseFlags tests flag parsing with various argument combinations
func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		validate func(t *testing.T, cfg *StructuredConfig)
	}{
		{
			name: "all flags set",
			args: []string{
				"-d", "/data/monbureau.db",
				"-b", "/data/backups",
				"-settings", "/data/backup_settings.json",
				"-password-secret", "Backup_Password",
				"-secrets-dir", "/data/secrets",
				"-log-file", "/var/log/agent.log",
				"-c", "/path/to/config.json",
			},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "/data/monbureau.db", cfg.App.DatabasePath)
				assert.Equal(t, "/data/backups", cfg.Backup.Dir)
				assert.Equal(t, "/data/backup_settings.json", cfg.Backup.SettingsPath)
				assert.Equal(t, "Backup_Password", cfg.Backup.PasswordSecret)
				assert.Equal(t, "/data/secrets", cfg.Secrets.Dir)
				assert.Equal(t, "/var/log/agent.log", cfg.Log.File)
				assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
			},
		},
		{
			name: "config alias flag",
			args: []string{
				"-config", "/path/to/config.json",
			},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
			},
		},
		{
			name: "partial flags",
			args: []string{
				"-d", "/data/monbureau.db",
				"-b", "/mnt/backups",
			},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "/data/monbureau.db", cfg.App.DatabasePath)
				assert.Equal(t, "/mnt/backups", cfg.Backup.Dir)
				assert.Empty(t, cfg.Backup.SettingsPath)
				assert.Empty(t, cfg.Secrets.Dir)
			},
		},
		{
			name: "no flags",
			args: []string{},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Empty(t, cfg.App.DatabasePath)
				assert.Empty(t, cfg.Backup.Dir)
				assert.Empty(t, cfg.Backup.PasswordSecret)
				assert.Empty(t, cfg.Log.File)
				assert.Empty(t, cfg.JSONFilePath)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset flag.CommandLine for each test
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)

			// Set os.Args to simulate command line arguments
			oldArgs := os.Args
			os.Args = append([]string{"cmd"}, tt.args...)
			defer func() { os.Args = oldArgs }()

			cfg := ParseFlags()
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}
