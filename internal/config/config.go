// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonBureau

package config

// StructuredConfig is the top-level configuration container for the
// MonBureau backup agent. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line
// flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the database location
	// and the application version.
	App App `envPrefix:"APP_"`

	// Backup holds the backup directory, settings file and password
	// source used by the backup orchestrator and scheduler.
	Backup Backup `envPrefix:"BACKUP_"`

	// Secrets holds the secret store locations.
	Secrets Secrets `envPrefix:"SECRETS_"`

	// Log holds logging output settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running application
	// (e.g. "2.1.0"). Recorded in every backup's metadata.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// DatabasePath is the path to the live database file that backups
	// capture and restores replace. Required.
	// Env: APP_DATABASE_PATH
	DatabasePath string `env:"DATABASE_PATH"`
}

// Backup holds configuration for the backup orchestrator and the scheduled
// backup policy.
type Backup struct {
	// Dir is the directory where archives, pre-restore snapshots and the
	// backup history live. Empty means the per-user default directory.
	// Env: BACKUP_DIR
	Dir string `env:"DIR"`

	// SettingsPath is the path of the scheduled-backup settings JSON
	// file. Empty means backup_settings.json inside Dir.
	// Env: BACKUP_SETTINGS_PATH
	SettingsPath string `env:"SETTINGS_PATH"`

	// PasswordSecret names the secret-store entry holding the backup
	// encryption password. Empty means backups are written unencrypted.
	// Env: BACKUP_PASSWORD_SECRET
	PasswordSecret string `env:"PASSWORD_SECRET"`
}

// Secrets holds the secret store locations.
type Secrets struct {
	// Dir is the directory for machine-bound sealed secret files. Empty
	// means the per-user default directory.
	// Env: SECRETS_DIR
	Dir string `env:"DIR"`
}

// Log holds logging output settings.
type Log struct {
	// File is the path of the rotating log file. Empty means stdout only.
	// Env: LOG_FILE
	File string `env:"FILE"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
