package config

import (
	"flag"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-d database file path
//	-b backup directory
//	-settings backup settings JSON file path
//	-password-secret secret store entry holding the backup password
//	-secrets-dir sealed secret files directory
//	-log-file rotating log file path
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var databasePath string
	var backupDir string
	var settingsPath string
	var passwordSecret string
	var secretsDir string
	var logFile string
	var jsonConfigPath string

	flag.StringVar(&databasePath, "d", "", "Database file path")
	flag.StringVar(&backupDir, "b", "", "Backup directory")
	flag.StringVar(&settingsPath, "settings", "", "Backup settings JSON file path")
	flag.StringVar(&passwordSecret, "password-secret", "", "Secret store entry holding the backup password")
	flag.StringVar(&secretsDir, "secrets-dir", "", "Sealed secret files directory")
	flag.StringVar(&logFile, "log-file", "", "Rotating log file path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			DatabasePath: databasePath,
		},
		Backup: Backup{
			Dir:            backupDir,
			SettingsPath:   settingsPath,
			PasswordSecret: passwordSecret,
		},
		Secrets: Secrets{
			Dir: secretsDir,
		},
		Log: Log{
			File: logFile,
		},
		JSONFilePath: jsonConfigPath,
	}
}
