// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonBureau

package models

import "time"

// BackupInterval enumerates how often the scheduled backup policy runs.
type BackupInterval string

const (
	IntervalHourly     BackupInterval = "hourly"
	IntervalDaily      BackupInterval = "daily"
	IntervalEvery3Days BackupInterval = "every-3-days"
	IntervalWeekly     BackupInterval = "weekly"
)

// Duration converts the interval to a time.Duration. Unknown values fall
// back to daily so that a corrupted settings file cannot disable backups by
// accident.
func (i BackupInterval) Duration() time.Duration {
	switch i {
	case IntervalHourly:
		return time.Hour
	case IntervalDaily:
		return 24 * time.Hour
	case IntervalEvery3Days:
		return 3 * 24 * time.Hour
	case IntervalWeekly:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// BackupSettings is the persisted configuration of the scheduled backup
// policy. It is stored as a small JSON file next to the application data and
// rewritten on every settings change.
type BackupSettings struct {
	// Enabled turns scheduled backups on or off.
	Enabled bool `json:"enabled"`

	// Interval selects how often a backup becomes due.
	Interval BackupInterval `json:"interval"`

	// LastBackup is the UTC timestamp of the last verified-successful
	// backup. The zero value means no backup has ever completed, which
	// makes the policy immediately overdue.
	LastBackup time.Time `json:"last_backup"`

	// MaxRetained is the number of backup files kept in the backup
	// directory. Zero or negative means unlimited: pruning is skipped.
	MaxRetained int `json:"max_retained"`

	// BackupDir is the directory where scheduled backups are written.
	BackupDir string `json:"backup_dir"`
}

// DefaultBackupSettings returns the policy used when no settings file exists
// or the existing one cannot be read: enabled, daily, immediately overdue,
// keep the 30 most recent backups.
func DefaultBackupSettings(backupDir string) BackupSettings {
	return BackupSettings{
		Enabled:     true,
		Interval:    IntervalDaily,
		LastBackup:  time.Time{},
		MaxRetained: 30,
		BackupDir:   backupDir,
	}
}
