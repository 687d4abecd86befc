// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonBureau

// Package scheduler runs backups on a timer. A single one-shot timer is
// armed for the next due moment and re-armed after every run or settings
// change, so at most one scheduled backup is ever pending and runs never
// overlap.
package scheduler

import (
	"context"

	"github.com/monbureau/coffre/internal/backup"
	"github.com/monbureau/coffre/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/scheduler_mock.go -package=mock

// BackupRunner creates backup archives on behalf of the policy. Satisfied
// by [backup.Orchestrator].
type BackupRunner interface {
	Create(ctx context.Context, destPath string) backup.Result
}

// SettingsStore persists the scheduled backup settings across restarts.
type SettingsStore interface {
	// Load returns the stored settings. A missing or unreadable settings
	// file yields [models.DefaultBackupSettings], never an error.
	Load() models.BackupSettings

	// Save writes the settings so the next Load returns them.
	Save(settings models.BackupSettings) error
}

// Policy schedules backups according to the persisted settings. Run arms
// the timer and returns; the actual backups happen on timer goroutines.
// Implements [workers.Worker].
type Policy interface {
	// Run loads the settings and arms the timer for the next due backup.
	Run()

	// Settings returns the policy's current settings.
	Settings() models.BackupSettings

	// Update persists new settings, cancels any pending timer and
	// reschedules from the new values.
	Update(settings models.BackupSettings) error

	// Stop cancels the pending timer. A backup already in flight is not
	// interrupted; no new one will be scheduled.
	Stop()
}
