// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonBureau

package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/monbureau/coffre/internal/logger"
	"github.com/monbureau/coffre/models"
)

// startupGrace is the minimum delay before a backup fires. When the policy
// starts already overdue this keeps the backup from competing with
// application startup for the database file.
const startupGrace = 30 * time.Second

// policy is the private implementation of [Policy].
type policy struct {
	store  SettingsStore
	runner BackupRunner
	log    *logger.Logger

	// grace is startupGrace, shortened in tests.
	grace time.Duration

	mu       sync.Mutex
	settings models.BackupSettings
	timer    *time.Timer
	inFlight bool
	stopped  bool
}

// NewPolicy constructs a [Policy]. Nothing is scheduled until Run is called.
func NewPolicy(store SettingsStore, runner BackupRunner, log *logger.Logger) Policy {
	return &policy{store: store, runner: runner, log: log, grace: startupGrace}
}

// Run implements [Policy] and [workers.Worker].
func (p *policy) Run() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.settings = p.store.Load()
	p.rescheduleLocked()
}

// Settings implements [Policy].
func (p *policy) Settings() models.BackupSettings {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

// Update implements [Policy]. The settings are persisted first: a policy
// that schedules from settings it failed to save would silently diverge
// from what the user sees after a restart.
func (p *policy) Update(settings models.BackupSettings) error {
	if err := p.store.Save(settings); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings = settings
	p.rescheduleLocked()
	return nil
}

// Stop implements [Policy].
func (p *policy) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopped = true
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// rescheduleLocked cancels any pending timer and arms a new one for the
// next due moment. Caller holds p.mu.
func (p *policy) rescheduleLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	if p.stopped || !p.settings.Enabled {
		return
	}

	due := p.settings.LastBackup.Add(p.settings.Interval.Duration())
	delay := time.Until(due)
	if delay < p.grace {
		delay = p.grace
	}

	p.timer = time.AfterFunc(delay, p.fire)
	p.log.Info().
		Str("interval", string(p.settings.Interval)).
		Dur("delay", delay).
		Msg("next backup scheduled")
}

// fire runs one scheduled backup and re-arms the timer. LastBackup only
// advances on success, so a failed run is retried after the next interval
// instead of being skipped for a full period.
func (p *policy) fire() {
	p.mu.Lock()
	if p.stopped || p.inFlight {
		p.mu.Unlock()
		return
	}
	p.inFlight = true
	settings := p.settings
	p.mu.Unlock()

	result := p.runner.Create(context.Background(), "")

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false

	if result.Success {
		p.settings.LastBackup = time.Now().UTC()
		if err := p.store.Save(p.settings); err != nil {
			p.log.Error().Err(err).Msg("persist last-backup timestamp")
		}
		p.pruneLocked(settings.BackupDir, settings.MaxRetained)
	} else {
		p.log.Warn().Err(result.Err).Msg("scheduled backup failed, retrying next interval")
	}

	p.rescheduleLocked()
}
