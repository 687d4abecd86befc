// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonBureau

// Package backup creates and restores MonBureau backup archives: a zip
// container holding the database file plus a JSON metadata entry, optionally
// wrapped in the encrypted archive format. Within one operation the order is
// fixed — close connections, read files, write the container, encrypt — so
// the database is consistent and unlocked before it is ever read.
package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/monbureau/coffre/internal/cryptofile"
	"github.com/monbureau/coffre/internal/dbinfo"
	"github.com/monbureau/coffre/internal/logger"
	"github.com/monbureau/coffre/models"
)

// Options configures [NewOrchestrator].
type Options struct {
	// DatabasePath is the live database file. Required.
	DatabasePath string

	// BackupDir is where default-named archives, pre-restore snapshots
	// and the backup history live. Default: [DefaultBackupDir].
	BackupDir string

	// Version is the application version recorded in backup metadata.
	Version string

	// Password encrypts new archives and decrypts existing ones. Empty
	// means archives are written and read as plain zip containers.
	Password string

	// CloseConnections is called before the database file is read so the
	// data layer can release its handle. Optional.
	CloseConnections func() error

	// Counts supplies domain record counts for metadata. Optional.
	Counts dbinfo.CountProvider
}

// orchestrator is the private implementation of [Orchestrator].
type orchestrator struct {
	opts  Options
	codec cryptofile.Codec
	log   *logger.Logger
}

// NewOrchestrator constructs an [Orchestrator]. The backup directory
// defaults to [DefaultBackupDir] when unset.
func NewOrchestrator(opts Options, codec cryptofile.Codec, log *logger.Logger) (Orchestrator, error) {
	if opts.DatabasePath == "" {
		return nil, errors.New("backup: database path is required")
	}
	if opts.BackupDir == "" {
		opts.BackupDir = DefaultBackupDir()
	}
	return &orchestrator{opts: opts, codec: codec, log: log}, nil
}

// Create implements [Orchestrator].
func (o *orchestrator) Create(ctx context.Context, destPath string) Result {
	if o.opts.CloseConnections != nil {
		if err := o.opts.CloseConnections(); err != nil {
			return o.fail(MsgBackupFailed, fmt.Errorf("close connections: %w", err))
		}
	}

	dbStat, err := os.Stat(o.opts.DatabasePath)
	if err != nil {
		return o.fail(MsgBackupFailed, fmt.Errorf("stat database: %w", err))
	}

	meta := &models.BackupMetadata{
		CreatedAt:     time.Now().UTC(),
		Version:       o.opts.Version,
		DatabasePath:  o.opts.DatabasePath,
		FileSizeBytes: dbStat.Size(),
	}
	if o.opts.Counts != nil {
		counts := o.opts.Counts.Counts(ctx)
		meta.ClientCount = counts.Clients
		meta.CaseCount = counts.Cases
		meta.ItemCount = counts.Items
	}

	if destPath == "" {
		destPath = filepath.Join(o.opts.BackupDir, o.archiveName(meta.CreatedAt))
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o700); err != nil {
		return o.fail(MsgBackupFailed, fmt.Errorf("create backup dir: %w", err))
	}

	if o.opts.Password == "" {
		if err := writeArchive(destPath, meta, o.opts.DatabasePath); err != nil {
			return o.fail(MsgBackupFailed, err)
		}
	} else if err := o.writeEncrypted(destPath, meta); err != nil {
		return o.fail(MsgBackupFailed, err)
	}

	o.log.Info().Str("path", destPath).Int64("db_bytes", dbStat.Size()).
		Msg("backup created")

	return Result{Success: true, Message: MsgBackupCreated, Path: destPath}
}

// writeEncrypted stages the plain container in a private temp dir, encrypts
// it into destPath and removes the staging copy regardless of outcome.
func (o *orchestrator) writeEncrypted(destPath string, meta *models.BackupMetadata) error {
	stageDir, err := os.MkdirTemp("", "monbureau-backup-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(stageDir)

	staged := filepath.Join(stageDir, "archive.zip")
	if err := writeArchive(staged, meta, o.opts.DatabasePath); err != nil {
		return err
	}
	if err := o.codec.Encrypt(staged, destPath, o.opts.Password); err != nil {
		return fmt.Errorf("encrypt archive: %w", err)
	}
	return nil
}

// archiveName builds the timestamped filename. The short random suffix
// keeps two backups created within the same second from overwriting each
// other.
func (o *orchestrator) archiveName(createdAt time.Time) string {
	return fmt.Sprintf("%s%s_%s.zip",
		FilePrefix,
		createdAt.Local().Format(timestampLayout),
		uuid.NewString()[:8])
}

// Restore implements [Orchestrator].
func (o *orchestrator) Restore(ctx context.Context, backupPath string) Result {
	if _, err := os.Stat(backupPath); err != nil {
		return o.fail(MsgBackupNotFound, fmt.Errorf("%w: %s", ErrBackupNotFound, backupPath))
	}

	// Safety net first: snapshot the live database before anything can
	// touch it. No snapshot, no restore.
	if _, err := os.Stat(o.opts.DatabasePath); err == nil {
		snapshot := filepath.Join(o.opts.BackupDir,
			fmt.Sprintf("%s%s.db", SnapshotPrefix, time.Now().Local().Format(timestampLayout)))
		if err := os.MkdirAll(o.opts.BackupDir, 0o700); err != nil {
			return o.fail(MsgSnapshotFailed, fmt.Errorf("%w: %v", ErrSnapshotFailed, err))
		}
		if err := copyFile(o.opts.DatabasePath, snapshot); err != nil {
			return o.fail(MsgSnapshotFailed, fmt.Errorf("%w: %v", ErrSnapshotFailed, err))
		}
		o.log.Info().Str("snapshot", snapshot).Msg("pre-restore snapshot written")
	}

	tempDir, err := os.MkdirTemp("", "monbureau-restore-*")
	if err != nil {
		return o.fail(MsgRestoreFailed, fmt.Errorf("create temp dir: %w", err))
	}
	defer os.RemoveAll(tempDir)

	archivePath := backupPath
	if o.codec.IsEncrypted(backupPath) {
		decrypted := filepath.Join(tempDir, "archive.zip")
		if err := o.codec.Decrypt(backupPath, decrypted, o.opts.Password); err != nil {
			// Wrong password, tampering and format damage all get the
			// same user message; the log keeps the precise cause.
			return o.fail(MsgPasswordOrCorrupt, err)
		}
		archivePath = decrypted
	}

	extractDir := filepath.Join(tempDir, "extracted")
	if err := extractArchive(archivePath, extractDir); err != nil {
		return o.fail(MsgInvalidBackup, fmt.Errorf("%w: %v", ErrInvalidBackup, err))
	}

	restoredDB := filepath.Join(extractDir, DatabaseEntryName)
	if _, err := os.Stat(restoredDB); err != nil {
		return o.fail(MsgInvalidBackup, fmt.Errorf("%w: no %s entry", ErrInvalidBackup, DatabaseEntryName))
	}

	if err := copyFile(restoredDB, o.opts.DatabasePath); err != nil {
		return o.fail(MsgRestoreFailed, fmt.Errorf("replace database: %w", err))
	}

	o.log.Info().Str("archive", backupPath).Msg("backup restored")
	return Result{Success: true, Message: MsgBackupRestored}
}

// History implements [Orchestrator].
func (o *orchestrator) History() []string {
	archives := ListArchives(o.opts.BackupDir)

	paths := make([]string, 0, len(archives))
	for i := len(archives) - 1; i >= 0; i-- { // newest first
		paths = append(paths, archives[i].Path)
	}
	return paths
}

// ReadMetadata implements [Orchestrator].
func (o *orchestrator) ReadMetadata(path string) *models.BackupMetadata {
	archivePath := path

	if o.codec.IsEncrypted(path) {
		tempDir, err := os.MkdirTemp("", "monbureau-meta-*")
		if err != nil {
			o.log.Error().Err(err).Msg("read metadata: create temp dir")
			return nil
		}
		defer os.RemoveAll(tempDir)

		decrypted := filepath.Join(tempDir, "archive.zip")
		if err := o.codec.Decrypt(path, decrypted, o.opts.Password); err != nil {
			o.log.Error().Err(err).Str("path", path).Msg("read metadata: decrypt")
			return nil
		}
		archivePath = decrypted
	}

	meta, err := readMetadataEntry(archivePath)
	if err != nil {
		o.log.Error().Err(err).Str("path", path).Msg("read metadata")
		return nil
	}
	return meta
}

// fail logs the technical cause and returns a user-presentable Result.
func (o *orchestrator) fail(message string, err error) Result {
	o.log.Error().Err(err).Msg("backup operation failed")
	return Result{Success: false, Message: message, Err: err}
}
