package backup

import (
	"context"

	"github.com/monbureau/coffre/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/orchestrator_mock.go -package=mock

// Result is the outcome of a backup or restore operation. Message is safe
// to show to a user; Err carries the technical cause (wrapping one of this
// package's sentinel errors where applicable) for logs and tests.
type Result struct {
	Success bool
	Message string
	// Path is the created archive on a successful Create; empty otherwise.
	Path string
	Err  error
}

// Orchestrator bundles the application's data into encrypted archive
// backups and restores them. It owns the container format (zip with a
// metadata entry and the database payload) and the restore safety protocol;
// encryption itself is delegated to the archive codec.
type Orchestrator interface {
	// Create writes a new backup archive. destPath selects an explicit
	// output file; when empty the archive goes to the backup directory
	// under a timestamped name. Never panics; failures come back as a
	// Result with Success false.
	Create(ctx context.Context, destPath string) Result

	// Restore replaces the live database with the one inside the archive
	// at backupPath. A timestamped snapshot of the current database is
	// written to the backup directory before anything is overwritten.
	Restore(ctx context.Context, backupPath string) Result

	// History lists known backup archives in the backup directory, newest
	// first. It returns an empty slice — never an error — when the
	// directory is missing or unreadable.
	History() []string

	// ReadMetadata extracts just the metadata entry from an archive.
	// Returns nil on any failure: missing entry, corrupt archive, wrong
	// password.
	ReadMetadata(path string) *models.BackupMetadata
}
