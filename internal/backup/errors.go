package backup

import "errors"

// Sentinel errors carried inside [Result.Err] so callers can pattern-match
// the failure kind with [errors.Is] while showing only [Result.Message] to
// the user.
var (
	// ErrBackupNotFound is returned when the archive passed to Restore
	// does not exist.
	ErrBackupNotFound = errors.New("backup file not found")

	// ErrInvalidBackup is returned when an archive extracts successfully
	// but contains no recognizable database payload.
	ErrInvalidBackup = errors.New("archive is not a valid backup")

	// ErrSnapshotFailed is returned when the pre-restore safety snapshot
	// of the live database cannot be written. Restore aborts rather than
	// proceed without a safety net.
	ErrSnapshotFailed = errors.New("pre-restore snapshot failed")
)
