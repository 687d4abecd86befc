package backup

// User-facing messages. These are what the UI shows; the underlying
// technical error always goes to the log, never the dialog. Kept as
// constants so the (excluded) localization layer has a single place to map
// from.
const (
	MsgBackupCreated  = "Backup created successfully"
	MsgBackupRestored = "Backup restored successfully"

	MsgBackupNotFound = "The selected backup file could not be found"
	MsgInvalidBackup  = "The file is not a valid MonBureau backup"
	MsgBackupFailed   = "The backup could not be created"
	MsgRestoreFailed  = "The backup could not be restored"
	MsgSnapshotFailed = "A safety copy of the current database could not be created; restore was cancelled"

	// One message for wrong password and corrupted file: an outside
	// observer must not be able to tell the two apart.
	MsgPasswordOrCorrupt = "Invalid password or corrupted backup file"
)
