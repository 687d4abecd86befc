// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonBureau

package models

import "time"

// BackupMetadata describes a single backup archive. It is serialized as the
// metadata.json entry inside the archive container and is the only record of
// what the archive contains without extracting it.
type BackupMetadata struct {
	// CreatedAt is the UTC creation timestamp of the backup.
	CreatedAt time.Time `json:"created_at"`

	// Version is the application version string that produced the backup
	// (e.g. "1.4.2"). Used to detect format drift on restore.
	Version string `json:"version"`

	// DatabasePath is the path of the live database file at backup time.
	DatabasePath string `json:"database_path"`

	// FileSizeBytes is the uncompressed size of the database file.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// Optional domain record counts, filled in when a count provider is
	// available. Nil means the count was not collected, not zero.
	ClientCount *int `json:"client_count,omitempty"`
	CaseCount   *int `json:"case_count,omitempty"`
	ItemCount   *int `json:"item_count,omitempty"`
}
