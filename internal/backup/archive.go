// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonBureau

package backup

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/monbureau/coffre/models"
)

// Container layout. Entry names are part of the on-disk format and must not
// change: Restore recognizes a backup by finding DatabaseEntryName inside.
const (
	// FilePrefix starts every backup archive filename.
	FilePrefix = "MonBureau_Backup_"

	// SnapshotPrefix starts every pre-restore database snapshot filename.
	SnapshotPrefix = "MonBureau_PreRestore_"

	// DatabaseEntryName is the conventional name of the database payload
	// inside the archive.
	DatabaseEntryName = "monbureau.db"

	metadataEntryName = "metadata.json"

	// timestampLayout formats archive and snapshot timestamps.
	timestampLayout = "2006-01-02_150405"
)

// DefaultBackupDir returns {user documents}/MonBureau/Backups. The user home
// lookup can only fail in degenerate environments; the working directory is
// the fallback so backups still land somewhere recoverable.
func DefaultBackupDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "MonBureau", "Backups")
	}
	return filepath.Join(home, "Documents", "MonBureau", "Backups")
}

// ArchiveFile is one backup archive on disk, as listed by [ListArchives].
type ArchiveFile struct {
	Path    string
	ModTime time.Time
}

// ListArchives returns the backup archives in dir sorted oldest first.
// It never returns an error: a missing or unreadable directory is an empty
// list.
func ListArchives(dir string) []ArchiveFile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var archives []ArchiveFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, FilePrefix) || !strings.HasSuffix(name, ".zip") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		archives = append(archives, ArchiveFile{
			Path:    filepath.Join(dir, name),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(archives, func(i, j int) bool {
		return archives[i].ModTime.Before(archives[j].ModTime)
	})
	return archives
}

// writeArchive builds the zip container at destPath: the serialized
// metadata entry first, then the database payload streamed in.
func writeArchive(destPath string, meta *models.BackupMetadata, databasePath string) error {
	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	metaEntry, err := zw.Create(metadataEntryName)
	if err != nil {
		return fmt.Errorf("create metadata entry: %w", err)
	}
	metaJSON, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if _, err := metaEntry.Write(metaJSON); err != nil {
		return fmt.Errorf("write metadata entry: %w", err)
	}

	dbEntry, err := zw.Create(DatabaseEntryName)
	if err != nil {
		return fmt.Errorf("create database entry: %w", err)
	}
	db, err := os.Open(databasePath)
	if err != nil {
		return fmt.Errorf("open database file: %w", err)
	}
	defer db.Close()
	if _, err := io.Copy(dbEntry, db); err != nil {
		return fmt.Errorf("write database entry: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

// extractArchive unpacks the zip at srcPath into destDir. Entry paths are
// confined to destDir; an entry trying to escape is an error, not a write.
func extractArchive(srcPath, destDir string) error {
	zr, err := zip.OpenReader(srcPath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		target := filepath.Join(destDir, filepath.Clean(entry.Name))
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("archive entry escapes extraction dir: %s", entry.Name)
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o700); err != nil {
				return fmt.Errorf("create dir: %w", err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o700); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
		if err := extractEntry(entry, target); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(entry *zip.File, target string) error {
	in, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", entry.Name, err)
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("extract %s: %w", entry.Name, err)
	}
	return nil
}

// readMetadataEntry opens the zip read-only and decodes just the metadata
// entry, without extracting anything to disk.
func readMetadataEntry(archivePath string) (*models.BackupMetadata, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	for _, entry := range zr.File {
		if entry.Name != metadataEntryName {
			continue
		}
		in, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("open metadata entry: %w", err)
		}
		defer in.Close()

		var meta models.BackupMetadata
		if err := json.NewDecoder(in).Decode(&meta); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
		return &meta, nil
	}
	return nil, fmt.Errorf("archive has no %s entry", metadataEntryName)
}

// copyFile copies src to dst, fsyncing the destination. Used for the live
// database and its snapshots, where a torn copy would be worse than a
// failed one.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	if err := out.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", dst, err)
	}
	return nil
}
