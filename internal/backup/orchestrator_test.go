package backup

import (
	"archive/zip"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monbureau/coffre/internal/cryptofile"
	"github.com/monbureau/coffre/internal/keyderiv"
	"github.com/monbureau/coffre/internal/logger"
	"github.com/monbureau/coffre/models"
)

// countsStub is a fixed-count provider for metadata tests.
type countsStub struct {
	clients, cases, items int
}

func (c *countsStub) Counts(context.Context) models.RecordCounts {
	return models.RecordCounts{Clients: &c.clients, Cases: &c.cases, Items: &c.items}
}

type fixture struct {
	orch      Orchestrator
	dbPath    string
	backupDir string
	dbContent []byte
}

func newFixture(t *testing.T, password string) *fixture {
	t.Helper()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "monbureau.db")
	dbContent := []byte("SQLite format 3\x00 -- pretend database content for tests")
	require.NoError(t, os.WriteFile(dbPath, dbContent, 0o600))

	backupDir := filepath.Join(dir, "Backups")
	codec := cryptofile.NewCodec(keyderiv.NewKeyService(), logger.Nop())

	orch, err := NewOrchestrator(Options{
		DatabasePath: dbPath,
		BackupDir:    backupDir,
		Version:      "2.1.0",
		Password:     password,
		Counts:       &countsStub{clients: 2, cases: 5, items: 11},
	}, codec, logger.Nop())
	require.NoError(t, err)

	return &fixture{orch: orch, dbPath: dbPath, backupDir: backupDir, dbContent: dbContent}
}

func TestCreateAndRestore_EncryptedRoundTrip(t *testing.T) {
	// Arrange
	f := newFixture(t, "backup password")
	ctx := context.Background()

	// Act: create
	created := f.orch.Create(ctx, "")

	// Assert: archive exists, is encrypted, lives in the backup dir
	require.True(t, created.Success, "create failed: %v", created.Err)
	assert.Equal(t, MsgBackupCreated, created.Message)
	require.FileExists(t, created.Path)
	assert.Equal(t, f.backupDir, filepath.Dir(created.Path))

	raw, err := os.ReadFile(created.Path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "ENCRYPTED"))

	// Act: damage the live database, then restore
	require.NoError(t, os.WriteFile(f.dbPath, []byte("corrupted live data"), 0o600))
	restored := f.orch.Restore(ctx, created.Path)

	// Assert: live database is byte-identical to the original again
	require.True(t, restored.Success, "restore failed: %v", restored.Err)
	got, err := os.ReadFile(f.dbPath)
	require.NoError(t, err)
	assert.Equal(t, f.dbContent, got)

	// And a pre-restore snapshot of the damaged state exists
	snapshots, err := filepath.Glob(filepath.Join(f.backupDir, SnapshotPrefix+"*.db"))
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	snap, err := os.ReadFile(snapshots[0])
	require.NoError(t, err)
	assert.Equal(t, []byte("corrupted live data"), snap)
}

func TestCreateAndRestore_PlainArchiveRoundTrip(t *testing.T) {
	f := newFixture(t, "") // no password: plain zip container
	ctx := context.Background()

	created := f.orch.Create(ctx, "")
	require.True(t, created.Success, "create failed: %v", created.Err)

	raw, err := os.ReadFile(created.Path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "PK"), "expected plain zip")

	require.NoError(t, os.WriteFile(f.dbPath, []byte("changed"), 0o600))
	restored := f.orch.Restore(ctx, created.Path)
	require.True(t, restored.Success, "restore failed: %v", restored.Err)

	got, err := os.ReadFile(f.dbPath)
	require.NoError(t, err)
	assert.Equal(t, f.dbContent, got)
}

// A plain legacy archive must restore even when the orchestrator is
// configured with a password: files without the marker pass through without
// a decryption attempt.
func TestRestore_LegacyPlainArchiveWithPasswordConfigured(t *testing.T) {
	plain := newFixture(t, "")
	created := plain.orch.Create(context.Background(), "")
	require.True(t, created.Success)

	f := newFixture(t, "some password")
	restored := f.orch.Restore(context.Background(), created.Path)

	require.True(t, restored.Success, "restore failed: %v", restored.Err)
	got, err := os.ReadFile(f.dbPath)
	require.NoError(t, err)
	assert.Equal(t, plain.dbContent, got)
}

func TestCreate_ExplicitDestinationAndCloseCallbackOrdering(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "monbureau.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("db"), 0o600))

	var closedBeforeRead bool
	codec := cryptofile.NewCodec(keyderiv.NewKeyService(), logger.Nop())
	orch, err := NewOrchestrator(Options{
		DatabasePath: dbPath,
		BackupDir:    filepath.Join(dir, "Backups"),
		CloseConnections: func() error {
			closedBeforeRead = true
			return nil
		},
	}, codec, logger.Nop())
	require.NoError(t, err)

	dest := filepath.Join(dir, "explicit", "my_backup.zip")
	res := orch.Create(context.Background(), dest)

	require.True(t, res.Success, "create failed: %v", res.Err)
	assert.Equal(t, dest, res.Path)
	assert.FileExists(t, dest)
	assert.True(t, closedBeforeRead, "close-connections callback must run before the backup")
}

func TestRestore_MissingArchive(t *testing.T) {
	f := newFixture(t, "pw")

	res := f.orch.Restore(context.Background(), filepath.Join(f.backupDir, "nope.zip"))

	assert.False(t, res.Success)
	assert.Equal(t, MsgBackupNotFound, res.Message)
	assert.ErrorIs(t, res.Err, ErrBackupNotFound)
}

func TestRestore_WrongPasswordLeavesLiveDatabaseUntouched(t *testing.T) {
	f := newFixture(t, "right password")
	created := f.orch.Create(context.Background(), "")
	require.True(t, created.Success)

	codec := cryptofile.NewCodec(keyderiv.NewKeyService(), logger.Nop())
	wrong, err := NewOrchestrator(Options{
		DatabasePath: f.dbPath,
		BackupDir:    f.backupDir,
		Password:     "wrong password",
	}, codec, logger.Nop())
	require.NoError(t, err)

	res := wrong.Restore(context.Background(), created.Path)

	assert.False(t, res.Success)
	assert.Equal(t, MsgPasswordOrCorrupt, res.Message)
	assert.ErrorIs(t, res.Err, cryptofile.ErrWrongPasswordOrCorrupt)

	got, err := os.ReadFile(f.dbPath)
	require.NoError(t, err)
	assert.Equal(t, f.dbContent, got, "live database must be untouched after failed restore")
}

func TestRestore_ArchiveWithoutDatabaseEntry(t *testing.T) {
	// Arrange: a syntactically valid archive with metadata but no database.
	f := newFixture(t, "")
	badArchive := filepath.Join(t.TempDir(), "bad.zip")
	writeMetadataOnlyZip(t, badArchive)

	before, err := os.ReadFile(f.dbPath)
	require.NoError(t, err)

	// Act
	res := f.orch.Restore(context.Background(), badArchive)

	// Assert: typed failure, live database untouched, temp dirs cleaned
	assert.False(t, res.Success)
	assert.Equal(t, MsgInvalidBackup, res.Message)
	assert.ErrorIs(t, res.Err, ErrInvalidBackup)

	after, err := os.ReadFile(f.dbPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	leftovers, err := filepath.Glob(filepath.Join(os.TempDir(), "monbureau-restore-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers, "temporary extraction dirs must not survive a failed restore")
}

func TestReadMetadata_EncryptedArchive(t *testing.T) {
	f := newFixture(t, "pw")
	created := f.orch.Create(context.Background(), "")
	require.True(t, created.Success)

	meta := f.orch.ReadMetadata(created.Path)

	require.NotNil(t, meta)
	assert.Equal(t, "2.1.0", meta.Version)
	assert.Equal(t, int64(len(f.dbContent)), meta.FileSizeBytes)
	require.NotNil(t, meta.ClientCount)
	assert.Equal(t, 2, *meta.ClientCount)
	require.NotNil(t, meta.CaseCount)
	assert.Equal(t, 5, *meta.CaseCount)
	require.NotNil(t, meta.ItemCount)
	assert.Equal(t, 11, *meta.ItemCount)
	assert.WithinDuration(t, time.Now().UTC(), meta.CreatedAt, time.Minute)
}

func TestReadMetadata_ReturnsNilOnGarbage(t *testing.T) {
	f := newFixture(t, "pw")

	garbage := filepath.Join(t.TempDir(), "garbage.zip")
	require.NoError(t, os.WriteFile(garbage, []byte("not an archive at all"), 0o600))

	assert.Nil(t, f.orch.ReadMetadata(garbage))
	assert.Nil(t, f.orch.ReadMetadata(filepath.Join(t.TempDir(), "missing.zip")))
}

func TestHistory_NewestFirstAndPatternFiltered(t *testing.T) {
	f := newFixture(t, "")

	require.NoError(t, os.MkdirAll(f.backupDir, 0o700))

	// Three archives with distinct mtimes, plus noise that must be ignored.
	names := []string{
		FilePrefix + "2026-01-01_090000_aaaaaaaa.zip",
		FilePrefix + "2026-02-01_090000_bbbbbbbb.zip",
		FilePrefix + "2026-03-01_090000_cccccccc.zip",
	}
	base := time.Now().Add(-time.Hour)
	for i, name := range names {
		p := filepath.Join(f.backupDir, name)
		require.NoError(t, os.WriteFile(p, []byte("zip"), 0o600))
		require.NoError(t, os.Chtimes(p, base.Add(time.Duration(i)*time.Minute), base.Add(time.Duration(i)*time.Minute)))
	}
	require.NoError(t, os.WriteFile(filepath.Join(f.backupDir, "unrelated.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(f.backupDir, SnapshotPrefix+"2026-01-01_090000.db"), []byte("x"), 0o600))

	history := f.orch.History()

	require.Len(t, history, 3)
	assert.Equal(t, filepath.Join(f.backupDir, names[2]), history[0])
	assert.Equal(t, filepath.Join(f.backupDir, names[0]), history[2])
}

func TestHistory_EmptyOnMissingDirectory(t *testing.T) {
	f := newFixture(t, "")
	// Backup dir was never created.
	assert.Empty(t, f.orch.History())
}

// writeMetadataOnlyZip writes a zip at path containing only a metadata
// entry, i.e. a well-formed container missing its database payload.
func writeMetadataOnlyZip(t *testing.T, path string) {
	t.Helper()

	out, err := os.Create(path)
	require.NoError(t, err)
	defer out.Close()

	zw := zip.NewWriter(out)
	entry, err := zw.Create("metadata.json")
	require.NoError(t, err)
	metaJSON, err := json.Marshal(&models.BackupMetadata{CreatedAt: time.Now().UTC()})
	require.NoError(t, err)
	_, err = entry.Write(metaJSON)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
}
