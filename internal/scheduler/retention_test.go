package scheduler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monbureau/coffre/internal/backup"
	"github.com/monbureau/coffre/internal/logger"
)

// seedArchives writes n fake backup archives with strictly increasing
// mtimes and returns their paths oldest first.
func seedArchives(t *testing.T, dir string, n int) []string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o700))

	base := time.Now().Add(-time.Hour)
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		name := backup.FilePrefix + time.Now().Format("2006-01-02_150405") + "_" + string(rune('a'+i)) + ".zip"
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("zip"), 0o600))
		mt := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(p, mt, mt))
		paths = append(paths, p)
	}
	return paths
}

func TestPrune_DeletesOldestBeyondLimit(t *testing.T) {
	dir := t.TempDir()
	paths := seedArchives(t, dir, 5)
	p := &policy{log: logger.Nop()}

	p.pruneLocked(dir, 3)

	assert.NoFileExists(t, paths[0])
	assert.NoFileExists(t, paths[1])
	for _, kept := range paths[2:] {
		assert.FileExists(t, kept)
	}
}

func TestPrune_UnlimitedWhenNonPositive(t *testing.T) {
	dir := t.TempDir()
	paths := seedArchives(t, dir, 4)
	p := &policy{log: logger.Nop()}

	p.pruneLocked(dir, 0)
	p.pruneLocked(dir, -1)

	for _, kept := range paths {
		assert.FileExists(t, kept)
	}
}

func TestPrune_UnderLimitIsNoOp(t *testing.T) {
	dir := t.TempDir()
	paths := seedArchives(t, dir, 2)
	p := &policy{log: logger.Nop()}

	p.pruneLocked(dir, 10)

	for _, kept := range paths {
		assert.FileExists(t, kept)
	}
}
