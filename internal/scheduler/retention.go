// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonBureau

package scheduler

import (
	"os"

	"github.com/monbureau/coffre/internal/backup"
)

// pruneLocked deletes the oldest archives in dir until at most maxRetained
// remain. Non-positive maxRetained means unlimited retention. A file that
// cannot be deleted is logged and skipped; pruning must never take a backup
// run down with it. Caller holds p.mu.
func (p *policy) pruneLocked(dir string, maxRetained int) {
	if maxRetained <= 0 {
		return
	}

	archives := backup.ListArchives(dir) // oldest first
	excess := len(archives) - maxRetained
	for i := 0; i < excess; i++ {
		path := archives[i].Path
		if err := os.Remove(path); err != nil {
			p.log.Warn().Err(err).Str("path", path).Msg("prune: delete failed, skipping")
			continue
		}
		p.log.Info().Str("path", path).Msg("pruned old backup")
	}
}
