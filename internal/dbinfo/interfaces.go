package dbinfo

import (
	"context"

	"github.com/monbureau/coffre/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/count_provider_mock.go -package=mock

// CountProvider reports domain record counts for backup metadata. The
// provider is read-only: nothing here ever writes to the database.
type CountProvider interface {
	// Counts returns the current record counts. A count that cannot be
	// collected (missing table, query failure) is returned as nil rather
	// than failing the whole call — backup metadata degrades, the backup
	// itself does not.
	Counts(ctx context.Context) models.RecordCounts
}
