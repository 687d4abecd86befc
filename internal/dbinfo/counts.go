// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonBureau

// Package dbinfo reads summary information from the live MonBureau database
// for backup metadata. It opens the SQLite file read-only and never holds a
// connection across calls, so it cannot keep the database locked while a
// backup wants to copy it.
package dbinfo

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/monbureau/coffre/internal/logger"
	"github.com/monbureau/coffre/models"
)

// Domain tables counted into backup metadata.
const (
	tableClients = "clients"
	tableCases   = "cases"
	tableItems   = "items"
)

// sqliteCountProvider is the private implementation of [CountProvider].
type sqliteCountProvider struct {
	databasePath string
	log          *logger.Logger
}

// NewSQLiteCountProvider constructs a [CountProvider] over the SQLite
// database file at databasePath.
func NewSQLiteCountProvider(databasePath string, log *logger.Logger) CountProvider {
	return &sqliteCountProvider{databasePath: databasePath, log: log}
}

// Counts implements [CountProvider].
func (p *sqliteCountProvider) Counts(ctx context.Context) models.RecordCounts {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=ro", p.databasePath))
	if err != nil {
		p.log.Error().Err(err).Str("path", p.databasePath).Msg("open database for counts")
		return models.RecordCounts{}
	}
	defer db.Close()

	return models.RecordCounts{
		Clients: p.countTable(ctx, db, tableClients),
		Cases:   p.countTable(ctx, db, tableCases),
		Items:   p.countTable(ctx, db, tableItems),
	}
}

// countTable runs SELECT COUNT(*) against one table, returning nil on any
// failure so one missing table does not void the other counts.
func (p *sqliteCountProvider) countTable(ctx context.Context, db *sql.DB, table string) *int {
	var n int
	err := sq.Select("COUNT(*)").
		From(table).
		RunWith(db).
		QueryRowContext(ctx).
		Scan(&n)
	if err != nil {
		p.log.Warn().Err(err).Str("table", table).Msg("record count unavailable")
		return nil
	}
	return &n
}
