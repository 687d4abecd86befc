// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonBureau

package secretstore

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const (
	// DatabaseKeyName is the secret under which the database encryption
	// passphrase lives.
	DatabaseKeyName = "Database_EncryptionKey"

	// DatabaseKeyEnvVar is the environment variable consulted when no
	// stored database key exists — useful for provisioning and recovery.
	DatabaseKeyEnvVar = "MONBUREAU_DB_KEY"
)

// ErrDatabaseKeyUnavailable is returned when no database key exists and a
// fresh one could not be generated and persisted.
var ErrDatabaseKeyUnavailable = errors.New("database encryption key unavailable")

// EnsureDatabaseKey returns the database encryption passphrase, generating
// and sealing a fresh one on first run. The data-access layer calls this
// once at startup; every later startup retrieves the same key.
func EnsureDatabaseKey(store SecretStore) (string, error) {
	if value, ok := store.GetWithFallback(DatabaseKeyName, DatabaseKeyEnvVar); ok {
		return value, nil
	}

	raw := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("%w: generate: %v", ErrDatabaseKeyUnavailable, err)
	}
	key := base64.StdEncoding.EncodeToString(raw)

	if !store.Store(DatabaseKeyName, "monbureau", key) {
		return "", fmt.Errorf("%w: store failed", ErrDatabaseKeyUnavailable)
	}
	return key, nil
}
