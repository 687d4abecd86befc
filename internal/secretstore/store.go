// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonBureau

// Package secretstore seals small application secrets into OS-backed at-rest
// storage. Values up to the size the OS credential vault handles go into the
// vault; anything larger is encrypted into a machine+user-bound file. An
// environment variable can serve as a last-resort source for reads.
package secretstore

import (
	"errors"
	"os"
	"os/user"
	"path/filepath"

	"github.com/monbureau/coffre/internal/keyderiv"
	"github.com/monbureau/coffre/internal/logger"
)

const (
	// Namespace prefixes every vault entry so MonBureau secrets cannot
	// collide with other applications' credentials on the same machine.
	Namespace = "MonBureau_"

	// largeSecretThreshold routes values longer than this to the sealed
	// file backend. The OS generic-credential vaults cap payload size
	// around 2.5 KB; 2000 leaves headroom for the record envelope.
	largeSecretThreshold = 2000
)

// secretStore is the private implementation of [SecretStore].
type secretStore struct {
	vault  vaultBackend
	sealed sealedBackend
	log    *logger.Logger
}

// Options configures [New]. The zero value selects production defaults.
type Options struct {
	// Dir overrides the directory for sealed secret files. Default:
	// {user config dir}/MonBureau/secrets.
	Dir string
}

// New constructs a [SecretStore] bound to the current machine and user.
// It never fails at construction: identity lookups that error fall back to
// empty strings, which weakens the sealing binding but keeps startup alive
// (the condition is logged).
func New(opts Options, keys keyderiv.KeyService, log *logger.Logger) SecretStore {
	machine, err := os.Hostname()
	if err != nil {
		log.Error().Err(err).Msg("cannot resolve machine name for secret sealing")
	}

	var username string
	if u, err := user.Current(); err != nil {
		log.Error().Err(err).Msg("cannot resolve user name for secret sealing")
	} else {
		username = u.Username
	}

	dir := opts.Dir
	if dir == "" {
		if cfgDir, err := os.UserConfigDir(); err == nil {
			dir = filepath.Join(cfgDir, "MonBureau", "secrets")
		} else {
			log.Error().Err(err).Msg("cannot resolve config dir, sealing secrets next to working dir")
			dir = filepath.Join(".", "secrets")
		}
	}

	return &secretStore{
		vault:  newKeyringVault(Namespace),
		sealed: newFileSealer(dir, machine, username, keys),
		log:    log,
	}
}

// Store implements [SecretStore]. Routing is by payload size; the entry is
// removed from the other backend so a later Retrieve cannot resurrect a
// stale value after the secret shrank or grew across the threshold.
func (s *secretStore) Store(key, username, value string) bool {
	if len(value) > largeSecretThreshold {
		if err := s.sealed.seal(key, username, value); err != nil {
			s.log.Error().Err(err).Str("key", key).Msg("store secret: seal failed")
			return false
		}
		if err := s.vault.delete(key); err != nil && !errors.Is(err, errSecretNotFound) {
			s.log.Warn().Err(err).Str("key", key).Msg("store secret: stale vault entry not removed")
		}
		return true
	}

	if err := s.vault.set(key, username, value); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("store secret: vault set failed")
		return false
	}
	if err := s.sealed.delete(key); err != nil && !errors.Is(err, errSecretNotFound) {
		s.log.Warn().Err(err).Str("key", key).Msg("store secret: stale sealed file not removed")
	}
	return true
}

// Retrieve implements [SecretStore]. The sealed backend is checked first so
// callers need not know where a secret was routed at store time.
func (s *secretStore) Retrieve(key string) (string, string, bool) {
	username, value, err := s.sealed.unseal(key)
	if err == nil {
		return username, value, true
	}
	if !errors.Is(err, errSecretNotFound) {
		s.log.Error().Err(err).Str("key", key).Msg("retrieve secret: unseal failed")
		return "", "", false
	}

	username, value, err = s.vault.get(key)
	if err == nil {
		return username, value, true
	}
	if !errors.Is(err, errSecretNotFound) {
		s.log.Error().Err(err).Str("key", key).Msg("retrieve secret: vault get failed")
	}
	return "", "", false
}

// Exists implements [SecretStore].
func (s *secretStore) Exists(key string) bool {
	if s.sealed.exists(key) {
		return true
	}
	if _, _, err := s.vault.get(key); err == nil {
		return true
	} else if !errors.Is(err, errSecretNotFound) {
		s.log.Error().Err(err).Str("key", key).Msg("exists check: vault get failed")
	}
	return false
}

// Delete implements [SecretStore]. Both backends are cleared; a missing
// entry is not a failure.
func (s *secretStore) Delete(key string) bool {
	ok := true

	if err := s.sealed.delete(key); err != nil && !errors.Is(err, errSecretNotFound) {
		s.log.Error().Err(err).Str("key", key).Msg("delete secret: sealed delete failed")
		ok = false
	}
	if err := s.vault.delete(key); err != nil && !errors.Is(err, errSecretNotFound) {
		s.log.Error().Err(err).Str("key", key).Msg("delete secret: vault delete failed")
		ok = false
	}
	return ok
}

// GetWithFallback implements [SecretStore]. On Windows the original design
// consulted machine-scoped then user-scoped environment variables; the
// process environment the OS hands us already reflects that precedence, so a
// single lookup covers both scopes.
func (s *secretStore) GetWithFallback(key, envVar string) (string, bool) {
	if _, value, ok := s.Retrieve(key); ok {
		return value, true
	}

	if envVar == "" {
		return "", false
	}

	if value, ok := os.LookupEnv(envVar); ok && value != "" {
		s.log.Warn().Str("key", key).Str("env", envVar).
			Msg("secret not in store, falling back to environment variable")
		return value, true
	}

	s.log.Debug().Str("key", key).Str("env", envVar).
		Msg("secret not found in store or environment")
	return "", false
}
