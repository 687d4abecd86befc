// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonBureau

package secretstore

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// keyringAccount is the fixed account label under which every entry is
// stored in the OS vault. The secret's own name goes into the service field
// (prefixed), so lookups need only the name.
const keyringAccount = "monbureau"

// vaultRecord is the JSON payload stored in the OS vault. The credential
// APIs hold a single opaque string, so username and value travel together.
type vaultRecord struct {
	Username string `json:"username"`
	Value    string `json:"value"`
}

// keyringVault stores small secrets in the operating system's generic
// credential vault (Windows Credential Manager, macOS Keychain, Secret
// Service on Linux) via the go-keyring library. Entries are namespaced with
// an application prefix so they cannot collide with other software's
// credentials on the same machine.
type keyringVault struct {
	prefix string
}

func newKeyringVault(prefix string) *keyringVault {
	return &keyringVault{prefix: prefix}
}

func (v *keyringVault) service(name string) string {
	return v.prefix + name
}

func (v *keyringVault) set(name, username, value string) error {
	payload, err := json.Marshal(vaultRecord{Username: username, Value: value})
	if err != nil {
		return fmt.Errorf("marshal vault record: %w", err)
	}

	if err := keyring.Set(v.service(name), keyringAccount, string(payload)); err != nil {
		return fmt.Errorf("vault set: %w", err)
	}
	return nil
}

func (v *keyringVault) get(name string) (string, string, error) {
	payload, err := keyring.Get(v.service(name), keyringAccount)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", "", errSecretNotFound
		}
		return "", "", fmt.Errorf("vault get: %w", err)
	}

	var rec vaultRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return "", "", fmt.Errorf("unmarshal vault record: %w", err)
	}
	return rec.Username, rec.Value, nil
}

func (v *keyringVault) delete(name string) error {
	if err := keyring.Delete(v.service(name), keyringAccount); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errSecretNotFound
		}
		return fmt.Errorf("vault delete: %w", err)
	}
	return nil
}
