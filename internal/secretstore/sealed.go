// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonBureau

package secretstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/monbureau/coffre/internal/keyderiv"
)

// fileSealer is the large-secret backend. Each secret becomes one encrypted
// file under an application-private directory. The sealing key is derived
// from the secret's name, the machine name and the user name, so a file
// copied to another machine or opened under another account does not unseal
// — the same binding contract DPAPI gave the original Windows build.
//
// File layout: 32-byte salt, 12-byte nonce, AES-256-GCM ciphertext of the
// JSON record. A fresh salt per seal means even re-sealing the same value
// produces a different file.
//
// There is no file locking; like the rest of the application this backend
// assumes a single running instance.
type fileSealer struct {
	dir     string
	machine string
	user    string
	keys    keyderiv.KeyService
}

func newFileSealer(dir, machine, user string, keys keyderiv.KeyService) *fileSealer {
	return &fileSealer{dir: dir, machine: machine, user: user, keys: keys}
}

// sealedRecord is the plaintext JSON sealed into the file.
type sealedRecord struct {
	Username string `json:"username"`
	Value    string `json:"value"`
}

// bindingContext combines the inputs the sealing key is bound to. Changing
// any one of them (name, machine, user) yields a different key.
func (s *fileSealer) bindingContext(name string) string {
	return name + "|" + s.machine + "|" + s.user
}

// pathFor maps a secret name to its file, substituting characters that are
// unsafe in filenames.
func (s *fileSealer) pathFor(name string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		default:
			return r
		}
	}, name)
	return filepath.Join(s.dir, safe+".secret")
}

func (s *fileSealer) seal(name, username, value string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create secret dir: %w", err)
	}

	plaintext, err := json.Marshal(sealedRecord{Username: username, Value: value})
	if err != nil {
		return fmt.Errorf("marshal sealed record: %w", err)
	}

	salt, err := s.keys.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	nonce := make([]byte, 12)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	key, err := s.keys.Derive(s.bindingContext(name), salt)
	if err != nil {
		return fmt.Errorf("derive sealing key: %w", err)
	}
	block, err := aes.NewCipher(key)
	keyderiv.Wipe(key)
	if err != nil {
		return fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("create gcm: %w", err)
	}

	blob := make([]byte, 0, len(salt)+len(nonce)+len(plaintext)+gcm.Overhead())
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = gcm.Seal(blob, nonce, plaintext, nil)

	if err := os.WriteFile(s.pathFor(name), blob, 0o600); err != nil {
		return fmt.Errorf("write sealed file: %w", err)
	}
	return nil
}

func (s *fileSealer) unseal(name string) (string, string, error) {
	blob, err := os.ReadFile(s.pathFor(name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", errSecretNotFound
		}
		return "", "", fmt.Errorf("read sealed file: %w", err)
	}

	if len(blob) < keyderiv.SaltSize+12 {
		return "", "", fmt.Errorf("%w: file too short", errUnsealFailed)
	}
	salt := blob[:keyderiv.SaltSize]
	nonce := blob[keyderiv.SaltSize : keyderiv.SaltSize+12]
	ciphertext := blob[keyderiv.SaltSize+12:]

	key, err := s.keys.Derive(s.bindingContext(name), salt)
	if err != nil {
		return "", "", fmt.Errorf("derive sealing key: %w", err)
	}
	block, err := aes.NewCipher(key)
	keyderiv.Wipe(key)
	if err != nil {
		return "", "", fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", "", fmt.Errorf("create gcm: %w", err)
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", errUnsealFailed, err)
	}

	var rec sealedRecord
	if err := json.Unmarshal(plaintext, &rec); err != nil {
		return "", "", fmt.Errorf("unmarshal sealed record: %w", err)
	}
	return rec.Username, rec.Value, nil
}

func (s *fileSealer) exists(name string) bool {
	_, err := os.Stat(s.pathFor(name))
	return err == nil
}

func (s *fileSealer) delete(name string) error {
	if err := os.Remove(s.pathFor(name)); err != nil {
		if os.IsNotExist(err) {
			return errSecretNotFound
		}
		return fmt.Errorf("remove sealed file: %w", err)
	}
	return nil
}
