// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonBureau

package keyderiv

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the required salt length in bytes.
	SaltSize = 32

	// KeySize is the derived key length in bytes (AES-256).
	KeySize = 32

	// Iterations is the fixed PBKDF2 iteration count. Hard-coded so it can
	// never be lowered by a caller or by data read from an archive header.
	Iterations = 100_000
)

// keyService is the private implementation of [KeyService].
type keyService struct{}

// NewKeyService constructs a [KeyService] using PBKDF2-HMAC-SHA256 with
// [Iterations] iterations and [KeySize]-byte output.
func NewKeyService() KeyService {
	return &keyService{}
}

// GenerateSalt implements [KeyService]. It reads [SaltSize] random bytes
// from the OS CSPRNG. Returns an error if the random read fails.
func (k *keyService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}

// Derive implements [KeyService]. Same (password, salt) always yields the
// same key; the decrypt side depends on that to reproduce the encrypt-time
// key from the salt stored in the file header.
func (k *keyService) Derive(password string, salt []byte) ([]byte, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidSaltSize, len(salt), SaltSize)
	}

	return pbkdf2.Key([]byte(password), salt, Iterations, KeySize, sha256.New), nil
}

// Wipe overwrites key material in place. Call it as soon as the cipher
// holding the key has been initialized; derived keys must never outlive the
// operation they were derived for.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
