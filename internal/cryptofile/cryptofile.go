// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonBureau

// Package cryptofile implements the MonBureau encrypted archive format: a
// fixed header (marker, version, salt, IV) followed by an AES-encrypted
// payload. New archives are written as AES-256-GCM so that any tampering is
// caught by the authentication tag; the historical AES-256-CBC/PKCS7 format
// is still accepted for decryption so existing backups keep restoring.
package cryptofile

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
	"os"

	"github.com/monbureau/coffre/internal/keyderiv"
	"github.com/monbureau/coffre/internal/logger"
)

// codec is the private implementation of [Codec].
type codec struct {
	keys keyderiv.KeyService
	log  *logger.Logger
}

// NewCodec constructs a [Codec] that derives archive keys via keys.
func NewCodec(keys keyderiv.KeyService, log *logger.Logger) Codec {
	return &codec{keys: keys, log: log}
}

// Encrypt implements [Codec]. The whole payload is read into memory: backup
// archives are database-sized, and GCM needs the full buffer to seal in one
// pass anyway.
func (c *codec) Encrypt(inputPath, outputPath, password string) error {
	plaintext, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	salt, err := c.keys.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	nonce := make([]byte, gcmNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}

	key, err := c.keys.Derive(password, salt)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
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

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	out, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	h := &header{version: VersionGCM, salt: salt, iv: nonce}
	if err := h.writeTo(out); err != nil {
		return err
	}
	if _, err := out.Write(ciphertext); err != nil {
		return fmt.Errorf("write ciphertext: %w", err)
	}

	c.log.Debug().Str("path", outputPath).Int("bytes", len(plaintext)).
		Msg("encrypted archive written")

	return nil
}

// Decrypt implements [Codec]. The header is validated byte-for-byte before
// any key derivation or decryption is attempted.
func (c *codec) Decrypt(inputPath, outputPath, password string) error {
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	r := bytes.NewReader(raw)
	h, err := readHeader(r)
	if err != nil {
		return err
	}
	ciphertext := raw[len(raw)-r.Len():]

	key, err := c.keys.Derive(password, h.salt)
	if err != nil {
		return fmt.Errorf("derive key: %w", err)
	}

	var plaintext []byte
	switch h.version {
	case VersionGCM:
		plaintext, err = decryptGCM(key, h.iv, ciphertext)
	case VersionCBC:
		plaintext, err = decryptCBC(key, h.iv, ciphertext)
	}
	keyderiv.Wipe(key)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, plaintext, 0o600); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	c.log.Debug().Str("path", inputPath).Uint8("version", h.version).
		Msg("archive decrypted")

	return nil
}

// IsEncrypted implements [Codec].
func (c *codec) IsEncrypted(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	got := make([]byte, MarkerLen)
	if _, err := io.ReadFull(f, got); err != nil {
		return false
	}
	return string(got) == string(marker)
}

// decryptGCM opens a version-3 payload. Any authentication failure — wrong
// key or flipped ciphertext bit — surfaces as ErrWrongPasswordOrCorrupt.
func decryptGCM(key, nonce, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrongPasswordOrCorrupt, err)
	}
	return plaintext, nil
}

// decryptCBC opens a legacy version-2 payload. CBC carries no authentication
// tag, so the only integrity signal is PKCS7 padding validation; corruption
// and password mismatch are inherently conflated here.
func decryptCBC(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext not block-aligned", ErrWrongPasswordOrCorrupt)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := stripPKCS7(plaintext)
	if err != nil {
		return nil, err
	}
	return unpadded, nil
}

// stripPKCS7 validates and removes PKCS7 padding.
func stripPKCS7(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty plaintext", ErrWrongPasswordOrCorrupt)
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, fmt.Errorf("%w: invalid padding", ErrWrongPasswordOrCorrupt)
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, fmt.Errorf("%w: invalid padding", ErrWrongPasswordOrCorrupt)
		}
	}
	return b[:len(b)-n], nil
}
