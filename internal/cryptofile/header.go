// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MonBureau

package cryptofile

import (
	"bytes"
	"fmt"
	"io"

	"github.com/monbureau/coffre/internal/keyderiv"
)

// On-disk layout, written in this exact order:
//
//	offset 0,  len 9  : ASCII marker "ENCRYPTED"
//	offset 9,  len 1  : format version
//	offset 10, len 32 : salt (random, per-file)
//	offset 42, len N  : IV (N = 16 for v2 CBC, 12 for v3 GCM nonce)
//	offset 42+N, ...  : ciphertext
//
// Version 2 is the historical AES-256-CBC/PKCS7 format and is accepted for
// decryption only. Version 3 is AES-256-GCM; the GCM authentication tag is
// part of the ciphertext stream as produced by Seal.
const (
	// MarkerLen is the length of the ASCII marker.
	MarkerLen = 9

	// VersionCBC is the legacy AES-256-CBC/PKCS7 format. Decrypt-only:
	// new archives are never written in this format.
	VersionCBC byte = 0x02

	// VersionGCM is the current AES-256-GCM format.
	VersionGCM byte = 0x03

	cbcIVSize    = 16
	gcmNonceSize = 12
)

// marker identifies a MonBureau encrypted archive. Must match byte-for-byte
// across application versions.
var marker = []byte("ENCRYPTED")

// header is the decoded preamble of an encrypted file.
type header struct {
	version byte
	salt    []byte
	iv      []byte
}

// ivSizeFor returns the IV length for a supported version.
func ivSizeFor(version byte) (int, error) {
	switch version {
	case VersionCBC:
		return cbcIVSize, nil
	case VersionGCM:
		return gcmNonceSize, nil
	default:
		return 0, fmt.Errorf("%w: 0x%02x", ErrUnsupportedVersion, version)
	}
}

// writeTo serializes the header in wire order.
func (h *header) writeTo(w io.Writer) error {
	if _, err := w.Write(marker); err != nil {
		return fmt.Errorf("write marker: %w", err)
	}
	if _, err := w.Write([]byte{h.version}); err != nil {
		return fmt.Errorf("write version: %w", err)
	}
	if _, err := w.Write(h.salt); err != nil {
		return fmt.Errorf("write salt: %w", err)
	}
	if _, err := w.Write(h.iv); err != nil {
		return fmt.Errorf("write iv: %w", err)
	}
	return nil
}

// readHeader reads and validates the preamble. The marker is checked before
// anything else; no cryptographic work happens until the header is accepted.
func readHeader(r io.Reader) (*header, error) {
	got := make([]byte, MarkerLen)
	if _, err := io.ReadFull(r, got); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotEncrypted, err)
	}
	if !bytes.Equal(got, marker) {
		return nil, ErrNotEncrypted
	}

	var verByte [1]byte
	if _, err := io.ReadFull(r, verByte[:]); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}

	ivSize, err := ivSizeFor(verByte[0])
	if err != nil {
		return nil, err
	}

	h := &header{
		version: verByte[0],
		salt:    make([]byte, keyderiv.SaltSize),
		iv:      make([]byte, ivSize),
	}
	if _, err := io.ReadFull(r, h.salt); err != nil {
		return nil, fmt.Errorf("read salt: %w", err)
	}
	if _, err := io.ReadFull(r, h.iv); err != nil {
		return nil, fmt.Errorf("read iv: %w", err)
	}

	return h, nil
}
