package cryptofile

import "errors"

// Decrypt failure taxonomy. The three conditions are distinguishable to
// callers via [errors.Is] so they can be logged precisely, but they must be
// collapsed into one generic message before reaching the user: an attacker
// must not learn whether a password was wrong or a file was tampered with.
var (
	// ErrNotEncrypted is returned when the first 9 bytes of the file are
	// not the archive marker. The file may be a legacy plain archive.
	ErrNotEncrypted = errors.New("file is not an encrypted archive")

	// ErrUnsupportedVersion is returned when the marker matches but the
	// version byte is not one the codec supports.
	ErrUnsupportedVersion = errors.New("unsupported encrypted archive version")

	// ErrWrongPasswordOrCorrupt is returned when authentication or padding
	// validation fails during decryption. Wrong password and corrupted
	// ciphertext are conflated on purpose.
	ErrWrongPasswordOrCorrupt = errors.New("wrong password or corrupted archive")
)
