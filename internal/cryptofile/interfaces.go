package cryptofile

//go:generate mockgen -source=interfaces.go -destination=../mock/codec_mock.go -package=mock

// Codec encrypts and decrypts whole files, framing the ciphertext with the
// MonBureau archive header (marker, version, salt, IV). It knows nothing
// about what the payload is; the backup layer decides what goes in.
//
// Password strength policy lives one layer up — Encrypt accepts any
// non-empty password and never rejects one as "too weak".
type Codec interface {
	// Encrypt reads inputPath, encrypts its contents under password and
	// writes the framed result to outputPath. Salt and IV are generated
	// fresh from the CSPRNG on every call.
	Encrypt(inputPath, outputPath, password string) error

	// Decrypt reads a framed file from inputPath and writes the recovered
	// plaintext to outputPath. It fails with [ErrNotEncrypted] if the
	// marker bytes do not match, [ErrUnsupportedVersion] for an unknown
	// version byte, and [ErrWrongPasswordOrCorrupt] when the cryptographic
	// step itself fails — the last two causes are indistinguishable by
	// design, so the user-facing message must not try to tell them apart.
	Decrypt(inputPath, outputPath, password string) error

	// IsEncrypted reports whether the file at path starts with the archive
	// marker. It reads only the first 9 bytes and returns false — never an
	// error — on a missing or too-short file.
	IsEncrypted(path string) bool
}
