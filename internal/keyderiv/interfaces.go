package keyderiv

//go:generate mockgen -source=interfaces.go -destination=../mock/key_service_mock.go -package=mock

// KeyService turns a user password and a random salt into symmetric key
// material for the archive codec and the sealed-secret backend. It performs
// no I/O and holds no state; every derivation is a pure function of its
// inputs.
//
// Usage on encrypt:
//
//	salt, _ = GenerateSalt()        (fresh per file)
//	key, _  = Derive(password, salt)
//	... initialize cipher ...
//	Wipe(key)
//
// Usage on decrypt: read the salt back from the file header and call Derive
// with the same password — determinism guarantees the same key.
type KeyService interface {
	// GenerateSalt returns SaltSize bytes from the OS CSPRNG. A fresh salt
	// must be generated for every encryption; reuse across files is a
	// correctness violation.
	GenerateSalt() ([]byte, error)

	// Derive stretches password into a KeySize-byte AES key using
	// PBKDF2-HMAC-SHA256 with the fixed iteration count. The password must
	// be non-empty and the salt exactly SaltSize bytes long.
	//
	// The iteration count is deliberately not a parameter: letting callers
	// (or file contents) choose it would open a downgrade attack.
	Derive(password string, salt []byte) ([]byte, error)
}
