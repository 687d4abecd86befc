package secretstore

//go:generate mockgen -source=interfaces.go -destination=../mock/secret_store_mock.go -package=mock

// SecretStore is at-rest storage for named application secrets: the database
// encryption key, third-party service credentials, and anything else small
// and opaque. Callers never choose a backend — the store routes by payload
// size and finds the record again wherever it was put.
//
// The store is consulted during process startup, before any error UI
// exists, so no method ever panics or returns an error: failures become
// false/empty results and a log entry.
type SecretStore interface {
	// Store saves value under key. Overwriting is idempotent: last write
	// wins, including when the new value routes to a different backend
	// than the old one.
	Store(key, username, value string) bool

	// Retrieve returns the username and value stored under key. ok is
	// false when no secret exists or a backend failed.
	Retrieve(key string) (username, value string, ok bool)

	// Exists reports whether any backend holds a secret under key.
	Exists(key string) bool

	// Delete removes the secret from every backend that holds it. Returns
	// false only when a backend failed; deleting a missing key is true.
	Delete(key string) bool

	// GetWithFallback returns the stored value for key, falling back to
	// the environment variable envVar when no stored secret exists. The
	// fallback path is logged. ok is false when neither source has a
	// value.
	GetWithFallback(key, envVar string) (value string, ok bool)
}

// vaultBackend is the small-secret backend: the OS generic-credential vault.
type vaultBackend interface {
	set(name, username, value string) error
	// get returns errSecretNotFound when the vault has no entry for name.
	get(name string) (username, value string, err error)
	delete(name string) error
}

// sealedBackend is the large-secret backend: values too big for the OS
// vault, sealed into machine+user-bound encrypted files.
type sealedBackend interface {
	seal(name, username, value string) error
	unseal(name string) (username, value string, err error)
	exists(name string) bool
	delete(name string) error
}
