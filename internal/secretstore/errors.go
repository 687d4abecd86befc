package secretstore

import "errors"

// Internal backend errors. These never cross the [SecretStore] boundary —
// they are logged and converted to boolean results — but backends use them
// to tell "not found" apart from real failures.
var (
	// errSecretNotFound is returned by a backend when no record exists
	// under the requested name.
	errSecretNotFound = errors.New("secret not found")

	// errUnsealFailed is returned when a sealed secret file exists but
	// cannot be decrypted — typically because it was copied from another
	// machine or user account.
	errUnsealFailed = errors.New("cannot unseal secret on this machine/user")
)
