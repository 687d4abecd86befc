package keyderiv

import "errors"

// Input validation errors. Callers should match with [errors.Is].
var (
	// ErrEmptyPassword is returned when Derive is called with an empty
	// password.
	ErrEmptyPassword = errors.New("password must not be empty")

	// ErrInvalidSaltSize is returned when Derive is called with a salt
	// whose length is not exactly SaltSize bytes.
	ErrInvalidSaltSize = errors.New("salt has invalid size")
)
