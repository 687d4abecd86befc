package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, a missing database path).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidBackupConfigs indicates invalid backup settings.
	ErrInvalidBackupConfigs = errors.New("invalid backup configuration")
)
