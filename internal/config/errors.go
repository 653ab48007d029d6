package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidRemoteConfigs indicates invalid remote transport settings
	// (for example, missing base URL or a non-positive timeout).
	ErrInvalidRemoteConfigs = errors.New("invalid remote configuration")
	// ErrInvalidScannerConfigs indicates invalid pipeline settings
	// (for example, a non-positive scan interval or dedup cooldown).
	ErrInvalidScannerConfigs = errors.New("invalid scanner configuration")
	// ErrInvalidCacheConfigs indicates invalid offline cache settings
	// (for example, a non-positive TTL).
	ErrInvalidCacheConfigs = errors.New("invalid cache configuration")
)
