package config

// validate checks that the final merged [StructuredConfig] satisfies
// all client invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.Remote.BaseURL == "" || cfg.Remote.RequestTimeout <= 0 || cfg.Remote.IdentifyTimeout <= 0 {
		return ErrInvalidRemoteConfigs
	}

	if cfg.Scanner.ScanInterval <= 0 || cfg.Scanner.DedupCooldown <= 0 || cfg.Scanner.DedupCapacity <= 0 {
		return ErrInvalidScannerConfigs
	}

	if cfg.Cache.TTL <= 0 {
		return ErrInvalidCacheConfigs
	}

	return nil
}
