package config

import "time"

// Defaults applied when no other source sets a field. The identify
// timeout is deliberately longer than the general request timeout: the
// identification endpoint runs a recognition model and regularly takes
// over ten seconds on busy hardware.
func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Remote: Remote{
			BaseURL:         "http://localhost:8080",
			RequestTimeout:  15 * time.Second,
			IdentifyTimeout: 20 * time.Second,
		},
		Scanner: Scanner{
			ScanInterval:  2 * time.Second,
			DedupCooldown: 15 * time.Second,
			DedupCapacity: 256,
			FramesDir:     "frames",
		},
		Cache: Cache{
			TTL: 24 * time.Hour,
		},
	}
}
