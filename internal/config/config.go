package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// cardkeep client. It aggregates all sub-configurations and is populated
// by merging values from environment variables, command-line flags, an
// optional JSON file, and built-in defaults.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the auth token
	// supplied by the account provider.
	App App `envPrefix:"APP_"`

	// Remote holds network settings for the outbound identification,
	// search, sync, and pricing calls.
	Remote Remote `envPrefix:"REMOTE_"`

	// Storage holds paths for the local snapshot database and the
	// offline cache.
	Storage Storage `envPrefix:"STORAGE_"`

	// Scanner holds timing settings for the identification pipeline.
	Scanner Scanner `envPrefix:"SCANNER_"`

	// Cache holds freshness settings for the offline cache.
	Cache Cache `envPrefix:"CACHE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// AuthToken is the bearer token issued by the account service. The
	// token also carries the account tier claim. Empty means guest mode.
	// Env: APP_AUTH_TOKEN
	AuthToken string `env:"AUTH_TOKEN"`
}

// Remote holds settings for the outbound transport layer.
type Remote struct {
	// BaseURL is the base URL of the identification/search/sync/pricing
	// service (e.g. "https://api.cardkeep.io").
	// Env: REMOTE_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout is the hard deadline applied to search, sync push,
	// and pricing calls (e.g. "15s").
	// Env: REMOTE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// IdentifyTimeout is the hard deadline applied to frame
	// identification calls, which run a heavier model server-side and
	// need a longer budget (e.g. "20s").
	// Env: REMOTE_IDENTIFY_TIMEOUT
	IdentifyTimeout time.Duration `env:"IDENTIFY_TIMEOUT"`
}

// Storage holds paths for local persistence.
type Storage struct {
	// SnapshotPath is the SQLite file the collection snapshot is loaded
	// from at startup and flushed to on mutation. Empty disables
	// persistence (in-memory collection only).
	// Env: STORAGE_SNAPSHOT_PATH
	SnapshotPath string `env:"SNAPSHOT_PATH"`

	// CachePath is the bbolt file backing the offline price/set cache.
	// Empty keeps the cache memory-only.
	// Env: STORAGE_CACHE_PATH
	CachePath string `env:"CACHE_PATH"`
}

// Scanner holds timing settings for the identification pipeline.
type Scanner struct {
	// ScanInterval is the period of the capture/submit tick.
	// Env: SCANNER_SCAN_INTERVAL
	ScanInterval time.Duration `env:"SCAN_INTERVAL"`

	// DedupCooldown is how long an identified fingerprint suppresses
	// repeat identifications of the same physical card.
	// Env: SCANNER_DEDUP_COOLDOWN
	DedupCooldown time.Duration `env:"DEDUP_COOLDOWN"`

	// DedupCapacity bounds the dedup window's size; the oldest entry is
	// evicted when an insert would exceed it.
	// Env: SCANNER_DEDUP_CAPACITY
	DedupCapacity int `env:"DEDUP_CAPACITY"`

	// FramesDir is the directory the file-based capture source polls for
	// dropped frame images.
	// Env: SCANNER_FRAMES_DIR
	FramesDir string `env:"FRAMES_DIR"`
}

// Cache holds freshness settings for the offline cache.
type Cache struct {
	// TTL is how long a cached entry counts as fresh. Entries older than
	// the TTL are still served, marked stale, when the remote source is
	// unreachable.
	// Env: CACHE_TTL
	TTL time.Duration `env:"TTL"`
}

// GetStructuredConfig loads, merges, and validates the client
// configuration from all available sources in the following priority
// order (earlier sources win, later ones fill remaining zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
