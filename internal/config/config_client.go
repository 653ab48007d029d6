package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side application settings derived from the
// shared structured config.
type ClientApp struct {
	// AuthToken is the bearer token passed to the remote adapter and the
	// account provider. Empty means guest mode.
	AuthToken string
}

// ClientRemote holds network settings used by the client transport layer.
type ClientRemote struct {
	// BaseURL is the remote service endpoint used by the client.
	BaseURL string
	// RequestTimeout is the default timeout for outbound client requests.
	RequestTimeout time.Duration
	// IdentifyTimeout is the timeout for frame identification requests.
	IdentifyTimeout time.Duration
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// SnapshotPath is the SQLite snapshot file; empty disables persistence.
	SnapshotPath string
	// CachePath is the bbolt offline cache file; empty keeps the cache
	// memory-only.
	CachePath string
}

// ClientScanner contains identification pipeline settings.
type ClientScanner struct {
	// ScanInterval defines how often the pipeline captures a frame.
	ScanInterval time.Duration
	// DedupCooldown defines how long a fingerprint suppresses repeats.
	DedupCooldown time.Duration
	// DedupCapacity bounds the dedup window size.
	DedupCapacity int
	// FramesDir is the directory the file-based capture source polls.
	FramesDir string
}

// ClientCache contains offline cache settings.
type ClientCache struct {
	// TTL is the freshness horizon of cached entries.
	TTL time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	// App contains application-level client settings.
	App ClientApp
	// Remote contains client transport addresses and timeouts.
	Remote ClientRemote
	// Storage contains client storage settings.
	Storage ClientStorage
	// Scanner contains identification pipeline settings.
	Scanner ClientScanner
	// Cache contains offline cache settings.
	Cache ClientCache
}

// GetClientConfig builds and validates a client-specific config view
// from the merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the
// fields relevant to the client runtime, and returns the resulting
// [ClientConfig].
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := &ClientConfig{
		App: ClientApp{
			AuthToken: cfg.App.AuthToken,
		},
		Remote: ClientRemote{
			BaseURL:         cfg.Remote.BaseURL,
			RequestTimeout:  cfg.Remote.RequestTimeout,
			IdentifyTimeout: cfg.Remote.IdentifyTimeout,
		},
		Storage: ClientStorage{
			SnapshotPath: cfg.Storage.SnapshotPath,
			CachePath:    cfg.Storage.CachePath,
		},
		Scanner: ClientScanner{
			ScanInterval:  cfg.Scanner.ScanInterval,
			DedupCooldown: cfg.Scanner.DedupCooldown,
			DedupCapacity: cfg.Scanner.DedupCapacity,
			FramesDir:     cfg.Scanner.FramesDir,
		},
		Cache: ClientCache{
			TTL: cfg.Cache.TTL,
		},
	}

	return clientCfg, nil
}
