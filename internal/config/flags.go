package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-r remote service base URL
//	-s snapshot database path
//	-cache-path offline cache path
//	-c/-config json file path with configs
//	-auth-token account bearer token
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-identify-timeout identification request timeout
//	-scan-interval capture tick period
//	-frames-dir directory polled for frame images
func ParseFlags() *StructuredConfig {
	var baseURL string
	var snapshotPath string
	var cachePath string
	var jsonConfigPath string
	var authToken string
	var requestTimeout time.Duration
	var identifyTimeout time.Duration
	var scanInterval time.Duration
	var framesDir string

	flag.StringVar(&baseURL, "r", "", "Remote service base URL")
	flag.StringVar(&snapshotPath, "s", "", "Snapshot database path")
	flag.StringVar(&cachePath, "cache-path", "", "Offline cache path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&authToken, "auth-token", "", "Account bearer token")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&identifyTimeout, "identify-timeout", 0, "Identification request timeout")
	flag.DurationVar(&scanInterval, "scan-interval", 0, "Capture tick period")
	flag.StringVar(&framesDir, "frames-dir", "", "Directory polled for frame images")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			AuthToken: authToken,
		},
		Remote: Remote{
			BaseURL:         baseURL,
			RequestTimeout:  requestTimeout,
			IdentifyTimeout: identifyTimeout,
		},
		Storage: Storage{
			SnapshotPath: snapshotPath,
			CachePath:    cachePath,
		},
		Scanner: Scanner{
			ScanInterval: scanInterval,
			FramesDir:    framesDir,
		},
		JSONFilePath: jsonConfigPath,
	}
}
