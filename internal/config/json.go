package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type structuredJSONConfig struct {
	App struct {
		AuthToken string `json:"auth_token"`
	} `json:"app,omitempty"`

	Remote struct {
		BaseURL         string   `json:"base_url"`
		RequestTimeout  Duration `json:"request_timeout"`
		IdentifyTimeout Duration `json:"identify_timeout"`
	} `json:"remote,omitempty"`

	Storage struct {
		SnapshotPath string `json:"snapshot_path"`
		CachePath    string `json:"cache_path"`
	} `json:"storage,omitempty"`

	Scanner struct {
		ScanInterval  Duration `json:"scan_interval"`
		DedupCooldown Duration `json:"dedup_cooldown"`
		DedupCapacity int      `json:"dedup_capacity"`
		FramesDir     string   `json:"frames_dir"`
	} `json:"scanner,omitempty"`

	Cache struct {
		TTL Duration `json:"ttl"`
	} `json:"cache,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg structuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			AuthToken: jsonCfg.App.AuthToken,
		},
		Remote: Remote{
			BaseURL:         jsonCfg.Remote.BaseURL,
			RequestTimeout:  time.Duration(jsonCfg.Remote.RequestTimeout),
			IdentifyTimeout: time.Duration(jsonCfg.Remote.IdentifyTimeout),
		},
		Storage: Storage{
			SnapshotPath: jsonCfg.Storage.SnapshotPath,
			CachePath:    jsonCfg.Storage.CachePath,
		},
		Scanner: Scanner{
			ScanInterval:  time.Duration(jsonCfg.Scanner.ScanInterval),
			DedupCooldown: time.Duration(jsonCfg.Scanner.DedupCooldown),
			DedupCapacity: jsonCfg.Scanner.DedupCapacity,
			FramesDir:     jsonCfg.Scanner.FramesDir,
		},
		Cache: Cache{
			TTL: time.Duration(jsonCfg.Cache.TTL),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON
// unmarshaling from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
