package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/alcancesol/internal/flagx"
	"github.com/dmitrijs2005/alcancesol/internal/timex"
)

// JsonConfig is the DTO of the JSON file. Absent keys stay nil and do not
// override earlier values.
type JsonConfig struct {
	ListenAddr   *string         `json:"listen_addr"`
	OriginURL    *string         `json:"origin_url"`
	CacheDBPath  *string         `json:"cache_db_path"`
	CacheVersion *string         `json:"cache_version"`
	FetchTimeout *timex.Duration `json:"fetch_timeout"`
	SkipWaiting  *bool           `json:"skip_waiting"`
	LogBackend   *string         `json:"log_backend"`
}

func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.ListenAddr, jc.ListenAddr)
	setString(&cfg.OriginURL, jc.OriginURL)
	setString(&cfg.CacheDBPath, jc.CacheDBPath)
	setString(&cfg.CacheVersion, jc.CacheVersion)
	setString(&cfg.LogBackend, jc.LogBackend)
	if jc.FetchTimeout != nil {
		cfg.FetchTimeout = jc.FetchTimeout.Duration
	}
	if jc.SkipWaiting != nil {
		cfg.SkipWaiting = *jc.SkipWaiting
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
