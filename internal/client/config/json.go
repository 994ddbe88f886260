package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/alcancesol/internal/flagx"
	"github.com/dmitrijs2005/alcancesol/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Pointer fields tell absent keys apart from empty values; durations rely on
// timex.Duration so they can be strings like "10s" or integer nanoseconds.
type JsonConfig struct {
	DatabasePath  *string         `json:"database_path"`
	SupportNumber *string         `json:"support_number"`
	MapsAPIKey    *string         `json:"maps_api_key"`
	LocateTimeout *timex.Duration `json:"locate_timeout"`
	Position      *string         `json:"position"`
	LogBackend    *string         `json:"log_backend"`
}

// parseJson overlays cfg with values loaded from the JSON file named by -c
// or -config in args. Without either flag nothing is loaded.
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

	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.SupportNumber, jc.SupportNumber)
	setString(&cfg.MapsAPIKey, jc.MapsAPIKey)
	setString(&cfg.Position, jc.Position)
	setString(&cfg.LogBackend, jc.LogBackend)
	if jc.LocateTimeout != nil {
		cfg.LocateTimeout = jc.LocateTimeout.Duration
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
